package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merdocx/veilbot/internal/domain/freekey"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/mappers"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type FreeKeyUsageRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.FreeKeyUsageMapper
	logger logger.Interface
}

func NewFreeKeyUsageRepository(
	db *gorm.DB,
	logger logger.Interface,
) freekey.Repository {
	return &FreeKeyUsageRepositoryImpl{
		db:     db,
		mapper: mappers.NewFreeKeyUsageMapper(),
		logger: logger,
	}
}

func (r *FreeKeyUsageRepositoryImpl) Record(ctx context.Context, userID uint64, protocol, country string) error {
	model := &models.FreeKeyUsageModel{
		UserID:    userID,
		Protocol:  protocol,
		Country:   country,
		CreatedAt: biztime.NowUTC(),
	}

	// ON CONFLICT DO NOTHING makes repeated recording idempotent.
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to record free key usage", "user_id", userID, "error", err)
		return fmt.Errorf("failed to record free key usage: %w", err)
	}

	return nil
}

func (r *FreeKeyUsageRepositoryImpl) Exists(ctx context.Context, userID uint64, protocol, country string) (bool, error) {
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&models.FreeKeyUsageModel{}).
		Where("user_id = ? AND protocol = ? AND country = ?", userID, protocol, country).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check free key usage: %w", err)
	}

	return count > 0, nil
}

func (r *FreeKeyUsageRepositoryImpl) ListByUserID(ctx context.Context, userID uint64) ([]*freekey.Usage, error) {
	var modelList []*models.FreeKeyUsageModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list free key usage", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list free key usage: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
