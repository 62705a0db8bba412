package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/merdocx/veilbot/internal/domain/payment"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/mappers"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PaymentMapper
	logger logger.Interface
}

func NewPaymentRepository(
	db *gorm.DB,
	logger logger.Interface,
) payment.Repository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mappers.NewPaymentMapper(),
		logger: logger,
	}
}

func (r *PaymentRepositoryImpl) ListByUserID(ctx context.Context, userID uint64) ([]*payment.Payment, error) {
	var modelList []*models.PaymentModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list payments by user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *PaymentRepositoryImpl) CountSettledByUserID(ctx context.Context, userID uint64) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("user_id = ? AND status IN ?", userID, []string{
			string(payment.StatusPaid),
			string(payment.StatusCompleted),
		}).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count settled payments", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count settled payments: %w", err)
	}

	return count, nil
}
