package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/merdocx/veilbot/internal/domain/tariff"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/mappers"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type TariffRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TariffMapper
	logger logger.Interface
}

func NewTariffRepository(
	db *gorm.DB,
	logger logger.Interface,
) tariff.Repository {
	return &TariffRepositoryImpl{
		db:     db,
		mapper: mappers.NewTariffMapper(),
		logger: logger,
	}
}

func (r *TariffRepositoryImpl) Create(ctx context.Context, t *tariff.Tariff) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map tariff entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to create tariff", "name", t.Name, "error", err)
		return fmt.Errorf("failed to create tariff: %w", err)
	}

	t.ID = model.ID
	return nil
}

func (r *TariffRepositoryImpl) GetByID(ctx context.Context, id uint) (*tariff.Tariff, error) {
	var model models.TariffModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get tariff by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get tariff: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *TariffRepositoryImpl) List(ctx context.Context) ([]*tariff.Tariff, error) {
	var modelList []*models.TariffModel

	if err := r.db.WithContext(ctx).Order("id").Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list tariffs", "error", err)
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *TariffRepositoryImpl) Update(ctx context.Context, t *tariff.Tariff) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map tariff entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Save(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to update tariff", "id", t.ID, "error", err)
		return fmt.Errorf("failed to update tariff: %w", err)
	}

	return nil
}

func (r *TariffRepositoryImpl) Delete(ctx context.Context, id uint) error {
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Delete(&models.TariffModel{}, id).Error
	})
	if err != nil {
		r.logger.Errorw("failed to delete tariff", "id", id, "error", err)
		return fmt.Errorf("failed to delete tariff: %w", err)
	}

	return nil
}
