package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/mappers"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created", "id", model.ID, "user_id", model.UserID, "tariff_id", model.TariffID)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetByToken(ctx context.Context, token string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by token", "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetActiveByUserID(ctx context.Context, userID uint64) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get active subscription by user ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) TokenExists(ctx context.Context, token string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("token = ?", token).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check token existence: %w", err)
	}
	return count > 0, nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "id", sub.ID(), "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Save(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to update subscription", "id", sub.ID(), "error", err)
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, id uint) error {
	// Legacy rows can carry mismatched linkage, so the hard delete runs
	// under the scoped foreign-key escape.
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return database.WithoutForeignKeys(tx, func(tx *gorm.DB) error {
				return tx.Delete(&models.SubscriptionModel{}, id).Error
			})
		})
	})
	if err != nil {
		r.logger.Errorw("failed to delete subscription", "id", id, "error", err)
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	r.logger.Infow("subscription deleted", "id", id)
	return nil
}

func (r *SubscriptionRepositoryImpl) List(ctx context.Context, filter subscription.Filter) ([]*subscription.Subscription, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SubscriptionModel{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var modelList []*models.SubscriptionModel
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map subscriptions: %w", err)
	}

	return entities, total, nil
}

func (r *SubscriptionRepositoryImpl) ListActive(ctx context.Context) ([]*subscription.Subscription, error) {
	var modelList []*models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list active subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SubscriptionRepositoryImpl) ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	var modelList []*models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("expires_at <= ?", cutoff).
		Where("expires_at > ?", time.Time{}).
		Order("expires_at").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list expired subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SubscriptionRepositoryImpl) ListExpiringWithin(ctx context.Context, now time.Time, within time.Duration) ([]*subscription.Subscription, error) {
	var modelList []*models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND expires_at > ? AND expires_at <= ?", true, now, now.Add(within)).
		Order("expires_at").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list expiring subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SubscriptionRepositoryImpl) ListPurchaseUnnotified(ctx context.Context, since time.Time) ([]*subscription.Subscription, error) {
	var modelList []*models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND purchase_notification_sent = ? AND last_updated_at >= ?", true, false, since).
		Order("id").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list purchase-unnotified subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list purchase-unnotified subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SubscriptionRepositoryImpl) BatchUpdateTraffic(ctx context.Context, usage map[uint]int64) error {
	if len(usage) == 0 {
		return nil
	}

	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for id, bytes := range usage {
				if err := tx.Model(&models.SubscriptionModel{}).
					Where("id = ?", id).
					Update("traffic_usage_bytes", bytes).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		r.logger.Errorw("failed to batch update subscription traffic", "count", len(usage), "error", err)
		return fmt.Errorf("failed to batch update subscription traffic: %w", err)
	}

	return nil
}
