package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/mappers"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type KeyRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.KeyMapper
	logger logger.Interface
}

func NewKeyRepository(
	db *gorm.DB,
	logger logger.Interface,
) key.Repository {
	return &KeyRepositoryImpl{
		db:     db,
		mapper: mappers.NewKeyMapper(),
		logger: logger,
	}
}

func (r *KeyRepositoryImpl) Create(ctx context.Context, k *key.Key) error {
	model, err := r.mapper.ToModel(k)
	if err != nil {
		r.logger.Errorw("failed to map key entity to model", "error", err)
		return fmt.Errorf("failed to map key entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to create key in database", "server_id", k.ServerID, "error", err)
		return fmt.Errorf("failed to create key: %w", err)
	}

	k.ID = model.ID
	return nil
}

func (r *KeyRepositoryImpl) GetByID(ctx context.Context, id uint) (*key.Key, error) {
	var model models.KeyModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get key by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *KeyRepositoryImpl) Update(ctx context.Context, k *key.Key) error {
	model, err := r.mapper.ToModel(k)
	if err != nil {
		return fmt.Errorf("failed to map key entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Save(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to update key", "id", k.ID, "error", err)
		return fmt.Errorf("failed to update key: %w", err)
	}

	return nil
}

func (r *KeyRepositoryImpl) Delete(ctx context.Context, id uint) error {
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Delete(&models.KeyModel{}, id).Error
	})
	if err != nil {
		r.logger.Errorw("failed to delete key", "id", id, "error", err)
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

func (r *KeyRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*key.Key, error) {
	var modelList []*models.KeyModel

	if err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("id").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list keys by subscription", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *KeyRepositoryImpl) ListByServer(ctx context.Context, serverID uint) ([]*key.Key, error) {
	var modelList []*models.KeyModel

	if err := r.db.WithContext(ctx).
		Where("server_id = ?", serverID).
		Order("id").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list keys by server", "server_id", serverID, "error", err)
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *KeyRepositoryImpl) ListByUser(ctx context.Context, userID uint64) ([]*key.Key, error) {
	var modelList []*models.KeyModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list keys by user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *KeyRepositoryImpl) DeleteBySubscription(ctx context.Context, subscriptionID uint) error {
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Where("subscription_id = ?", subscriptionID).
			Delete(&models.KeyModel{}).Error
	})
	if err != nil {
		r.logger.Errorw("failed to delete keys by subscription", "subscription_id", subscriptionID, "error", err)
		return fmt.Errorf("failed to delete keys: %w", err)
	}

	return nil
}

func (r *KeyRepositoryImpl) ListForBundle(ctx context.Context, subscriptionID uint, userID uint64) ([]*key.BundleEntry, error) {
	var keyModels []*models.KeyModel

	if err := r.db.WithContext(ctx).
		Joins("JOIN servers ON servers.id = keys.server_id").
		Where("keys.subscription_id = ? AND keys.user_id = ? AND servers.active = ?", subscriptionID, userID, true).
		Order("servers.country, servers.name, keys.id").
		Find(&keyModels).Error; err != nil {
		r.logger.Errorw("failed to list bundle keys", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to list bundle keys: %w", err)
	}

	serverIDs := make([]uint, 0, len(keyModels))
	seen := make(map[uint]bool)
	for _, m := range keyModels {
		if !seen[m.ServerID] {
			seen[m.ServerID] = true
			serverIDs = append(serverIDs, m.ServerID)
		}
	}

	var serverModels []*models.ServerModel
	if len(serverIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("id IN ?", serverIDs).
			Find(&serverModels).Error; err != nil {
			return nil, fmt.Errorf("failed to load bundle servers: %w", err)
		}
	}

	serverMapper := mappers.NewServerMapper()
	servers := make(map[uint]*server.Server, len(serverModels))
	for _, m := range serverModels {
		entity, err := serverMapper.ToEntity(m)
		if err != nil {
			return nil, fmt.Errorf("failed to map bundle server: %w", err)
		}
		servers[entity.ID] = entity
	}

	entries := make([]*key.BundleEntry, 0, len(keyModels))
	for _, m := range keyModels {
		entity, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, fmt.Errorf("failed to map bundle key: %w", err)
		}
		srv, ok := servers[m.ServerID]
		if !ok {
			continue
		}
		entries = append(entries, &key.BundleEntry{Key: entity, Server: srv})
	}

	return entries, nil
}

func (r *KeyRepositoryImpl) UpdateClientConfig(ctx context.Context, keyID uint, clientConfig string) error {
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Model(&models.KeyModel{}).
			Where("id = ?", keyID).
			Update("client_config", clientConfig).Error
	})
	if err != nil {
		r.logger.Errorw("failed to update key client config", "id", keyID, "error", err)
		return fmt.Errorf("failed to update key client config: %w", err)
	}

	return nil
}

func (r *KeyRepositoryImpl) BackfillRemoteID(ctx context.Context, keyID uint, remoteID string) error {
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Model(&models.KeyModel{}).
			Where("id = ? AND (remote_id = '' OR remote_id IS NULL)", keyID).
			Update("remote_id", remoteID).Error
	})
	if err != nil {
		r.logger.Errorw("failed to backfill key remote ID", "id", keyID, "error", err)
		return fmt.Errorf("failed to backfill key remote ID: %w", err)
	}

	return nil
}

func (r *KeyRepositoryImpl) BatchUpdateTraffic(ctx context.Context, usage map[uint]int64) error {
	if len(usage) == 0 {
		return nil
	}

	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for id, bytes := range usage {
				if err := tx.Model(&models.KeyModel{}).
					Where("id = ?", id).
					Update("traffic_usage_bytes", bytes).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		r.logger.Errorw("failed to batch update key traffic", "count", len(usage), "error", err)
		return fmt.Errorf("failed to batch update key traffic: %w", err)
	}

	return nil
}

func (r *KeyRepositoryImpl) ZeroTrafficBySubscription(ctx context.Context, subscriptionID uint) error {
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Model(&models.KeyModel{}).
			Where("subscription_id = ?", subscriptionID).
			Update("traffic_usage_bytes", 0).Error
	})
	if err != nil {
		r.logger.Errorw("failed to zero key traffic", "subscription_id", subscriptionID, "error", err)
		return fmt.Errorf("failed to zero key traffic: %w", err)
	}

	return nil
}

func (r *KeyRepositoryImpl) DistinctPositiveLimits(ctx context.Context, subscriptionID uint) ([]int64, error) {
	var limits []int64

	if err := r.db.WithContext(ctx).
		Model(&models.KeyModel{}).
		Distinct("traffic_limit_mb").
		Where("subscription_id = ? AND traffic_limit_mb > 0", subscriptionID).
		Pluck("traffic_limit_mb", &limits).Error; err != nil {
		r.logger.Errorw("failed to get distinct key limits", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to get distinct key limits: %w", err)
	}

	return limits, nil
}
