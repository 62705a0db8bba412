package mappers

import (
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := subscription.Reconstruct(
		model.ID,
		model.UserID,
		model.Token,
		model.TariffID,
		model.IsActive,
		model.CreatedAt,
		model.ExpiresAt,
		model.TrafficLimitMB,
		model.TrafficUsageBytes,
		model.TrafficOverLimitAt,
		model.TrafficOverLimitNotified,
		model.PurchaseNotificationSent,
		model.NotifiedMask,
		model.LastUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SubscriptionModel{
		ID:                       entity.ID(),
		UserID:                   entity.UserID(),
		Token:                    entity.Token(),
		TariffID:                 entity.TariffID(),
		IsActive:                 entity.IsActive(),
		ExpiresAt:                entity.ExpiresAt(),
		TrafficLimitMB:           entity.TrafficLimitMB(),
		TrafficUsageBytes:        entity.TrafficUsageBytes(),
		TrafficOverLimitAt:       entity.TrafficOverLimitAt(),
		TrafficOverLimitNotified: entity.TrafficOverLimitNotified(),
		PurchaseNotificationSent: entity.PurchaseNotificationSent(),
		NotifiedMask:             entity.NotifiedMask(),
		CreatedAt:                entity.CreatedAt(),
		LastUpdatedAt:            entity.LastUpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(modelList []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.SubscriptionModel) uint { return model.ID })
}
