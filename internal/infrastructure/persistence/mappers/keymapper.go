package mappers

import (
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/mapper"
)

type KeyMapper interface {
	ToEntity(model *models.KeyModel) (*key.Key, error)
	ToModel(entity *key.Key) (*models.KeyModel, error)
	ToEntities(models []*models.KeyModel) ([]*key.Key, error)
}

type KeyMapperImpl struct{}

func NewKeyMapper() KeyMapper {
	return &KeyMapperImpl{}
}

func (m *KeyMapperImpl) ToEntity(model *models.KeyModel) (*key.Key, error) {
	if model == nil {
		return nil, nil
	}

	protocol := server.Protocol(model.Protocol)
	if !protocol.Valid() {
		return nil, fmt.Errorf("invalid key protocol: %s", model.Protocol)
	}

	return &key.Key{
		ID:                model.ID,
		ServerID:          model.ServerID,
		UserID:            model.UserID,
		SubscriptionID:    model.SubscriptionID,
		Email:             model.Email,
		Protocol:          protocol,
		RemoteID:          model.RemoteID,
		UUID:              model.UUID,
		AccessURL:         model.AccessURL,
		ClientConfig:      model.ClientConfig,
		TrafficLimitMB:    model.TrafficLimitMB,
		TrafficUsageBytes: model.TrafficUsageBytes,
		CreatedAt:         model.CreatedAt,
	}, nil
}

func (m *KeyMapperImpl) ToModel(entity *key.Key) (*models.KeyModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.KeyModel{
		ID:                entity.ID,
		ServerID:          entity.ServerID,
		UserID:            entity.UserID,
		SubscriptionID:    entity.SubscriptionID,
		Email:             entity.Email,
		Protocol:          string(entity.Protocol),
		RemoteID:          entity.RemoteID,
		UUID:              entity.UUID,
		AccessURL:         entity.AccessURL,
		ClientConfig:      entity.ClientConfig,
		TrafficLimitMB:    entity.TrafficLimitMB,
		TrafficUsageBytes: entity.TrafficUsageBytes,
		CreatedAt:         entity.CreatedAt,
	}, nil
}

func (m *KeyMapperImpl) ToEntities(modelList []*models.KeyModel) ([]*key.Key, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.KeyModel) uint { return model.ID })
}
