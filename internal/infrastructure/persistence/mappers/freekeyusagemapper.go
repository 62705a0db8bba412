package mappers

import (
	"github.com/merdocx/veilbot/internal/domain/freekey"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/mapper"
)

type FreeKeyUsageMapper interface {
	ToEntity(model *models.FreeKeyUsageModel) (*freekey.Usage, error)
	ToEntities(models []*models.FreeKeyUsageModel) ([]*freekey.Usage, error)
}

type FreeKeyUsageMapperImpl struct{}

func NewFreeKeyUsageMapper() FreeKeyUsageMapper {
	return &FreeKeyUsageMapperImpl{}
}

func (m *FreeKeyUsageMapperImpl) ToEntity(model *models.FreeKeyUsageModel) (*freekey.Usage, error) {
	if model == nil {
		return nil, nil
	}

	return &freekey.Usage{
		ID:        model.ID,
		UserID:    model.UserID,
		Protocol:  model.Protocol,
		Country:   model.Country,
		CreatedAt: model.CreatedAt,
	}, nil
}

func (m *FreeKeyUsageMapperImpl) ToEntities(modelList []*models.FreeKeyUsageModel) ([]*freekey.Usage, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.FreeKeyUsageModel) uint { return model.ID })
}
