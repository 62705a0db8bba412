package mappers

import (
	"github.com/merdocx/veilbot/internal/domain/tariff"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/mapper"
)

type TariffMapper interface {
	ToEntity(model *models.TariffModel) (*tariff.Tariff, error)
	ToModel(entity *tariff.Tariff) (*models.TariffModel, error)
	ToEntities(models []*models.TariffModel) ([]*tariff.Tariff, error)
}

type TariffMapperImpl struct{}

func NewTariffMapper() TariffMapper {
	return &TariffMapperImpl{}
}

func (m *TariffMapperImpl) ToEntity(model *models.TariffModel) (*tariff.Tariff, error) {
	if model == nil {
		return nil, nil
	}

	return &tariff.Tariff{
		ID:             model.ID,
		Name:           model.Name,
		DurationSec:    model.DurationSec,
		Price:          model.Price,
		TrafficLimitMB: model.TrafficLimitMB,
		CreatedAt:      model.CreatedAt,
	}, nil
}

func (m *TariffMapperImpl) ToModel(entity *tariff.Tariff) (*models.TariffModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.TariffModel{
		ID:             entity.ID,
		Name:           entity.Name,
		DurationSec:    entity.DurationSec,
		Price:          entity.Price,
		TrafficLimitMB: entity.TrafficLimitMB,
		CreatedAt:      entity.CreatedAt,
	}, nil
}

func (m *TariffMapperImpl) ToEntities(modelList []*models.TariffModel) ([]*tariff.Tariff, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.TariffModel) uint { return model.ID })
}
