package mappers

import (
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/mapper"
)

type ServerMapper interface {
	ToEntity(model *models.ServerModel) (*server.Server, error)
	ToModel(entity *server.Server) (*models.ServerModel, error)
	ToEntities(models []*models.ServerModel) ([]*server.Server, error)
}

type ServerMapperImpl struct{}

func NewServerMapper() ServerMapper {
	return &ServerMapperImpl{}
}

func (m *ServerMapperImpl) ToEntity(model *models.ServerModel) (*server.Server, error) {
	if model == nil {
		return nil, nil
	}

	protocol := server.Protocol(model.Protocol)
	if !protocol.Valid() {
		return nil, fmt.Errorf("invalid server protocol: %s", model.Protocol)
	}

	return &server.Server{
		ID:                 model.ID,
		Name:               model.Name,
		Country:            model.Country,
		Protocol:           protocol,
		APIURL:             model.APIURL,
		APICredential:      model.APICredential,
		Domain:             model.Domain,
		Active:             model.Active,
		AccessLevel:        model.AccessLevel,
		InsecureSkipVerify: model.InsecureSkipVerify,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}, nil
}

func (m *ServerMapperImpl) ToModel(entity *server.Server) (*models.ServerModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.ServerModel{
		ID:                 entity.ID,
		Name:               entity.Name,
		Country:            entity.Country,
		Protocol:           string(entity.Protocol),
		APIURL:             entity.APIURL,
		APICredential:      entity.APICredential,
		Domain:             entity.Domain,
		Active:             entity.Active,
		AccessLevel:        entity.AccessLevel,
		InsecureSkipVerify: entity.InsecureSkipVerify,
		CreatedAt:          entity.CreatedAt,
		UpdatedAt:          entity.UpdatedAt,
	}, nil
}

func (m *ServerMapperImpl) ToEntities(modelList []*models.ServerModel) ([]*server.Server, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.ServerModel) uint { return model.ID })
}
