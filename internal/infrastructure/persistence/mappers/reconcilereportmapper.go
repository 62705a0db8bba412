package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/reconcile"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/mapper"
)

// reportDetails is the JSON shape of the divergence lists.
type reportDetails struct {
	MissingOnServer []uint   `json:"missing_on_server,omitempty"`
	OrphansOnServer []string `json:"orphans_on_server,omitempty"`
}

type ReconcileReportMapper interface {
	ToEntity(model *models.ReconcileReportModel) (*reconcile.Report, error)
	ToModel(entity *reconcile.Report) (*models.ReconcileReportModel, error)
	ToEntities(models []*models.ReconcileReportModel) ([]*reconcile.Report, error)
}

type ReconcileReportMapperImpl struct{}

func NewReconcileReportMapper() ReconcileReportMapper {
	return &ReconcileReportMapperImpl{}
}

func (m *ReconcileReportMapperImpl) ToEntity(model *models.ReconcileReportModel) (*reconcile.Report, error) {
	if model == nil {
		return nil, nil
	}

	var details reportDetails
	if len(model.Details) > 0 {
		if err := json.Unmarshal(model.Details, &details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report details: %w", err)
		}
	}

	return &reconcile.Report{
		ID:                  model.ID,
		ServerID:            model.ServerID,
		DryRun:              model.DryRun,
		RemoteTotal:         model.RemoteTotal,
		Matched:             model.Matched,
		BackfilledRemoteIDs: model.BackfilledRemoteIDs,
		MissingOnServer:     details.MissingOnServer,
		OrphansOnServer:     details.OrphansOnServer,
		OrphansDeleted:      model.OrphansDeleted,
		CreatedAt:           model.CreatedAt,
	}, nil
}

func (m *ReconcileReportMapperImpl) ToModel(entity *reconcile.Report) (*models.ReconcileReportModel, error) {
	if entity == nil {
		return nil, nil
	}

	detailsJSON, err := json.Marshal(reportDetails{
		MissingOnServer: entity.MissingOnServer,
		OrphansOnServer: entity.OrphansOnServer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report details: %w", err)
	}

	return &models.ReconcileReportModel{
		ID:                  entity.ID,
		ServerID:            entity.ServerID,
		DryRun:              entity.DryRun,
		RemoteTotal:         entity.RemoteTotal,
		Matched:             entity.Matched,
		BackfilledRemoteIDs: entity.BackfilledRemoteIDs,
		OrphansDeleted:      entity.OrphansDeleted,
		Details:             detailsJSON,
		CreatedAt:           entity.CreatedAt,
	}, nil
}

func (m *ReconcileReportMapperImpl) ToEntities(modelList []*models.ReconcileReportModel) ([]*reconcile.Report, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.ReconcileReportModel) uint { return model.ID })
}
