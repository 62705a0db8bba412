package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/merdocx/veilbot/internal/domain/reconcile"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/mappers"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type ReconcileReportRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ReconcileReportMapper
	logger logger.Interface
}

func NewReconcileReportRepository(
	db *gorm.DB,
	logger logger.Interface,
) reconcile.Repository {
	return &ReconcileReportRepositoryImpl{
		db:     db,
		mapper: mappers.NewReconcileReportMapper(),
		logger: logger,
	}
}

func (r *ReconcileReportRepositoryImpl) Save(ctx context.Context, report *reconcile.Report) error {
	model, err := r.mapper.ToModel(report)
	if err != nil {
		return fmt.Errorf("failed to map reconcile report: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to save reconcile report", "server_id", report.ServerID, "error", err)
		return fmt.Errorf("failed to save reconcile report: %w", err)
	}

	report.ID = model.ID
	return nil
}

func (r *ReconcileReportRepositoryImpl) GetLatestByServer(ctx context.Context, serverID uint) (*reconcile.Report, error) {
	var model models.ReconcileReportModel

	if err := r.db.WithContext(ctx).
		Where("server_id = ?", serverID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get latest reconcile report", "server_id", serverID, "error", err)
		return nil, fmt.Errorf("failed to get latest reconcile report: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ReconcileReportRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*reconcile.Report, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var modelList []*models.ReconcileReportModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list reconcile reports", "error", err)
		return nil, fmt.Errorf("failed to list reconcile reports: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
