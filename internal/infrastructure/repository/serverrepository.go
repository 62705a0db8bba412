package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/mappers"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type ServerRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ServerMapper
	logger logger.Interface
}

func NewServerRepository(
	db *gorm.DB,
	logger logger.Interface,
) server.Repository {
	return &ServerRepositoryImpl{
		db:     db,
		mapper: mappers.NewServerMapper(),
		logger: logger,
	}
}

func (r *ServerRepositoryImpl) Create(ctx context.Context, srv *server.Server) error {
	model, err := r.mapper.ToModel(srv)
	if err != nil {
		return fmt.Errorf("failed to map server entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to create server", "name", srv.Name, "error", err)
		return fmt.Errorf("failed to create server: %w", err)
	}

	srv.ID = model.ID
	r.logger.Infow("server created", "id", model.ID, "name", model.Name, "protocol", model.Protocol)
	return nil
}

func (r *ServerRepositoryImpl) GetByID(ctx context.Context, id uint) (*server.Server, error) {
	var model models.ServerModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get server by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get server: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ServerRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]*server.Server, error) {
	query := r.db.WithContext(ctx).Order("id")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var modelList []*models.ServerModel
	if err := query.Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list servers", "error", err)
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *ServerRepositoryImpl) ListActiveByProtocol(ctx context.Context, protocol server.Protocol) ([]*server.Server, error) {
	var modelList []*models.ServerModel

	if err := r.db.WithContext(ctx).
		Where("active = ? AND protocol = ?", true, string(protocol)).
		Order("id").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list active servers by protocol", "protocol", protocol, "error", err)
		return nil, fmt.Errorf("failed to list active servers: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *ServerRepositoryImpl) Update(ctx context.Context, srv *server.Server) error {
	model, err := r.mapper.ToModel(srv)
	if err != nil {
		return fmt.Errorf("failed to map server entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Save(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to update server", "id", srv.ID, "error", err)
		return fmt.Errorf("failed to update server: %w", err)
	}

	return nil
}

func (r *ServerRepositoryImpl) Delete(ctx context.Context, id uint) error {
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Delete(&models.ServerModel{}, id).Error
	})
	if err != nil {
		r.logger.Errorw("failed to delete server", "id", id, "error", err)
		return fmt.Errorf("failed to delete server: %w", err)
	}

	r.logger.Infow("server deleted", "id", id)
	return nil
}
