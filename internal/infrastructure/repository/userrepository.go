package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merdocx/veilbot/internal/domain/user"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/mappers"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(
	db *gorm.DB,
	logger logger.Interface,
) user.Repository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model, err := r.mapper.ToModel(u)
	if err != nil {
		return fmt.Errorf("failed to map user entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to create user", "id", u.ID, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	var model models.UserModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *UserRepositoryImpl) EnsureExists(ctx context.Context, id uint64, name string) (*user.User, error) {
	entity := user.New(id, name)
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to map user entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to ensure user exists", "id", id, "error", err)
		return nil, fmt.Errorf("failed to ensure user exists: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepositoryImpl) Update(ctx context.Context, u *user.User) error {
	model, err := r.mapper.ToModel(u)
	if err != nil {
		return fmt.Errorf("failed to map user entity: %w", err)
	}

	err = database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Save(model).Error
	})
	if err != nil {
		r.logger.Errorw("failed to update user", "id", u.ID, "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	err := database.WithLockRetry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Delete(&models.UserModel{}, id).Error
	})
	if err != nil {
		r.logger.Errorw("failed to delete user", "id", id, "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.logger.Infow("user deleted", "id", id)
	return nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]*user.User, error) {
	var modelList []*models.UserModel

	if err := r.db.WithContext(ctx).Order("id").Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
