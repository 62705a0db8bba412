package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/user"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// DeleteUserUseCase removes a user record once every guard clears.
type DeleteUserUseCase struct {
	userRepo user.Repository
	guard    *CanDeleteUserUseCase
	logger   logger.Interface
}

func NewDeleteUserUseCase(
	userRepo user.Repository,
	guard *CanDeleteUserUseCase,
	logger logger.Interface,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo: userRepo,
		guard:    guard,
		logger:   logger,
	}
}

func (uc *DeleteUserUseCase) Execute(ctx context.Context, userID uint64) error {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return apperrors.NewNotFoundError("user not found")
	}

	check, err := uc.guard.Execute(ctx, userID)
	if err != nil {
		return err
	}
	if !check.Allowed {
		return apperrors.NewGuardViolationError("user cannot be deleted", check.Reasons)
	}

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	uc.logger.Infow("user deleted", "user_id", userID)
	return nil
}
