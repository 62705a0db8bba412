package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/freekey"
	"github.com/merdocx/veilbot/internal/domain/tariff"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type GrantFreeSubscriptionCommand struct {
	UserID   uint64
	UserName string
	TariffID uint
	// Protocol and Country scope the sticky flag: one free grant per tuple.
	Protocol string
	Country  string
}

// GrantFreeSubscriptionUseCase issues a free-tier subscription at most once
// per (user, protocol, country). The usage flag is written after a
// successful grant and is never cleared, so a user who deletes their data
// and comes back cannot claim a second free run.
type GrantFreeSubscriptionUseCase struct {
	freeKeyRepo freekey.Repository
	tariffRepo  tariff.Repository
	createUC    *CreateSubscriptionUseCase
	logger      logger.Interface
}

func NewGrantFreeSubscriptionUseCase(
	freeKeyRepo freekey.Repository,
	tariffRepo tariff.Repository,
	createUC *CreateSubscriptionUseCase,
	logger logger.Interface,
) *GrantFreeSubscriptionUseCase {
	return &GrantFreeSubscriptionUseCase{
		freeKeyRepo: freeKeyRepo,
		tariffRepo:  tariffRepo,
		createUC:    createUC,
		logger:      logger,
	}
}

func (uc *GrantFreeSubscriptionUseCase) Execute(ctx context.Context, cmd GrantFreeSubscriptionCommand) (*CreateSubscriptionResult, error) {
	t, err := uc.tariffRepo.GetByID(ctx, cmd.TariffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff: %w", err)
	}
	if t == nil {
		return nil, apperrors.NewNotFoundError("tariff not found")
	}
	if t.Price > 0 {
		return nil, apperrors.NewValidationError("tariff is not free")
	}

	used, err := uc.freeKeyRepo.Exists(ctx, cmd.UserID, cmd.Protocol, cmd.Country)
	if err != nil {
		return nil, fmt.Errorf("failed to check free-key usage: %w", err)
	}
	if used {
		return nil, apperrors.NewConflictError("free access already granted")
	}

	result, err := uc.createUC.Execute(ctx, CreateSubscriptionCommand{
		UserID:   cmd.UserID,
		UserName: cmd.UserName,
		TariffID: cmd.TariffID,
	})
	if err != nil {
		return nil, err
	}

	// Record after the grant succeeded. A failed write is logged but does
	// not undo the grant; the next attempt re-checks against live state.
	if err := uc.freeKeyRepo.Record(ctx, cmd.UserID, cmd.Protocol, cmd.Country); err != nil {
		uc.logger.Errorw("failed to record free-key usage",
			"user_id", cmd.UserID, "protocol", cmd.Protocol, "country", cmd.Country, "error", err)
	}

	uc.logger.Infow("free subscription granted",
		"user_id", cmd.UserID, "subscription_id", result.ID)
	return result, nil
}
