package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/payment"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type CanDeleteUserResult struct {
	Allowed bool
	// Reasons lists every guard that blocks the deletion, so the admin sees
	// the full picture in one call.
	Reasons []string
}

// CanDeleteUserUseCase checks the deletion guards: an active subscription,
// settled payments or live keys all block removal.
type CanDeleteUserUseCase struct {
	subRepo     subscription.Repository
	keyRepo     key.Repository
	paymentRepo payment.Repository
	logger      logger.Interface
}

func NewCanDeleteUserUseCase(
	subRepo subscription.Repository,
	keyRepo key.Repository,
	paymentRepo payment.Repository,
	logger logger.Interface,
) *CanDeleteUserUseCase {
	return &CanDeleteUserUseCase{
		subRepo:     subRepo,
		keyRepo:     keyRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

func (uc *CanDeleteUserUseCase) Execute(ctx context.Context, userID uint64) (*CanDeleteUserResult, error) {
	result := &CanDeleteUserResult{}

	active, err := uc.subRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active subscription: %w", err)
	}
	if active != nil {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("active subscription %d", active.ID()))
	}

	settled, err := uc.paymentRepo.CountSettledByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count settled payments: %w", err)
	}
	if settled > 0 {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("%d settled payments", settled))
	}

	keys, err := uc.keyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	if len(keys) > 0 {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("%d provisioned keys", len(keys)))
	}

	result.Allowed = len(result.Reasons) == 0
	return result, nil
}
