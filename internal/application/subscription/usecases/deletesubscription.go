package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type DeleteSubscriptionCommand struct {
	SubscriptionID uint
}

// DeleteSubscriptionUseCase is the admin path: deactivate, then physically
// remove the subscription row.
type DeleteSubscriptionUseCase struct {
	subRepo      subscription.Repository
	deactivateUC *DeactivateSubscriptionUseCase
	logger       logger.Interface
}

func NewDeleteSubscriptionUseCase(
	subRepo subscription.Repository,
	deactivateUC *DeactivateSubscriptionUseCase,
	logger logger.Interface,
) *DeleteSubscriptionUseCase {
	return &DeleteSubscriptionUseCase{
		subRepo:      subRepo,
		deactivateUC: deactivateUC,
		logger:       logger,
	}
}

func (uc *DeleteSubscriptionUseCase) Execute(ctx context.Context, cmd DeleteSubscriptionCommand) error {
	if err := uc.deactivateUC.Execute(ctx, DeactivateSubscriptionCommand{
		SubscriptionID: cmd.SubscriptionID,
	}); err != nil {
		return err
	}

	if err := uc.subRepo.Delete(ctx, cmd.SubscriptionID); err != nil {
		return fmt.Errorf("failed to delete subscription row: %w", err)
	}

	uc.logger.Infow("subscription deleted", "id", cmd.SubscriptionID)
	return nil
}
