package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type PruneOrphanSubscriptionsResult struct {
	Inspected int
	Pruned    int
}

// PruneOrphanSubscriptionsUseCase removes active subscription rows that lost
// every key, for example after a crash between remote and local deletes.
// Rows with no keys serve nothing and would otherwise linger forever.
type PruneOrphanSubscriptionsUseCase struct {
	subRepo subscription.Repository
	keyRepo key.Repository
	logger  logger.Interface
}

func NewPruneOrphanSubscriptionsUseCase(
	subRepo subscription.Repository,
	keyRepo key.Repository,
	logger logger.Interface,
) *PruneOrphanSubscriptionsUseCase {
	return &PruneOrphanSubscriptionsUseCase{
		subRepo: subRepo,
		keyRepo: keyRepo,
		logger:  logger,
	}
}

func (uc *PruneOrphanSubscriptionsUseCase) Execute(ctx context.Context) (*PruneOrphanSubscriptionsResult, error) {
	subs, err := uc.subRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	result := &PruneOrphanSubscriptionsResult{Inspected: len(subs)}
	for _, sub := range subs {
		keys, err := uc.keyRepo.ListBySubscription(ctx, sub.ID())
		if err != nil {
			uc.logger.Warnw("failed to list keys for prune check", "id", sub.ID(), "error", err)
			continue
		}
		if len(keys) > 0 {
			continue
		}

		if err := uc.subRepo.Delete(ctx, sub.ID()); err != nil {
			uc.logger.Errorw("failed to prune keyless subscription", "id", sub.ID(), "error", err)
			continue
		}
		result.Pruned++
		uc.logger.Infow("pruned keyless subscription", "id", sub.ID(), "user_id", sub.UserID())
	}
	return result, nil
}
