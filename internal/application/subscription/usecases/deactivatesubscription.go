package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/cache"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type DeactivateSubscriptionCommand struct {
	SubscriptionID uint
}

type DeactivateSubscriptionUseCase struct {
	subRepo     subscription.Repository
	keyRepo     key.Repository
	serverRepo  server.Repository
	backends    BackendProvider
	bundleCache BundleCache
	logger      logger.Interface
}

func NewDeactivateSubscriptionUseCase(
	subRepo subscription.Repository,
	keyRepo key.Repository,
	serverRepo server.Repository,
	backends BackendProvider,
	bundleCache BundleCache,
	logger logger.Interface,
) *DeactivateSubscriptionUseCase {
	return &DeactivateSubscriptionUseCase{
		subRepo:     subRepo,
		keyRepo:     keyRepo,
		serverRepo:  serverRepo,
		backends:    backends,
		bundleCache: bundleCache,
		logger:      logger,
	}
}

func (uc *DeactivateSubscriptionUseCase) Execute(ctx context.Context, cmd DeactivateSubscriptionCommand) error {
	sub, err := uc.subRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return apperrors.NewNotFoundError("subscription not found")
	}

	uc.teardownKeys(ctx, sub.ID())

	sub.Deactivate()
	if err := uc.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	uc.bundleCache.Delete(cache.KeyForToken(sub.Token()))

	uc.logger.Infow("subscription deactivated", "id", sub.ID())
	return nil
}

// teardownKeys removes the subscription's keys remotely (best-effort) and
// locally (authoritative).
func (uc *DeactivateSubscriptionUseCase) teardownKeys(ctx context.Context, subscriptionID uint) {
	keys, err := uc.keyRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to list keys for teardown", "subscription_id", subscriptionID, "error", err)
		return
	}

	for _, k := range keys {
		srv, err := uc.serverRepo.GetByID(ctx, k.ServerID)
		if err != nil || srv == nil {
			uc.logger.Warnw("server for key not found, skipping remote delete",
				"key_id", k.ID, "server_id", k.ServerID)
			continue
		}
		if k.RemoteID == "" {
			continue
		}
		if err := uc.backends.ClientFor(srv).DeleteUser(ctx, k.RemoteID); err != nil {
			uc.logger.Warnw("remote key delete failed",
				"key_id", k.ID, "server_id", k.ServerID, "error", err)
		}
	}

	if err := uc.keyRepo.DeleteBySubscription(ctx, subscriptionID); err != nil {
		uc.logger.Errorw("failed to delete key rows", "subscription_id", subscriptionID, "error", err)
	}
}
