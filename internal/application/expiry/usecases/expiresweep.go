package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/cache"
	"github.com/merdocx/veilbot/internal/infrastructure/notification"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type ExpireSweepResult struct {
	Expired int
	Failed  int
}

// ExpireSweepUseCase removes subscriptions whose expiry plus the grace
// period has passed: keys are deleted remotely best-effort and locally
// authoritatively, then the subscription row itself goes. The grace period
// keeps a just-expired user renewable without losing the token.
type ExpireSweepUseCase struct {
	subRepo     subscription.Repository
	keyRepo     key.Repository
	serverRepo  server.Repository
	backends    BackendProvider
	bundleCache BundleCache
	notifier    notification.Notifier
	grace       time.Duration
	logger      logger.Interface
}

func NewExpireSweepUseCase(
	subRepo subscription.Repository,
	keyRepo key.Repository,
	serverRepo server.Repository,
	backends BackendProvider,
	bundleCache BundleCache,
	notifier notification.Notifier,
	grace time.Duration,
	logger logger.Interface,
) *ExpireSweepUseCase {
	return &ExpireSweepUseCase{
		subRepo:     subRepo,
		keyRepo:     keyRepo,
		serverRepo:  serverRepo,
		backends:    backends,
		bundleCache: bundleCache,
		notifier:    notifier,
		grace:       grace,
		logger:      logger,
	}
}

func (uc *ExpireSweepUseCase) Execute(ctx context.Context) (*ExpireSweepResult, error) {
	cutoff := biztime.NowUTC().Add(-uc.grace)
	subs, err := uc.subRepo.ListExpiredBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}

	result := &ExpireSweepResult{}
	for _, sub := range subs {
		if err := uc.expireOne(ctx, sub); err != nil {
			uc.logger.Errorw("failed to expire subscription", "id", sub.ID(), "error", err)
			result.Failed++
			continue
		}
		result.Expired++
	}

	if result.Expired > 0 || result.Failed > 0 {
		uc.logger.Infow("expiry sweep complete", "expired", result.Expired, "failed", result.Failed)
	}
	return result, nil
}

func (uc *ExpireSweepUseCase) expireOne(ctx context.Context, sub *subscription.Subscription) error {
	keys, err := uc.keyRepo.ListBySubscription(ctx, sub.ID())
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	for _, k := range keys {
		if k.RemoteID == "" {
			continue
		}
		srv, err := uc.serverRepo.GetByID(ctx, k.ServerID)
		if err != nil || srv == nil {
			uc.logger.Warnw("server for expired key not found", "key_id", k.ID, "server_id", k.ServerID)
			continue
		}
		if err := uc.backends.ClientFor(srv).DeleteUser(ctx, k.RemoteID); err != nil {
			uc.logger.Warnw("remote key delete failed",
				"key_id", k.ID, "server_id", k.ServerID, "error", err)
		}
	}

	if err := uc.keyRepo.DeleteBySubscription(ctx, sub.ID()); err != nil {
		return fmt.Errorf("failed to delete key rows: %w", err)
	}
	if err := uc.subRepo.Delete(ctx, sub.ID()); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	uc.bundleCache.Delete(cache.KeyForToken(sub.Token()))

	if err := uc.notifier.Notify(ctx, notification.Message{
		UserID:         sub.UserID(),
		SubscriptionID: sub.ID(),
		Event:          notification.EventSubscriptionEnded,
		Text:           "Your subscription has ended. Renew to restore access.",
	}); err != nil {
		uc.logger.Warnw("end-of-subscription notification failed", "id", sub.ID(), "error", err)
	}

	uc.logger.Infow("subscription expired and removed",
		"id", sub.ID(), "user_id", sub.UserID(), "keys", len(keys))
	return nil
}
