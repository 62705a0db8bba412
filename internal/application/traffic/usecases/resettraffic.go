package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// ResetTrafficUseCase starts a fresh billing window for a subscription:
// remote counters are reset best-effort, local counters authoritatively.
// It backs the subscription module's TrafficResetter port.
type ResetTrafficUseCase struct {
	subRepo    subscription.Repository
	keyRepo    key.Repository
	serverRepo server.Repository
	backends   BackendProvider
	logger     logger.Interface
}

func NewResetTrafficUseCase(
	subRepo subscription.Repository,
	keyRepo key.Repository,
	serverRepo server.Repository,
	backends BackendProvider,
	logger logger.Interface,
) *ResetTrafficUseCase {
	return &ResetTrafficUseCase{
		subRepo:    subRepo,
		keyRepo:    keyRepo,
		serverRepo: serverRepo,
		backends:   backends,
		logger:     logger,
	}
}

// ResetSubscriptionTraffic resets counters for every key of the
// subscription. Remote failures are logged and skipped: the local zeroing
// below is what the limit check reads, and the remote side converges on the
// next poll.
func (uc *ResetTrafficUseCase) ResetSubscriptionTraffic(ctx context.Context, subscriptionID uint) error {
	keys, err := uc.keyRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	for _, k := range keys {
		if err := uc.resetRemote(ctx, k); err != nil {
			uc.logger.Warnw("remote traffic reset failed",
				"key_id", k.ID, "server_id", k.ServerID, "error", err)
		}
	}

	if err := uc.keyRepo.ZeroTrafficBySubscription(ctx, subscriptionID); err != nil {
		return fmt.Errorf("failed to zero key counters: %w", err)
	}

	sub, err := uc.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil
	}

	sub.SetTrafficUsage(0)
	sub.ClearOverLimit()
	if err := uc.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist traffic reset: %w", err)
	}

	uc.logger.Infow("subscription traffic reset", "id", subscriptionID, "keys", len(keys))
	return nil
}

func (uc *ResetTrafficUseCase) resetRemote(ctx context.Context, k *key.Key) error {
	srv, err := uc.serverRepo.GetByID(ctx, k.ServerID)
	if err != nil {
		return fmt.Errorf("failed to load server: %w", err)
	}
	if srv == nil {
		return fmt.Errorf("server %d not found", k.ServerID)
	}

	backend := uc.backends.ClientFor(srv)

	remoteID := k.RemoteID
	if remoteID == "" && k.UUID != "" {
		// Legacy rows carry only the client UUID; resolve the backend id
		// through the key listing.
		info, err := backend.GetKeyInfo(ctx, k.UUID)
		if err != nil {
			return fmt.Errorf("failed to resolve backend id: %w", err)
		}
		if info == nil {
			return fmt.Errorf("key %s not present on server", k.UUID)
		}
		remoteID = info.ID
	}
	if remoteID == "" {
		return fmt.Errorf("key has no backend id")
	}

	return backend.ResetKeyTraffic(ctx, remoteID)
}
