package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/cache"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type RepairSubscriptionCommand struct {
	SubscriptionID uint
}

type RepairSubscriptionResult struct {
	CreatedKeys   int
	FailedServers []uint
}

// RepairSubscriptionUseCase re-provisions keys on active servers that the
// subscription is missing from. It is the explicit admin remedy for
// missing-on-server divergence; the reconciler only reports it.
type RepairSubscriptionUseCase struct {
	subRepo        subscription.Repository
	keyRepo        key.Repository
	serverRepo     server.Repository
	backends       BackendProvider
	bundleCache    BundleCache
	keyEmailDomain string
	logger         logger.Interface
}

func NewRepairSubscriptionUseCase(
	subRepo subscription.Repository,
	keyRepo key.Repository,
	serverRepo server.Repository,
	backends BackendProvider,
	bundleCache BundleCache,
	keyEmailDomain string,
	logger logger.Interface,
) *RepairSubscriptionUseCase {
	return &RepairSubscriptionUseCase{
		subRepo:        subRepo,
		keyRepo:        keyRepo,
		serverRepo:     serverRepo,
		backends:       backends,
		bundleCache:    bundleCache,
		keyEmailDomain: keyEmailDomain,
		logger:         logger,
	}
}

func (uc *RepairSubscriptionUseCase) Execute(ctx context.Context, cmd RepairSubscriptionCommand) (*RepairSubscriptionResult, error) {
	sub, err := uc.subRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}
	if !sub.IsServable(biztime.NowUTC()) {
		return nil, apperrors.NewValidationError("cannot repair an inactive or expired subscription")
	}

	existing, err := uc.keyRepo.ListBySubscription(ctx, sub.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list existing keys: %w", err)
	}
	covered := make(map[uint]bool, len(existing))
	for _, k := range existing {
		covered[k.ServerID] = true
	}

	servers, err := uc.serverRepo.ListActiveByProtocol(ctx, server.ProtocolV2Ray)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	email := key.SynthesizeEmail(sub.UserID(), sub.ID(), uc.keyEmailDomain)
	result := &RepairSubscriptionResult{}

	for _, srv := range servers {
		if covered[srv.ID] {
			continue
		}

		backend := uc.backends.ClientFor(srv)
		record, err := backend.CreateUser(ctx, email, srv.Name)
		if err != nil {
			uc.logger.Warnw("repair provisioning failed on server",
				"subscription_id", sub.ID(), "server_id", srv.ID, "error", err)
			result.FailedServers = append(result.FailedServers, srv.ID)
			continue
		}

		subID := sub.ID()
		k := &key.Key{
			ServerID:       srv.ID,
			UserID:         sub.UserID(),
			SubscriptionID: &subID,
			Email:          email,
			Protocol:       srv.Protocol,
			RemoteID:       record.ID,
			UUID:           record.UUID,
			ClientConfig:   record.ClientConfig,
			CreatedAt:      biztime.NowUTC(),
		}
		if err := uc.keyRepo.Create(ctx, k); err != nil {
			uc.logger.Errorw("failed to persist repaired key, compensating",
				"server_id", srv.ID, "remote_id", record.ID, "error", err)
			if delErr := backend.DeleteUser(ctx, record.ID); delErr != nil {
				uc.logger.Warnw("compensating delete failed",
					"server_id", srv.ID, "remote_id", record.ID, "error", delErr)
			}
			result.FailedServers = append(result.FailedServers, srv.ID)
			continue
		}

		result.CreatedKeys++
	}

	if result.CreatedKeys > 0 {
		uc.bundleCache.Delete(cache.KeyForToken(sub.Token()))
	}

	uc.logger.Infow("subscription repaired",
		"id", sub.ID(), "created_keys", result.CreatedKeys, "failed_servers", len(result.FailedServers))
	return result, nil
}
