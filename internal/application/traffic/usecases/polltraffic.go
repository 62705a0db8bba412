package usecases

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/cache"
	"github.com/merdocx/veilbot/internal/infrastructure/notification"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// maxConcurrentPolls bounds the fan-out so a large fleet cannot exhaust
// sockets on the control plane host.
const maxConcurrentPolls = 8

type PollTrafficResult struct {
	PolledServers int
	FailedServers int
	UpdatedKeys   int
	OverLimit     int
}

// PollTrafficUseCase collects per-key usage counters from every active
// server, rolls them up per subscription and fires the one-shot over-limit
// notification on the transition.
type PollTrafficUseCase struct {
	subRepo       subscription.Repository
	keyRepo       key.Repository
	serverRepo    server.Repository
	backends      BackendProvider
	limitResolver LimitResolver
	bundleCache   BundleCache
	notifier      notification.Notifier
	logger        logger.Interface
}

func NewPollTrafficUseCase(
	subRepo subscription.Repository,
	keyRepo key.Repository,
	serverRepo server.Repository,
	backends BackendProvider,
	limitResolver LimitResolver,
	bundleCache BundleCache,
	notifier notification.Notifier,
	logger logger.Interface,
) *PollTrafficUseCase {
	return &PollTrafficUseCase{
		subRepo:       subRepo,
		keyRepo:       keyRepo,
		serverRepo:    serverRepo,
		backends:      backends,
		limitResolver: limitResolver,
		bundleCache:   bundleCache,
		notifier:      notifier,
		logger:        logger,
	}
}

func (uc *PollTrafficUseCase) Execute(ctx context.Context) (*PollTrafficResult, error) {
	servers, err := uc.serverRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	result := &PollTrafficResult{}
	keyUsage := make(map[uint]int64)
	subUsage := make(map[uint]int64)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPolls)

	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			samples, err := uc.pollServer(gctx, srv)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One dead server must not starve the rest of the fleet.
				uc.logger.Warnw("traffic poll failed", "server_id", srv.ID, "server", srv.Name, "error", err)
				result.FailedServers++
			} else {
				result.PolledServers++
			}
			for _, s := range samples {
				if s.fresh {
					keyUsage[s.keyID] = s.bytes
				}
				if s.subscriptionID != 0 {
					subUsage[s.subscriptionID] += s.bytes
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := uc.keyRepo.BatchUpdateTraffic(ctx, keyUsage); err != nil {
		return nil, fmt.Errorf("failed to persist key traffic: %w", err)
	}
	result.UpdatedKeys = len(keyUsage)

	if err := uc.subRepo.BatchUpdateTraffic(ctx, subUsage); err != nil {
		return nil, fmt.Errorf("failed to persist subscription traffic: %w", err)
	}

	over, err := uc.enforceLimits(ctx, subUsage)
	if err != nil {
		return nil, err
	}
	result.OverLimit = over

	uc.logger.Infow("traffic poll complete",
		"servers", result.PolledServers,
		"failed", result.FailedServers,
		"keys", result.UpdatedKeys,
		"over_limit", result.OverLimit,
	)
	return result, nil
}

// keySample is one key's contribution to the rollup. A stale sample carries
// the stored counter so the per-subscription sum still covers every key; only
// fresh samples are written back to the keys table.
type keySample struct {
	keyID          uint
	subscriptionID uint
	bytes          int64
	fresh          bool
}

// pollServer fetches the bulk counters and resolves each local key against
// them, falling back to a per-key stats call when the bulk map has no entry
// and to the stored counter when the backend has no fresh value at all.
func (uc *PollTrafficUseCase) pollServer(ctx context.Context, srv *server.Server) ([]keySample, error) {
	keys, err := uc.keyRepo.ListByServer(ctx, srv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	backend := uc.backends.ClientFor(srv)
	history, err := backend.GetTrafficHistory(ctx)
	if err != nil {
		// The server is unreachable; its keys still contribute their stored
		// counters so a partial fleet never understates any subscription.
		return storedSamples(keys), fmt.Errorf("failed to fetch traffic history: %w", err)
	}

	samples := make([]keySample, 0, len(keys))
	for _, k := range keys {
		s := sampleFor(k)
		if bytes, ok := lookupUsage(history, k); ok {
			s.bytes, s.fresh = bytes, true
		} else if k.RemoteID != "" {
			if stats, err := backend.GetKeyTrafficStats(ctx, k.RemoteID); err == nil && stats != nil {
				s.bytes, s.fresh = stats.TotalBytes, true
			}
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func sampleFor(k *key.Key) keySample {
	s := keySample{keyID: k.ID, bytes: k.TrafficUsageBytes}
	if k.SubscriptionID != nil {
		s.subscriptionID = *k.SubscriptionID
	}
	return s
}

func storedSamples(keys []*key.Key) []keySample {
	samples := make([]keySample, 0, len(keys))
	for _, k := range keys {
		samples = append(samples, sampleFor(k))
	}
	return samples
}

// lookupUsage matches a local key against the bulk counter map. V2Ray keys
// are keyed by client UUID, Outline keys by the numeric key id.
func lookupUsage(history map[string]int64, k *key.Key) (int64, bool) {
	if k.UUID != "" {
		if bytes, ok := history[k.UUID]; ok {
			return bytes, true
		}
	}
	if k.RemoteID != "" {
		if bytes, ok := history[k.RemoteID]; ok {
			return bytes, true
		}
	}
	return 0, false
}

// enforceLimits applies the rolled-up usage to every active subscription and
// handles the over-limit transition exactly once.
func (uc *PollTrafficUseCase) enforceLimits(ctx context.Context, subUsage map[uint]int64) (int, error) {
	subs, err := uc.subRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	now := biztime.NowUTC()
	over := 0
	for _, sub := range subs {
		usage, polled := subUsage[sub.ID()]
		if !polled {
			usage = sub.TrafficUsageBytes()
		}

		limit, err := uc.limitResolver.EffectiveLimitBytes(ctx, sub)
		if err != nil {
			uc.logger.Warnw("failed to resolve traffic limit", "id", sub.ID(), "error", err)
			continue
		}
		if limit == 0 || usage <= limit {
			continue
		}

		over++
		sub.SetTrafficUsage(usage)
		if !sub.MarkOverLimit(now) {
			continue
		}

		if err := uc.notifier.Notify(ctx, notification.Message{
			UserID:         sub.UserID(),
			SubscriptionID: sub.ID(),
			Event:          notification.EventOverLimit,
			Text:           "Traffic limit reached. Access is paused until the next renewal.",
		}); err != nil {
			uc.logger.Warnw("over-limit notification failed", "id", sub.ID(), "error", err)
		} else {
			sub.MarkOverLimitNotified()
		}

		if err := uc.subRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to persist over-limit transition", "id", sub.ID(), "error", err)
			continue
		}
		uc.bundleCache.Delete(cache.KeyForToken(sub.Token()))
	}
	return over, nil
}
