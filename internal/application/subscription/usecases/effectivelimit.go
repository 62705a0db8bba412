package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/domain/tariff"
)

const mib = int64(1024 * 1024)

// LimitResolver computes a subscription's effective traffic limit in bytes.
// Resolution order: the subscription's own override (0 meaning unlimited),
// then the tariff's limit, then the legacy fallback of a single shared
// positive per-key limit. Anything else resolves to unlimited.
type LimitResolver struct {
	tariffRepo tariff.Repository
	keyRepo    key.Repository
}

func NewLimitResolver(tariffRepo tariff.Repository, keyRepo key.Repository) *LimitResolver {
	return &LimitResolver{
		tariffRepo: tariffRepo,
		keyRepo:    keyRepo,
	}
}

// EffectiveLimitBytes returns the cap in bytes; 0 means unlimited.
func (r *LimitResolver) EffectiveLimitBytes(ctx context.Context, sub *subscription.Subscription) (int64, error) {
	if override := sub.TrafficLimitMB(); override != nil {
		return *override * mib, nil
	}

	t, err := r.tariffRepo.GetByID(ctx, sub.TariffID())
	if err != nil {
		return 0, fmt.Errorf("failed to resolve tariff limit: %w", err)
	}
	if t != nil && t.TrafficLimitMB > 0 {
		return t.TrafficLimitMB * mib, nil
	}

	limits, err := r.keyRepo.DistinctPositiveLimits(ctx, sub.ID())
	if err != nil {
		return 0, fmt.Errorf("failed to resolve key limits: %w", err)
	}
	if len(limits) == 1 {
		return limits[0] * mib, nil
	}

	return 0, nil
}
