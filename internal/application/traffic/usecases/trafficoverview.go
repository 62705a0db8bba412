package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type TrafficOverviewEntry struct {
	SubscriptionID uint       `json:"subscription_id"`
	UserID         uint64     `json:"user_id"`
	UsedBytes      int64      `json:"used_bytes"`
	LimitBytes     int64      `json:"limit_bytes"`
	OverLimitSince *time.Time `json:"over_limit_since,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
}

// TrafficOverviewUseCase lists every active subscription with its rolled-up
// usage and resolved limit, for the admin traffic view.
type TrafficOverviewUseCase struct {
	subRepo       subscription.Repository
	limitResolver LimitResolver
	logger        logger.Interface
}

func NewTrafficOverviewUseCase(
	subRepo subscription.Repository,
	limitResolver LimitResolver,
	logger logger.Interface,
) *TrafficOverviewUseCase {
	return &TrafficOverviewUseCase{
		subRepo:       subRepo,
		limitResolver: limitResolver,
		logger:        logger,
	}
}

func (uc *TrafficOverviewUseCase) Execute(ctx context.Context) ([]TrafficOverviewEntry, error) {
	subs, err := uc.subRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	entries := make([]TrafficOverviewEntry, 0, len(subs))
	for _, sub := range subs {
		limit, err := uc.limitResolver.EffectiveLimitBytes(ctx, sub)
		if err != nil {
			uc.logger.Warnw("failed to resolve limit for overview",
				"subscription_id", sub.ID(), "error", err)
			continue
		}
		entries = append(entries, TrafficOverviewEntry{
			SubscriptionID: sub.ID(),
			UserID:         sub.UserID(),
			UsedBytes:      sub.TrafficUsageBytes(),
			LimitBytes:     limit,
			OverLimitSince: sub.TrafficOverLimitAt(),
			ExpiresAt:      sub.ExpiresAt(),
		})
	}
	return entries, nil
}
