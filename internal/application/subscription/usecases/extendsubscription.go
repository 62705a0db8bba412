package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/cache"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type ExtendSubscriptionCommand struct {
	SubscriptionID uint
	// AddDurationSec adds to the stored expiry. Mutually exclusive with
	// NewExpiresAt.
	AddDurationSec int64
	NewExpiresAt   *time.Time
	// TariffID overrides the linked tariff when set.
	TariffID *uint
}

type ExtendSubscriptionResult struct {
	ID        uint
	ExpiresAt time.Time
}

type ExtendSubscriptionUseCase struct {
	subRepo         subscription.Repository
	trafficResetter TrafficResetter
	bundleCache     BundleCache
	logger          logger.Interface
}

func NewExtendSubscriptionUseCase(
	subRepo subscription.Repository,
	trafficResetter TrafficResetter,
	bundleCache BundleCache,
	logger logger.Interface,
) *ExtendSubscriptionUseCase {
	return &ExtendSubscriptionUseCase{
		subRepo:         subRepo,
		trafficResetter: trafficResetter,
		bundleCache:     bundleCache,
		logger:          logger,
	}
}

func (uc *ExtendSubscriptionUseCase) Execute(ctx context.Context, cmd ExtendSubscriptionCommand) (*ExtendSubscriptionResult, error) {
	sub, err := uc.subRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}

	switch {
	case cmd.NewExpiresAt != nil:
		if err := sub.ExtendTo(*cmd.NewExpiresAt); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	case cmd.AddDurationSec > 0:
		if err := sub.Extend(time.Duration(cmd.AddDurationSec) * time.Second); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	default:
		return nil, apperrors.NewValidationError("either a duration or an absolute expiry is required")
	}

	if cmd.TariffID != nil {
		sub.ChangeTariff(*cmd.TariffID)
	}

	if err := uc.subRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	// The new billing window starts at zero; remote failures are tolerated
	// and converge on the next poll.
	if err := uc.trafficResetter.ResetSubscriptionTraffic(ctx, sub.ID()); err != nil {
		uc.logger.Warnw("traffic reset after extension failed", "id", sub.ID(), "error", err)
	}

	uc.bundleCache.Delete(cache.KeyForToken(sub.Token()))

	uc.logger.Infow("subscription extended",
		"id", sub.ID(), "expires_at", sub.ExpiresAt())

	return &ExtendSubscriptionResult{
		ID:        sub.ID(),
		ExpiresAt: sub.ExpiresAt(),
	}, nil
}
