package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/notification"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// threshold pairs a remaining-time window with its notification bit. Ordered
// from narrowest to widest so a subscription down to its last hour gets the
// most urgent message first.
type threshold struct {
	within time.Duration
	bit    int
	text   string
}

var thresholds = []threshold{
	{time.Hour, subscription.NotifiedOneHour, "Your subscription expires in 1 hour."},
	{24 * time.Hour, subscription.NotifiedOneDay, "Your subscription expires in 1 day."},
	{7 * 24 * time.Hour, subscription.NotifiedSevenDays, "Your subscription expires in 7 days."},
}

type NotifySweepResult struct {
	Notified int
}

// NotifySweepUseCase sends the 7-day, 1-day and 1-hour expiry warnings. Each
// warning fires at most once per subscription, tracked by a bitmask that an
// extension does not clear: the bits map to the current expiry window, which
// the extension has moved anyway.
type NotifySweepUseCase struct {
	subRepo  subscription.Repository
	notifier notification.Notifier
	logger   logger.Interface
}

func NewNotifySweepUseCase(
	subRepo subscription.Repository,
	notifier notification.Notifier,
	logger logger.Interface,
) *NotifySweepUseCase {
	return &NotifySweepUseCase{
		subRepo:  subRepo,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *NotifySweepUseCase) Execute(ctx context.Context) (*NotifySweepResult, error) {
	now := biztime.NowUTC()
	subs, err := uc.subRepo.ListExpiringWithin(ctx, now, 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}

	result := &NotifySweepResult{}
	for _, sub := range subs {
		remaining := sub.ExpiresAt().Sub(now)
		if remaining <= 0 {
			continue
		}

		for _, th := range thresholds {
			if remaining > th.within || sub.HasNotified(th.bit) {
				continue
			}

			if err := uc.notifier.Notify(ctx, notification.Message{
				UserID:         sub.UserID(),
				SubscriptionID: sub.ID(),
				Event:          notification.EventExpirySoon,
				Text:           th.text,
			}); err != nil {
				// The bit stays clear so the next sweep retries.
				uc.logger.Warnw("expiry warning failed", "id", sub.ID(), "error", err)
				break
			}

			sub.MarkNotified(th.bit)
			if err := uc.subRepo.Update(ctx, sub); err != nil {
				uc.logger.Errorw("failed to persist notification bit", "id", sub.ID(), "error", err)
			}
			result.Notified++
			break
		}
	}
	return result, nil
}
