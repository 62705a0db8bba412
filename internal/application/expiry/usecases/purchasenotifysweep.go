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

// purchaseLookback bounds the catch-up window: older unconfirmed purchases
// are stale enough that a late confirmation would only confuse the user.
const purchaseLookback = 7 * 24 * time.Hour

type PurchaseNotifySweepResult struct {
	Notified int
}

// PurchaseNotifySweepUseCase delivers purchase confirmations that were not
// sent inline, for example when the notification channel was down during
// checkout. The flag is only set after a successful delivery.
type PurchaseNotifySweepUseCase struct {
	subRepo  subscription.Repository
	notifier notification.Notifier
	logger   logger.Interface
}

func NewPurchaseNotifySweepUseCase(
	subRepo subscription.Repository,
	notifier notification.Notifier,
	logger logger.Interface,
) *PurchaseNotifySweepUseCase {
	return &PurchaseNotifySweepUseCase{
		subRepo:  subRepo,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *PurchaseNotifySweepUseCase) Execute(ctx context.Context) (*PurchaseNotifySweepResult, error) {
	since := biztime.NowUTC().Add(-purchaseLookback)
	subs, err := uc.subRepo.ListPurchaseUnnotified(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list unconfirmed purchases: %w", err)
	}

	result := &PurchaseNotifySweepResult{}
	for _, sub := range subs {
		if err := uc.notifier.Notify(ctx, notification.Message{
			UserID:         sub.UserID(),
			SubscriptionID: sub.ID(),
			Event:          notification.EventPurchase,
			Text:           fmt.Sprintf("Payment received. Your subscription is active until %s.", sub.ExpiresAt().Format("2006-01-02 15:04 MST")),
		}); err != nil {
			uc.logger.Warnw("purchase confirmation failed", "id", sub.ID(), "error", err)
			continue
		}

		sub.MarkPurchaseNotified()
		if err := uc.subRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to persist purchase flag", "id", sub.ID(), "error", err)
			continue
		}
		result.Notified++
	}
	return result, nil
}
