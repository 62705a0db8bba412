package subscription

import (
	"context"
	"time"
)

// Filter narrows List queries.
type Filter struct {
	UserID     *uint64
	ActiveOnly bool
	Page       int
	PageSize   int
}

// Repository is the persistence port for subscriptions.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetByToken(ctx context.Context, token string) (*Subscription, error)
	// GetActiveByUserID returns the single active subscription for a user,
	// or nil when none exists.
	GetActiveByUserID(ctx context.Context, userID uint64) (*Subscription, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	Update(ctx context.Context, sub *Subscription) error
	// Delete physically removes the row. Only the admin deletion path and
	// the reconciler's orphan cleanup call this.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter Filter) ([]*Subscription, int64, error)

	// ListActive returns all active subscriptions; the traffic monitor
	// resolves effective limits on top of this.
	ListActive(ctx context.Context) ([]*Subscription, error)
	// ListExpiredBefore returns subscriptions, active or not, whose expiry
	// is at or before the cutoff.
	ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*Subscription, error)
	// ListExpiringWithin returns active subscriptions expiring inside the
	// window (expires_at > now).
	ListExpiringWithin(ctx context.Context, now time.Time, within time.Duration) ([]*Subscription, error)
	// ListPurchaseUnnotified returns active subscriptions whose purchase
	// notification has not been sent and which were created or renewed
	// after the given point.
	ListPurchaseUnnotified(ctx context.Context, since time.Time) ([]*Subscription, error)
	// BatchUpdateTraffic writes rolled-up usage for many subscriptions in
	// one transaction.
	BatchUpdateTraffic(ctx context.Context, usage map[uint]int64) error
}
