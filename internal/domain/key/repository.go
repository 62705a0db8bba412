package key

import "context"

// Repository is the persistence port for keys.
type Repository interface {
	Create(ctx context.Context, k *Key) error
	GetByID(ctx context.Context, id uint) (*Key, error)
	Update(ctx context.Context, k *Key) error
	Delete(ctx context.Context, id uint) error

	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*Key, error)
	ListByServer(ctx context.Context, serverID uint) ([]*Key, error)
	ListByUser(ctx context.Context, userID uint64) ([]*Key, error)
	DeleteBySubscription(ctx context.Context, subscriptionID uint) error

	// ListForBundle returns the subscription's keys joined with active
	// servers, ordered by server country then name.
	ListForBundle(ctx context.Context, subscriptionID uint, userID uint64) ([]*BundleEntry, error)

	// UpdateClientConfig writes back a freshly fetched client config.
	UpdateClientConfig(ctx context.Context, keyID uint, clientConfig string) error
	// BackfillRemoteID fills the backend key id on legacy rows matched by
	// the reconciler.
	BackfillRemoteID(ctx context.Context, keyID uint, remoteID string) error

	// BatchUpdateTraffic writes fetched counters for many keys in one
	// transaction.
	BatchUpdateTraffic(ctx context.Context, usage map[uint]int64) error
	// ZeroTrafficBySubscription zeroes counters for every key of the
	// subscription in one statement.
	ZeroTrafficBySubscription(ctx context.Context, subscriptionID uint) error
	// DistinctPositiveLimits returns the distinct positive per-key limits
	// of a subscription, for the legacy effective-limit fallback.
	DistinctPositiveLimits(ctx context.Context, subscriptionID uint) ([]int64, error)
}
