package freekey

import "context"

// Repository is the persistence port for free-key usage. There is no delete
// operation: once set, the flag stays.
type Repository interface {
	// Record stores the flag; recording an already-present tuple is a no-op.
	Record(ctx context.Context, userID uint64, protocol, country string) error
	Exists(ctx context.Context, userID uint64, protocol, country string) (bool, error)
	ListByUserID(ctx context.Context, userID uint64) ([]*Usage, error)
}
