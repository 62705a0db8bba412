package payment

import "context"

// Repository is the read-side persistence port for payments. Writes belong
// to the payments collaborator.
type Repository interface {
	ListByUserID(ctx context.Context, userID uint64) ([]*Payment, error)
	// CountSettledByUserID counts payments with status paid or completed.
	CountSettledByUserID(ctx context.Context, userID uint64) (int64, error)
}
