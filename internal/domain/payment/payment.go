package payment

import "time"

// Status is the ledger state of a payment. Transitions are owned by the
// payments collaborator; the core only reads them for the deletion guard.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsSettled reports whether the payment has been paid out. Settled payments
// block user deletion.
func (s Status) IsSettled() bool {
	return s == StatusPaid || s == StatusCompleted
}

// Payment is a ledger row linking a purchase to a subscription.
type Payment struct {
	ID             uint
	UserID         uint64
	SubscriptionID *uint
	Amount         int64
	Status         Status
	CreatedAt      time.Time
}
