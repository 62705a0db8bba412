package models

import "time"

// PaymentModel is the persistence model for the payment ledger. The core
// only reads this table; writes belong to the payments collaborator.
type PaymentModel struct {
	ID             uint   `gorm:"primarykey"`
	UserID         uint64 `gorm:"not null;index:idx_payment_user"`
	SubscriptionID *uint  `gorm:"index:idx_payment_subscription"`
	Amount         int64  `gorm:"not null;default:0"`
	Status         string `gorm:"not null;size:20;index:idx_payment_status"`
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}
