package models

import "time"

// SubscriptionModel is the persistence model for subscriptions.
// This is the anti-corruption layer between domain and database.
type SubscriptionModel struct {
	ID                       uint      `gorm:"primarykey"`
	UserID                   uint64    `gorm:"not null;index:idx_subscription_user"`
	Token                    string    `gorm:"uniqueIndex;not null;size:64"`
	TariffID                 uint      `gorm:"not null;index:idx_subscription_tariff"`
	IsActive                 bool      `gorm:"not null;default:true;index:idx_subscription_active"`
	ExpiresAt                time.Time `gorm:"not null;index:idx_subscription_expires"`
	TrafficLimitMB           *int64
	TrafficUsageBytes        int64 `gorm:"not null;default:0"`
	TrafficOverLimitAt       *time.Time
	TrafficOverLimitNotified bool `gorm:"not null;default:false"`
	PurchaseNotificationSent bool `gorm:"not null;default:false"`
	NotifiedMask             int  `gorm:"not null;default:0"`
	CreatedAt                time.Time
	LastUpdatedAt            time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
