package models

import "time"

// KeyModel is the persistence model for provisioned keys. Both protocol
// families live in this table, discriminated by Protocol; the family that
// does not apply leaves its columns empty.
type KeyModel struct {
	ID                uint   `gorm:"primarykey"`
	ServerID          uint   `gorm:"not null;index:idx_key_server"`
	UserID            uint64 `gorm:"not null;index:idx_key_user"`
	SubscriptionID    *uint  `gorm:"index:idx_key_subscription"`
	Email             string `gorm:"size:255;index:idx_key_email"`
	Protocol          string `gorm:"not null;size:16"`
	RemoteID          string `gorm:"size:64;index:idx_key_remote"`
	UUID              string `gorm:"size:36"`
	AccessURL         string `gorm:"type:text"`
	ClientConfig      string `gorm:"type:text"`
	TrafficLimitMB    int64  `gorm:"not null;default:0"`
	TrafficUsageBytes int64  `gorm:"not null;default:0"`
	CreatedAt         time.Time

	Server       *ServerModel       `gorm:"foreignKey:ServerID;constraint:OnDelete:CASCADE"`
	Subscription *SubscriptionModel `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for GORM
func (KeyModel) TableName() string {
	return "keys"
}
