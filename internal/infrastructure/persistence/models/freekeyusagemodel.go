package models

import "time"

// FreeKeyUsageModel is the persistence model for the sticky free-key flag.
// The composite unique index makes repeated recording a natural no-op.
type FreeKeyUsageModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uq_free_key_usage"`
	Protocol  string `gorm:"not null;size:16;uniqueIndex:uq_free_key_usage"`
	Country   string `gorm:"not null;size:100;uniqueIndex:uq_free_key_usage"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (FreeKeyUsageModel) TableName() string {
	return "free_key_usage"
}
