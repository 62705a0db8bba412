package models

import "time"

// UserModel is the persistence model for bot users. The ID comes from the
// bot platform, so it is never auto-assigned.
type UserModel struct {
	ID        uint64 `gorm:"primarykey;autoIncrement:false"`
	Name      string `gorm:"size:255"`
	VIP       bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}
