package models

import "time"

// TariffModel is the persistence model for tariffs.
type TariffModel struct {
	ID             uint   `gorm:"primarykey"`
	Name           string `gorm:"not null;size:100"`
	DurationSec    int64  `gorm:"not null"`
	Price          int64  `gorm:"not null;default:0"`
	TrafficLimitMB int64  `gorm:"not null;default:0"`
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (TariffModel) TableName() string {
	return "tariffs"
}
