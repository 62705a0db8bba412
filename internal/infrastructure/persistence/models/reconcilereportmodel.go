package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReconcileReportModel is the persistence model for reconciliation reports.
// Details holds the divergence lists as JSON.
type ReconcileReportModel struct {
	ID                  uint `gorm:"primarykey"`
	ServerID            uint `gorm:"not null;index:idx_reconcile_server"`
	DryRun              bool `gorm:"not null;default:true"`
	RemoteTotal         int  `gorm:"not null;default:0"`
	Matched             int  `gorm:"not null;default:0"`
	BackfilledRemoteIDs int  `gorm:"not null;default:0"`
	OrphansDeleted      int  `gorm:"not null;default:0"`
	Details             datatypes.JSON
	CreatedAt           time.Time
}

// TableName specifies the table name for GORM
func (ReconcileReportModel) TableName() string {
	return "reconcile_reports"
}
