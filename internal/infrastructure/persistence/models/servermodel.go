package models

import "time"

// ServerModel is the persistence model for VPN servers.
type ServerModel struct {
	ID                 uint   `gorm:"primarykey"`
	Name               string `gorm:"not null;size:100"`
	Country            string `gorm:"size:100"`
	Protocol           string `gorm:"not null;size:16;index:idx_server_protocol"`
	APIURL             string `gorm:"not null;size:500"`
	APICredential      string `gorm:"size:500"`
	Domain             string `gorm:"size:255"`
	Active             bool   `gorm:"not null;default:true;index:idx_server_active"`
	AccessLevel        int    `gorm:"not null;default:0"`
	InsecureSkipVerify bool   `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (ServerModel) TableName() string {
	return "servers"
}
