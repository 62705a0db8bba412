package models

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every persistence model.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&UserModel{},
		&TariffModel{},
		&ServerModel{},
		&SubscriptionModel{},
		&KeyModel{},
		&PaymentModel{},
		&FreeKeyUsageModel{},
		&ReconcileReportModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
