package migrations

import (
	"vonix/internal/infrastructure/persistence/models"

	"gorm.io/gorm"
)

// MigratePaymentTables creates or updates all tables the payment engine
// owns.
func MigratePaymentTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.RankModel{},
		&models.DonationModel{},
		&models.SystemSettingModel{},
	)
}
