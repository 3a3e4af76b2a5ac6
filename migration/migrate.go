package migration

import (
	"picking-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Item{},
		&models.Order{},
		&models.OrderItem{},
		&models.Picker{},
		&models.TransactionHistory{},
	)
}
