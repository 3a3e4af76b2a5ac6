package database

import (
	"errors"
	"log"

	"picking-app/models"

	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedPickers(db)
	SeedItems(db)
}

// SeedPickers inserts the initial picker roster, skipping names that already
// exist.
func SeedPickers(db *gorm.DB) {
	pickers := []models.Picker{
		{Name: "Ari", Surname: "Wahidin"},
		{Name: "Dewi", Surname: "Santoso"},
	}

	for _, p := range pickers {
		var existing models.Picker
		err := db.Where("name = ? AND surname = ?", p.Name, p.Surname).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&p).Error; err != nil {
					log.Printf("Failed to seed picker %s %s: %v", p.Name, p.Surname, err)
				}
			} else {
				log.Printf("Unexpected DB error seeding pickers: %v", err)
			}
		}
	}
}

// SeedItems inserts a couple of demo stock items on a fresh database.
func SeedItems(db *gorm.DB) {
	items := []models.Item{
		{SKU: "SKU-0001", Name: "Thermometer Digital", Quantity: 100, Location: "A-01-01", Barcode: "8991234500017"},
		{SKU: "SKU-0002", Name: "Blood Pressure Monitor", Quantity: 50, Location: "A-01-02", Barcode: "8991234500024"},
	}

	for _, it := range items {
		var existing models.Item
		err := db.Where("sku = ?", it.SKU).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&it).Error; err != nil {
					log.Printf("Failed to seed item %s: %v", it.SKU, err)
				}
			} else {
				log.Printf("Unexpected DB error seeding items: %v", err)
			}
		}
	}
}
