package utils

import (
	"picking-app/models"

	"gorm.io/gorm"
)

// InsertHistory appends an audit row. Best effort: a failed history write
// never fails the transition it describes.
func InsertHistory(db *gorm.DB, history models.TransactionHistory) {
	db.Create(&history)
}
