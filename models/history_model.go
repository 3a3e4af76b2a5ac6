package models

import (
	"time"

	"picking-app/controllers/idgen"
	"picking-app/types"

	"gorm.io/gorm"
)

// TransactionHistory is an append-only audit row per order lifecycle
// transition, keyed by order number.
type TransactionHistory struct {
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	RefNo     string            `json:"ref_no" gorm:"index"`
	Status    string            `json:"status"`
	Type      string            `json:"type"`
	Detail    string            `json:"detail"`
	CreatedAt time.Time         `json:"created_at"`
}

func (h *TransactionHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == 0 {
		h.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
