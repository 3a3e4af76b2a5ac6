package models

import (
	"time"

	"picking-app/controllers/idgen"
	"picking-app/types"

	"gorm.io/gorm"
)

// Picker is an immutable identity record. Orders keep a denormalized copy of
// name and surname, so deleting a picker does not lose order history.
type Picker struct {
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Name      string            `json:"name" gorm:"not null" validate:"required"`
	Surname   string            `json:"surname" gorm:"not null" validate:"required"`
	CreatedAt time.Time         `json:"created_at"`
}

func (p *Picker) BeforeCreate(tx *gorm.DB) error {
	if p.ID == 0 {
		p.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
