package models

import (
	"time"

	"picking-app/controllers/idgen"
	"picking-app/types"

	"gorm.io/gorm"
)

// Item is a stock record. Quantity is guarded by a database CHECK so it can
// never be committed negative, no matter which code path touches it.
type Item struct {
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	SKU       string            `json:"sku" gorm:"column:sku;uniqueIndex;not null" validate:"required"`
	Name      string            `json:"name" gorm:"not null" validate:"required"`
	Quantity  int               `json:"quantity" gorm:"default:0;check:quantity >= 0"`
	Location  string            `json:"location"`
	Barcode   string            `json:"barcode" gorm:"index"`
	ImageRef  string            `json:"image_ref"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
