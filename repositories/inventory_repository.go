package repositories

import (
	"errors"
	"strings"
	"time"

	"picking-app/apperrors"
	"picking-app/models"
	"picking-app/types"

	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

func (r *InventoryRepository) Get(id types.SnowflakeID) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("item", id.String())
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) List() ([]models.Item, error) {
	var items []models.Item
	if err := r.db.Order("sku asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InventoryRepository) Create(item *models.Item) error {
	if err := r.db.Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("sku already exists: " + item.SKU)
		}
		return err
	}
	return nil
}

// Update applies user-editable fields. Quantity is not one of them: stock
// only moves through AdjustQuantity, so a concurrent order transition can
// never race a direct edit.
func (r *InventoryRepository) Update(id types.SnowflakeID, fields map[string]interface{}) error {
	for key := range fields {
		if key == "quantity" {
			return apperrors.ValidationFailed("quantity cannot be edited directly, use the adjust operation")
		}
	}
	fields["updated_at"] = time.Now()

	res := r.db.Model(&models.Item{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("sku already exists")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("item", id.String())
	}
	return nil
}

func (r *InventoryRepository) Delete(id types.SnowflakeID) error {
	res := r.db.Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("item", id.String())
	}
	return nil
}

// AdjustQuantity atomically moves stock by delta. The guard in the WHERE
// clause makes the check-and-write a single statement, so two concurrent
// adjustments can never oversell the same item.
func (r *InventoryRepository) AdjustQuantity(id types.SnowflakeID, delta int) error {
	res := r.db.Model(&models.Item{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the item is gone or the delta would go negative.
		var count int64
		if err := r.db.Model(&models.Item{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NotFound("item", id.String())
		}
		return apperrors.Conflict("quantity adjustment would go negative")
	}
	return nil
}

// Search filters items by case-insensitive substring match on SKU, name or
// barcode.
func (r *InventoryRepository) Search(term string) ([]models.Item, error) {
	like := "%" + strings.ToLower(term) + "%"
	var items []models.Item
	err := r.db.
		Where("LOWER(sku) LIKE ? OR LOWER(name) LIKE ? OR LOWER(barcode) LIKE ?", like, like, like).
		Order("sku asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
