package repositories

import (
	"errors"
	"fmt"
	"time"

	"picking-app/apperrors"
	"picking-app/models"
	"picking-app/types"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db}
}

func (r *OrderRepository) Get(id types.SnowflakeID) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", id.String())
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "order_no = ?", orderNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderNo)
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListByType(t models.OrderType) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("type = ?", t).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListByStore(storeName string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("store_name = ?", storeName).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("order number collision: " + order.OrderNo)
		}
		return err
	}
	return nil
}

func (r *OrderRepository) Update(id types.SnowflakeID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("order", id.String())
	}
	return nil
}

// UpdateStatusGuarded flips the status only when the current status is in
// from. Reports whether a row was actually updated, so callers can tell a
// lost race from a hit.
func (r *OrderRepository) UpdateStatusGuarded(id types.SnowflakeID, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IncrementScan bumps a line item's scan counter by one, capped at the
// requested quantity by the WHERE guard. A zero row count means the line is
// already fully scanned (or gone), never a lost increment.
func (r *OrderRepository) IncrementScan(orderItemID types.SnowflakeID) (bool, error) {
	res := r.db.Model(&models.OrderItem{}).
		Where("id = ? AND scan_qty < quantity", orderItemID).
		Update("scan_qty", gorm.Expr("scan_qty + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the order and its line items. Lifecycle rules (cancelled
// only) are the engine's job, not the store's.
func (r *OrderRepository) Delete(id types.SnowflakeID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("order", id.String())
		}
		return nil
	})
}

// ListHistory returns the audit trail for an order number, oldest first.
func (r *OrderRepository) ListHistory(refNo string) ([]models.TransactionHistory, error) {
	var history []models.TransactionHistory
	if err := r.db.Where("ref_no = ?", refNo).Order("created_at asc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// GenerateOrderNo builds an order number from the type prefix, the current
// year and a time-derived suffix. Collisions are possible within the same
// microsecond; the unique index on order_no catches them and the engine
// regenerates and retries.
func (r *OrderRepository) GenerateOrderNo(t models.OrderType) string {
	now := time.Now()
	return fmt.Sprintf("%s%s-%s%06d", t.Prefix(), now.Format("2006"), now.Format("0102150405"), now.Nanosecond()/1e3)
}
