package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"picking-app/apperrors"
	"picking-app/models"
	"picking-app/repositories"
	"picking-app/types"
	"picking-app/utils"

	"github.com/go-playground/validator"
	"gorm.io/gorm"
)

// maxRetries bounds transparent retries of transient conflicts (driver
// lock/serialization errors and order-number collisions) before the error
// surfaces to the caller.
const maxRetries = 3

// OrderService is the order lifecycle engine. Every multi-record step runs
// inside one transaction: reservation and restoration either fully apply or
// fully roll back.
type OrderService struct {
	db       *gorm.DB
	mailer   *MailService
	validate *validator.Validate
}

func NewOrderService(db *gorm.DB, mailer *MailService) *OrderService {
	return &OrderService{
		db:       db,
		mailer:   mailer,
		validate: validator.New(),
	}
}

type CreateOrderItemInput struct {
	ItemID   types.SnowflakeID `json:"item_id" validate:"required"`
	Quantity int               `json:"quantity" validate:"required,min=1"`
}

type CreateOrderInput struct {
	Type  models.OrderType       `json:"type" validate:"required"`
	Items []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
	Notes string                 `json:"notes"`

	StoreName      string `json:"store_name"`
	StoreLocation  string `json:"store_location"`
	StoreReference string `json:"store_reference"`

	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress string `json:"shipping_address"`
}

func (s *OrderService) validateCreate(input *CreateOrderInput) error {
	if err := s.validate.Struct(input); err != nil {
		return apperrors.ValidationFailed(err.Error())
	}
	if !input.Type.Valid() {
		return apperrors.ValidationFailed("order type must be store or ecommerce")
	}
	switch input.Type {
	case models.OrderTypeStore:
		if strings.TrimSpace(input.StoreName) == "" {
			return apperrors.ValidationFailed("store orders require a store name")
		}
	case models.OrderTypeEcommerce:
		if strings.TrimSpace(input.CustomerName) == "" {
			return apperrors.ValidationFailed("ecommerce orders require a customer name")
		}
		if strings.TrimSpace(input.CustomerEmail) == "" {
			return apperrors.ValidationFailed("ecommerce orders require a customer email")
		}
		if strings.TrimSpace(input.ShippingAddress) == "" {
			return apperrors.ValidationFailed("ecommerce orders require a shipping address")
		}
	}
	seen := map[types.SnowflakeID]bool{}
	for _, line := range input.Items {
		if seen[line.ItemID] {
			return apperrors.ValidationFailed("duplicate line item: " + line.ItemID.String())
		}
		seen[line.ItemID] = true
	}
	return nil
}

// CreateOrder validates the input, reserves stock for every line item and
// persists the order as pending, all inside one transaction. Reservation is
// all-or-nothing: the first insufficient line rolls back every decrement
// already applied.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if err := s.validateCreate(&input); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.runWithRetry(func(tx *gorm.DB) error {
		invRepo := repositories.NewInventoryRepository(tx)
		orderRepo := repositories.NewOrderRepository(tx)

		order := models.Order{
			OrderNo:         orderRepo.GenerateOrderNo(input.Type),
			Type:            input.Type,
			Status:          models.StatusPending,
			Notes:           input.Notes,
			StoreName:       input.StoreName,
			StoreLocation:   input.StoreLocation,
			StoreReference:  input.StoreReference,
			CustomerName:    input.CustomerName,
			CustomerEmail:   input.CustomerEmail,
			CustomerPhone:   input.CustomerPhone,
			ShippingAddress: input.ShippingAddress,
		}

		for _, line := range input.Items {
			item, err := invRepo.Get(line.ItemID)
			if err != nil {
				return err
			}
			if item.Quantity < line.Quantity {
				return apperrors.InsufficientStock(item.SKU)
			}
			// Reserve eagerly. The guarded update is the authority; the
			// read above only names the SKU in the error.
			if err := invRepo.AdjustQuantity(line.ItemID, -line.Quantity); err != nil {
				if errors.Is(err, apperrors.ErrConflict) {
					return apperrors.InsufficientStock(item.SKU)
				}
				return err
			}
			order.Items = append(order.Items, models.OrderItem{
				ItemID:   item.ID,
				SKU:      item.SKU,
				Name:     item.Name,
				Location: item.Location,
				Barcode:  item.Barcode,
				Quantity: line.Quantity,
				ScanQty:  0,
			})
		}

		if err := orderRepo.Create(&order); err != nil {
			return err
		}
		utils.InsertHistory(tx, models.TransactionHistory{
			RefNo:  order.OrderNo,
			Status: string(models.StatusPending),
			Type:   "order",
			Detail: "order created, stock reserved",
		})
		created = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AssignPicker attaches a picker and a denormalized copy of its identity to
// the order. Valid in any non-terminal state, does not change status.
func (s *OrderService) AssignPicker(orderID, pickerID types.SnowflakeID) error {
	return s.runWithRetry(func(tx *gorm.DB) error {
		orderRepo := repositories.NewOrderRepository(tx)
		pickerRepo := repositories.NewPickerRepository(tx)

		order, err := orderRepo.Get(orderID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return apperrors.InvalidState("cannot assign a picker to a " + string(order.Status) + " order")
		}

		picker, err := pickerRepo.Get(pickerID)
		if err != nil {
			return err
		}

		if err := orderRepo.Update(orderID, map[string]interface{}{
			"picker_id":      picker.ID,
			"picker_name":    picker.Name,
			"picker_surname": picker.Surname,
		}); err != nil {
			return err
		}
		utils.InsertHistory(tx, models.TransactionHistory{
			RefNo:  order.OrderNo,
			Status: string(order.Status),
			Type:   "order",
			Detail: "picker assigned: " + picker.Name + " " + picker.Surname,
		})
		return nil
	})
}

type ScanResult struct {
	SKU             string `json:"sku"`
	Scanned         int    `json:"scanned"`
	Required        int    `json:"required"`
	Complete        bool   `json:"complete"`
	AlreadyComplete bool   `json:"already_complete"`
}

// RecordScan resolves code (item ID or barcode) against the order's own line
// items and bumps the matching scan counter by one. Scanning a line that
// already reached its requested quantity is a no-op reported as
// AlreadyComplete, not an error. Inventory quantities are never touched
// here; the stock was reserved at creation time.
func (s *OrderService) RecordScan(orderID types.SnowflakeID, code string) (*ScanResult, error) {
	var result *ScanResult
	err := s.runWithRetry(func(tx *gorm.DB) error {
		orderRepo := repositories.NewOrderRepository(tx)

		order, err := orderRepo.Get(orderID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return apperrors.InvalidState("cannot scan a " + string(order.Status) + " order")
		}

		line := order.FindItem(code)
		if line == nil {
			return apperrors.NotInOrder(code)
		}

		updated, err := orderRepo.IncrementScan(line.ID)
		if err != nil {
			return err
		}
		if !updated {
			result = &ScanResult{
				SKU:             line.SKU,
				Scanned:         line.ScanQty,
				Required:        line.Quantity,
				Complete:        order.FullyScanned(),
				AlreadyComplete: true,
			}
			return nil
		}
		line.ScanQty++

		// First scan means picking has started.
		if order.Status == models.StatusPending {
			if _, err := orderRepo.UpdateStatusGuarded(orderID, []models.OrderStatus{models.StatusPending}, models.StatusProcessing); err != nil {
				return err
			}
		} else if err := orderRepo.Update(orderID, map[string]interface{}{}); err != nil {
			return err
		}

		result = &ScanResult{
			SKU:      line.SKU,
			Scanned:  line.ScanQty,
			Required: line.Quantity,
			Complete: order.FullyScanned(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus performs an explicit forward hop along
// pending -> processing -> ready. Completion and cancellation have their own
// operations with stricter rules.
func (s *OrderService) UpdateStatus(orderID types.SnowflakeID, next models.OrderStatus) error {
	if next == models.StatusCompleted || next == models.StatusCancelled {
		return apperrors.ValidationFailed("use the complete or cancel operation for terminal transitions")
	}
	return s.runWithRetry(func(tx *gorm.DB) error {
		orderRepo := repositories.NewOrderRepository(tx)

		order, err := orderRepo.Get(orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransition(next) {
			return apperrors.InvalidState("cannot move a " + string(order.Status) + " order to " + string(next))
		}

		updated, err := orderRepo.UpdateStatusGuarded(orderID, []models.OrderStatus{order.Status}, next)
		if err != nil {
			return err
		}
		if !updated {
			return apperrors.Conflict("order status changed concurrently")
		}
		utils.InsertHistory(tx, models.TransactionHistory{
			RefNo:  order.OrderNo,
			Status: string(next),
			Type:   "order",
			Detail: "status moved from " + string(order.Status),
		})
		return nil
	})
}

// CompleteOrder transitions to completed. Requires an assigned picker and
// every line item fully scanned. No inventory change: the stock was already
// reserved at creation.
func (s *OrderService) CompleteOrder(orderID types.SnowflakeID) error {
	var completed *models.Order
	err := s.runWithRetry(func(tx *gorm.DB) error {
		orderRepo := repositories.NewOrderRepository(tx)

		order, err := orderRepo.Get(orderID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return apperrors.InvalidState("order is already " + string(order.Status))
		}
		if order.PickerID == nil {
			return apperrors.PickerRequired()
		}
		if !order.FullyScanned() {
			return apperrors.Incomplete("not every line item is fully scanned")
		}

		updated, err := orderRepo.UpdateStatusGuarded(orderID,
			[]models.OrderStatus{models.StatusPending, models.StatusProcessing, models.StatusReady},
			models.StatusCompleted)
		if err != nil {
			return err
		}
		if !updated {
			return apperrors.InvalidState("order left the picking flow concurrently")
		}
		utils.InsertHistory(tx, models.TransactionHistory{
			RefNo:  order.OrderNo,
			Status: string(models.StatusCompleted),
			Type:   "order",
			Detail: "picked complete by " + order.PickerName + " " + order.PickerSurname,
		})
		completed = order
		return nil
	})
	if err != nil {
		return err
	}

	if completed != nil && completed.Type == models.OrderTypeEcommerce && s.mailer != nil {
		go func(order models.Order) {
			if err := s.mailer.SendOrderCompleted(&order); err != nil {
				log.Printf("Failed to send completion mail for %s: %v", order.OrderNo, err)
			}
		}(*completed)
	}
	return nil
}

// CancelOrder flips the status to cancelled and restores every reserved
// quantity back onto its item, as one transaction. A partial restoration is
// never observable: any failure rolls back the status flip and all applied
// increments.
func (s *OrderService) CancelOrder(orderID types.SnowflakeID) error {
	return s.runWithRetry(func(tx *gorm.DB) error {
		orderRepo := repositories.NewOrderRepository(tx)
		invRepo := repositories.NewInventoryRepository(tx)

		order, err := orderRepo.Get(orderID)
		if err != nil {
			return err
		}

		updated, err := orderRepo.UpdateStatusGuarded(orderID,
			[]models.OrderStatus{models.StatusPending, models.StatusProcessing, models.StatusReady},
			models.StatusCancelled)
		if err != nil {
			return err
		}
		if !updated {
			return apperrors.InvalidState("only pending, processing or ready orders can be cancelled")
		}

		for _, line := range order.Items {
			if err := invRepo.AdjustQuantity(line.ItemID, line.Quantity); err != nil {
				// The stock record may have been deleted since the
				// reservation; there is nothing left to restore onto.
				if errors.Is(err, apperrors.ErrNotFound) {
					continue
				}
				return err
			}
		}
		utils.InsertHistory(tx, models.TransactionHistory{
			RefNo:  order.OrderNo,
			Status: string(models.StatusCancelled),
			Type:   "order",
			Detail: "order cancelled, reserved stock restored",
		})
		return nil
	})
}

// DeleteOrder removes a cancelled order for good. Any other status is
// refused: completion history stays, and active orders hold reserved stock.
func (s *OrderService) DeleteOrder(orderID types.SnowflakeID) error {
	return s.runWithRetry(func(tx *gorm.DB) error {
		orderRepo := repositories.NewOrderRepository(tx)

		order, err := orderRepo.Get(orderID)
		if err != nil {
			return err
		}
		if order.Status != models.StatusCancelled {
			return apperrors.InvalidState("only cancelled orders can be deleted")
		}
		if err := orderRepo.Delete(orderID); err != nil {
			return err
		}
		utils.InsertHistory(tx, models.TransactionHistory{
			RefNo:  order.OrderNo,
			Status: "deleted",
			Type:   "order",
			Detail: "cancelled order removed",
		})
		return nil
	})
}

// runWithRetry executes fn in a transaction, retrying transient conflicts
// (driver lock/serialization errors, order-number collisions) up to
// maxRetries before surfacing them.
func (s *OrderService) runWithRetry(fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.db.Transaction(fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 25 * time.Millisecond)
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, apperrors.ErrConflict) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"database is locked", "database table is locked", "deadlock", "serialization", "busy"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
