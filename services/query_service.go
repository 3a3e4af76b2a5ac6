package services

import (
	"time"

	"picking-app/models"
	"picking-app/repositories"
	"picking-app/types"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// QueryService derives read-only views for presentation. It never mutates
// and is safe to recompute on every read.
type QueryService struct {
	invRepo   *repositories.InventoryRepository
	orderRepo *repositories.OrderRepository
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{
		invRepo:   repositories.NewInventoryRepository(db),
		orderRepo: repositories.NewOrderRepository(db),
	}
}

func (s *QueryService) SearchItems(term string) ([]models.Item, error) {
	return s.invRepo.Search(term)
}

func (s *QueryService) OrdersByStore(storeName string) ([]models.Order, error) {
	return s.orderRepo.ListByStore(storeName)
}

// statusPriority: pending first, then in-progress, completed, cancelled.
func statusPriority(s models.OrderStatus) int {
	switch s {
	case models.StatusPending:
		return 0
	case models.StatusProcessing, models.StatusReady:
		return 1
	case models.StatusCompleted:
		return 2
	default:
		return 3
	}
}

// OrdersByStatusPriority sorts all orders by the fixed status priority,
// ties broken by newest-created-first.
func (s *QueryService) OrdersByStatusPriority() ([]models.Order, error) {
	orders, err := s.orderRepo.List()
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(orders, func(a, b models.Order) int {
		if d := statusPriority(a.Status) - statusPriority(b.Status); d != 0 {
			return d
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		if b.CreatedAt.After(a.CreatedAt) {
			return 1
		}
		return 0
	})
	return orders, nil
}

type PickingListEntry struct {
	ID        types.SnowflakeID  `json:"ID"`
	OrderNo   string             `json:"order_no"`
	Type      models.OrderType   `json:"type"`
	Status    models.OrderStatus `json:"status"`
	StoreName string             `json:"store_name"`
	Customer  string             `json:"customer_name"`
	QtyReq    int                `json:"qty_req"`
	QtyScan   int                `json:"qty_scan"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// PickingList lists orders still being picked (pending or processing) with
// requested vs scanned totals, for the handheld scanner screens.
func (s *QueryService) PickingList() ([]PickingListEntry, error) {
	orders, err := s.orderRepo.List()
	if err != nil {
		return nil, err
	}

	var entries []PickingListEntry
	for _, order := range orders {
		if order.Status != models.StatusPending && order.Status != models.StatusProcessing {
			continue
		}
		entry := PickingListEntry{
			ID:        order.ID,
			OrderNo:   order.OrderNo,
			Type:      order.Type,
			Status:    order.Status,
			StoreName: order.StoreName,
			Customer:  order.CustomerName,
			UpdatedAt: order.UpdatedAt,
		}
		for _, line := range order.Items {
			entry.QtyReq += line.Quantity
			entry.QtyScan += line.ScanQty
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
