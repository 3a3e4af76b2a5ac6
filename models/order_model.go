package models

import (
	"time"

	"picking-app/controllers/idgen"
	"picking-app/types"

	"gorm.io/gorm"
)

type OrderType string

const (
	OrderTypeStore     OrderType = "store"
	OrderTypeEcommerce OrderType = "ecommerce"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeStore || t == OrderTypeEcommerce
}

// Prefix is the order-number prefix for the type.
func (t OrderType) Prefix() string {
	if t == OrderTypeEcommerce {
		return "EC"
	}
	return "SO"
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// statusRank orders the forward lifecycle chain. Cancelled sits outside the
// chain and is reachable from any non-terminal status.
var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusReady:      2,
	StatusCompleted:  3,
}

func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether s -> next is a legal move: strictly forward
// along pending -> processing -> ready -> completed, or any non-terminal
// status -> cancelled. Terminal states never transition.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Order is mutated in place through status, scan and picker updates.
// Store and customer metadata are both carried flat, the order type decides
// which set is required.
type Order struct {
	ID      types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	OrderNo string            `json:"order_no" gorm:"uniqueIndex;not null"`
	Type    OrderType         `json:"type" gorm:"not null;index"`
	Status  OrderStatus       `json:"status" gorm:"not null;index"`
	Items   []OrderItem       `json:"items" gorm:"foreignKey:OrderID"`

	PickerID      *types.SnowflakeID `json:"picker_id" gorm:"default:null"`
	PickerName    string             `json:"picker_name"`
	PickerSurname string             `json:"picker_surname"`

	Notes string `json:"notes"`

	StoreName      string `json:"store_name" gorm:"index"`
	StoreLocation  string `json:"store_location"`
	StoreReference string `json:"store_reference"`

	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress string `json:"shipping_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == 0 {
		o.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}

// FindItem resolves a scanned code against the order's own line items,
// by item ID or barcode. Returns nil when the code is not in the order.
func (o *Order) FindItem(code string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ItemID.String() == code {
			return &o.Items[i]
		}
		if o.Items[i].Barcode != "" && o.Items[i].Barcode == code {
			return &o.Items[i]
		}
	}
	return nil
}

// FullyScanned reports whether every line item reached its requested
// quantity.
func (o *Order) FullyScanned() bool {
	for i := range o.Items {
		if o.Items[i].ScanQty < o.Items[i].Quantity {
			return false
		}
	}
	return len(o.Items) > 0
}

// OrderItem is a line item with a denormalized snapshot of the stock item at
// order-creation time. ScanQty only moves through the guarded increment in
// the order repository, so ScanQty <= Quantity always holds.
type OrderItem struct {
	ID      types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	OrderID types.SnowflakeID `json:"order_id" gorm:"index;not null"`
	ItemID  types.SnowflakeID `json:"item_id" gorm:"index;not null"`

	SKU      string `json:"sku" gorm:"column:sku"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Barcode  string `json:"barcode"`

	Quantity int `json:"quantity" gorm:"not null;check:quantity > 0"`
	ScanQty  int `json:"scan_qty" gorm:"default:0;check:scan_qty >= 0"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == 0 {
		oi.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
