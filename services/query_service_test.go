package services

import (
	"testing"
	"time"

	"picking-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrderWithStatus(t *testing.T, db *gorm.DB, no string, status models.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()
	order := models.Order{
		OrderNo:   no,
		Type:      models.OrderTypeStore,
		Status:    status,
		StoreName: "Main Street",
		Items: []models.OrderItem{
			{ItemID: 1, SKU: "SKU-A", Quantity: 4, ScanQty: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	// Force created_at past gorm's auto-stamp for deterministic ordering.
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		UpdateColumn("created_at", createdAt).Error)
	return &order
}

func TestOrdersByStatusPriority(t *testing.T) {
	db := openTestDB(t)
	query := NewQueryService(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedOrderWithStatus(t, db, "SO-1", models.StatusCompleted, base.Add(4*time.Hour))
	seedOrderWithStatus(t, db, "SO-2", models.StatusPending, base.Add(1*time.Hour))
	seedOrderWithStatus(t, db, "SO-3", models.StatusCancelled, base.Add(5*time.Hour))
	seedOrderWithStatus(t, db, "SO-4", models.StatusPending, base.Add(2*time.Hour))
	seedOrderWithStatus(t, db, "SO-5", models.StatusReady, base.Add(3*time.Hour))
	seedOrderWithStatus(t, db, "SO-6", models.StatusProcessing, base.Add(6*time.Hour))

	orders, err := query.OrdersByStatusPriority()
	require.NoError(t, err)
	require.Len(t, orders, 6)

	var nos []string
	for _, o := range orders {
		nos = append(nos, o.OrderNo)
	}

	// pending first (newest-created-first within the tie), then
	// processing/ready as one band, then completed, then cancelled.
	assert.Equal(t, []string{"SO-4", "SO-2", "SO-6", "SO-5", "SO-1", "SO-3"}, nos)
}

func TestOrdersByStore(t *testing.T) {
	db := openTestDB(t)
	query := NewQueryService(db)

	base := time.Now().Add(-time.Hour)
	seedOrderWithStatus(t, db, "SO-A", models.StatusPending, base)
	other := seedOrderWithStatus(t, db, "SO-B", models.StatusPending, base)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", other.ID).
		UpdateColumn("store_name", "Harbor Road").Error)

	orders, err := query.OrdersByStore("Harbor Road")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "SO-B", orders[0].OrderNo)
}

func TestPickingList(t *testing.T) {
	db := openTestDB(t)
	query := NewQueryService(db)

	base := time.Now().Add(-time.Hour)
	seedOrderWithStatus(t, db, "SO-1", models.StatusPending, base)
	seedOrderWithStatus(t, db, "SO-2", models.StatusProcessing, base)
	seedOrderWithStatus(t, db, "SO-3", models.StatusReady, base)
	seedOrderWithStatus(t, db, "SO-4", models.StatusCompleted, base)
	seedOrderWithStatus(t, db, "SO-5", models.StatusCancelled, base)

	entries, err := query.PickingList()
	require.NoError(t, err)
	require.Len(t, entries, 2, "only pending and processing orders are pickable")

	for _, entry := range entries {
		assert.Contains(t, []string{"SO-1", "SO-2"}, entry.OrderNo)
		assert.Equal(t, 4, entry.QtyReq)
		assert.Equal(t, 1, entry.QtyScan)
	}
}

func TestSearchItemsProjection(t *testing.T) {
	db := openTestDB(t)
	query := NewQueryService(db)
	seedItem(t, db, "SKU-RED", 1)
	seedItem(t, db, "SKU-BLUE", 1)

	items, err := query.SearchItems("blue")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-BLUE", items[0].SKU)
}
