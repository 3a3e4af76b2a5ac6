package services

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"picking-app/apperrors"
	"picking-app/migration"
	"picking-app/models"
	"picking-app/repositories"
	"picking-app/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB uses a file-backed sqlite database so concurrent transactions
// behave like a real deployment (busy handler instead of separate in-memory
// databases per connection).
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "picking.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*OrderService, *gorm.DB) {
	db := openTestDB(t)
	return NewOrderService(db, NewMailService()), db
}

func seedItem(t *testing.T, db *gorm.DB, sku string, qty int) *models.Item {
	t.Helper()
	item := models.Item{SKU: sku, Name: "Item " + sku, Quantity: qty, Location: "A-01", Barcode: "bc-" + sku}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func seedPicker(t *testing.T, db *gorm.DB) *models.Picker {
	t.Helper()
	picker := models.Picker{Name: "Ari", Surname: "Wahidin"}
	require.NoError(t, db.Create(&picker).Error)
	return &picker
}

func itemQuantity(t *testing.T, db *gorm.DB, id types.SnowflakeID) int {
	t.Helper()
	item, err := repositories.NewInventoryRepository(db).Get(id)
	require.NoError(t, err)
	return item.Quantity
}

func storeInput(items ...CreateOrderItemInput) CreateOrderInput {
	return CreateOrderInput{
		Type:      models.OrderTypeStore,
		StoreName: "Main Street",
		Items:     items,
	}
}

func TestCreateOrderReservesStock(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)

	order, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 4}))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNo)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "SKU-X", order.Items[0].SKU)
	assert.Equal(t, 0, order.Items[0].ScanQty)
	assert.Equal(t, 6, itemQuantity(t, db, item.ID), "reservation decrements at creation")
}

func TestCreateOrderValidation(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)

	// Empty line items.
	_, err := svc.CreateOrder(CreateOrderInput{Type: models.OrderTypeStore, StoreName: "Main Street"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// Store order without store name.
	_, err = svc.CreateOrder(CreateOrderInput{
		Type:  models.OrderTypeStore,
		Items: []CreateOrderItemInput{{ItemID: item.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// Ecommerce order missing customer metadata.
	_, err = svc.CreateOrder(CreateOrderInput{
		Type:         models.OrderTypeEcommerce,
		CustomerName: "Jane Doe",
		Items:        []CreateOrderItemInput{{ItemID: item.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// Nothing was reserved by any failed attempt.
	assert.Equal(t, 10, itemQuantity(t, db, item.ID))
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 3)

	_, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 4}))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, 3, itemQuantity(t, db, item.ID), "failed creation leaves stock unchanged")
}

func TestCreateOrderNoPartialReservation(t *testing.T) {
	svc, db := newTestService(t)
	itemA := seedItem(t, db, "SKU-A", 10)
	itemB := seedItem(t, db, "SKU-B", 1)

	_, err := svc.CreateOrder(storeInput(
		CreateOrderItemInput{ItemID: itemA.ID, Quantity: 5},
		CreateOrderItemInput{ItemID: itemB.ID, Quantity: 2},
	))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	assert.Equal(t, 10, itemQuantity(t, db, itemA.ID), "the already-applied decrement must be rolled back")
	assert.Equal(t, 1, itemQuantity(t, db, itemB.ID))
}

func TestAssignPicker(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)
	picker := seedPicker(t, db)

	order, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, svc.AssignPicker(order.ID, picker.ID))

	got, err := repositories.NewOrderRepository(db).Get(order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PickerID)
	assert.Equal(t, picker.ID, *got.PickerID)
	assert.Equal(t, "Ari", got.PickerName)
	assert.Equal(t, "Wahidin", got.PickerSurname)
	assert.Equal(t, models.StatusPending, got.Status, "assignment does not change status")

	assert.ErrorIs(t, svc.AssignPicker(order.ID, 424242), apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.AssignPicker(979797, picker.ID), apperrors.ErrNotFound)
}

func TestRecordScan(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)

	order, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 2}))
	require.NoError(t, err)

	// Scan by barcode.
	result, err := svc.RecordScan(order.ID, "bc-SKU-X")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 2, result.Required)
	assert.False(t, result.Complete)
	assert.False(t, result.AlreadyComplete)

	// First scan starts picking.
	got, _ := repositories.NewOrderRepository(db).Get(order.ID)
	assert.Equal(t, models.StatusProcessing, got.Status)

	// Scan by item id.
	result, err = svc.RecordScan(order.ID, item.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.True(t, result.Complete)

	// Scanning never touches inventory, only progress.
	assert.Equal(t, 8, itemQuantity(t, db, item.ID))
}

func TestRecordScanNotInOrder(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)
	other := seedItem(t, db, "SKU-Y", 10)

	order, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 1}))
	require.NoError(t, err)

	// The other item exists in inventory but not in this order.
	_, err = svc.RecordScan(order.ID, other.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrNotInOrder)
}

func TestRecordScanAlreadyComplete(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)

	order, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.RecordScan(order.ID, item.ID.String())
	require.NoError(t, err)

	// A second scan of a full line is a no-op, reported, not an error.
	result, err := svc.RecordScan(order.ID, item.ID.String())
	require.NoError(t, err)
	assert.True(t, result.AlreadyComplete)
	assert.Equal(t, 1, result.Scanned)

	got, _ := repositories.NewOrderRepository(db).Get(order.ID)
	assert.Equal(t, 1, got.Items[0].ScanQty, "counter unchanged by the refused scan")
}

func TestConcurrentScansNeverExceedRequested(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)

	order, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 3}))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.RecordScan(order.ID, item.ID.String())
			if err == nil && !result.AlreadyComplete {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := repositories.NewOrderRepository(db).Get(order.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, got.Items[0].ScanQty, 3, "cap holds under concurrency")
	assert.Equal(t, applied, got.Items[0].ScanQty, "every accepted scan lands, none lost")
}

func TestCompleteOrder(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)
	picker := seedPicker(t, db)

	order, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 2}))
	require.NoError(t, err)

	// No picker yet.
	assert.ErrorIs(t, svc.CompleteOrder(order.ID), apperrors.ErrPickerRequired)

	require.NoError(t, svc.AssignPicker(order.ID, picker.ID))

	// One scan short.
	_, err = svc.RecordScan(order.ID, item.ID.String())
	require.NoError(t, err)
	assert.ErrorIs(t, svc.CompleteOrder(order.ID), apperrors.ErrIncomplete)

	_, err = svc.RecordScan(order.ID, item.ID.String())
	require.NoError(t, err)
	require.NoError(t, svc.CompleteOrder(order.ID))

	got, _ := repositories.NewOrderRepository(db).Get(order.ID)
	assert.Equal(t, models.StatusCompleted, got.Status)
	// Completion does not move stock, the reservation already did.
	assert.Equal(t, 8, itemQuantity(t, db, item.ID))

	// Terminal: no further transitions.
	assert.ErrorIs(t, svc.CompleteOrder(order.ID), apperrors.ErrInvalidState)
	assert.ErrorIs(t, svc.CancelOrder(order.ID), apperrors.ErrInvalidState)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, db := newTestService(t)
	itemA := seedItem(t, db, "SKU-A", 10)
	itemB := seedItem(t, db, "SKU-B", 5)

	order, err := svc.CreateOrder(storeInput(
		CreateOrderItemInput{ItemID: itemA.ID, Quantity: 3},
		CreateOrderItemInput{ItemID: itemB.ID, Quantity: 2},
	))
	require.NoError(t, err)
	assert.Equal(t, 7, itemQuantity(t, db, itemA.ID))
	assert.Equal(t, 3, itemQuantity(t, db, itemB.ID))

	require.NoError(t, svc.CancelOrder(order.ID))

	assert.Equal(t, 10, itemQuantity(t, db, itemA.ID), "restoration mirrors the reservation")
	assert.Equal(t, 5, itemQuantity(t, db, itemB.ID))

	got, _ := repositories.NewOrderRepository(db).Get(order.ID)
	assert.Equal(t, models.StatusCancelled, got.Status)

	// A second cancel is refused.
	assert.ErrorIs(t, svc.CancelOrder(order.ID), apperrors.ErrInvalidState)
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 10)

	order, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(order.ID, models.StatusProcessing))
	require.NoError(t, svc.UpdateStatus(order.ID, models.StatusReady))

	// Backwards is refused.
	assert.ErrorIs(t, svc.UpdateStatus(order.ID, models.StatusProcessing), apperrors.ErrInvalidState)

	// Terminal transitions go through their own operations.
	assert.ErrorIs(t, svc.UpdateStatus(order.ID, models.StatusCompleted), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, svc.UpdateStatus(order.ID, models.StatusCancelled), apperrors.ErrValidationFailed)
}

func TestOrderLifecycleScenario(t *testing.T) {
	// Item X starts at 10. O1 requests 4 -> X=6, pending. Cancel -> X=10,
	// cancelled. Delete -> gone. Deleting a pending order is refused.
	svc, db := newTestService(t)
	itemX := seedItem(t, db, "SKU-X", 10)

	o1, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: itemX.ID, Quantity: 4}))
	require.NoError(t, err)
	assert.Equal(t, 6, itemQuantity(t, db, itemX.ID))
	assert.Equal(t, models.StatusPending, o1.Status)

	require.NoError(t, svc.CancelOrder(o1.ID))
	assert.Equal(t, 10, itemQuantity(t, db, itemX.ID))

	require.NoError(t, svc.DeleteOrder(o1.ID))
	_, err = repositories.NewOrderRepository(db).Get(o1.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	o2, err := svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: itemX.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteOrder(o2.ID), apperrors.ErrInvalidState)
}

func TestConcurrentCreateNeverOversells(t *testing.T) {
	svc, db := newTestService(t)
	item := seedItem(t, db, "SKU-X", 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(storeInput(CreateOrderItemInput{ItemID: item.ID, Quantity: 3}))
		}(i)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperrors.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one order wins the stock")
	assert.Equal(t, 1, insufficient, "the other is refused, never oversold")
	assert.Equal(t, 2, itemQuantity(t, db, item.ID))
}
