package repositories

import (
	"fmt"
	"testing"
	"time"

	"picking-app/apperrors"
	"picking-app/migration"
	"picking-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo%d?mode=memory&cache=shared&_busy_timeout=5000", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))
	return db
}

func seedItem(t *testing.T, db *gorm.DB, sku string, qty int) *models.Item {
	t.Helper()
	item := models.Item{SKU: sku, Name: "Item " + sku, Quantity: qty, Location: "A-01", Barcode: "bar-" + sku}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func TestInventoryCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)

	item := models.Item{SKU: "SKU-001", Name: "Thermometer", Quantity: 10}
	require.NoError(t, repo.Create(&item))
	assert.NotZero(t, item.ID)

	got, err := repo.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", got.SKU)
	assert.Equal(t, 10, got.Quantity)
}

func TestInventoryGetNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)

	_, err := repo.Get(12345)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInventoryDuplicateSKU(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)

	require.NoError(t, repo.Create(&models.Item{SKU: "SKU-001", Name: "First"}))
	err := repo.Create(&models.Item{SKU: "SKU-001", Name: "Second"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestInventoryUpdateRefusesQuantity(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)
	item := seedItem(t, db, "SKU-001", 10)

	err := repo.Update(item.ID, map[string]interface{}{"quantity": 999})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	got, err := repo.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
}

func TestInventoryUpdateFields(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)
	item := seedItem(t, db, "SKU-001", 10)

	require.NoError(t, repo.Update(item.ID, map[string]interface{}{"name": "Renamed", "location": "B-02"}))

	got, err := repo.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "B-02", got.Location)
	assert.Equal(t, 10, got.Quantity)
}

func TestAdjustQuantity(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)
	item := seedItem(t, db, "SKU-001", 10)

	require.NoError(t, repo.AdjustQuantity(item.ID, -4))
	got, _ := repo.Get(item.ID)
	assert.Equal(t, 6, got.Quantity)

	require.NoError(t, repo.AdjustQuantity(item.ID, 4))
	got, _ = repo.Get(item.ID)
	assert.Equal(t, 10, got.Quantity)
}

func TestAdjustQuantityNeverGoesNegative(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)
	item := seedItem(t, db, "SKU-001", 3)

	err := repo.AdjustQuantity(item.ID, -4)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, _ := repo.Get(item.ID)
	assert.Equal(t, 3, got.Quantity, "a refused adjustment must not move stock")
}

func TestAdjustQuantityUnknownItem(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)

	err := repo.AdjustQuantity(999, -1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSearchItems(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)
	seedItem(t, db, "SKU-100", 1)
	seedItem(t, db, "SKU-200", 1)

	require.NoError(t, db.Create(&models.Item{SKU: "ZZZ-1", Name: "Digital Thermometer", Barcode: "4711"}).Error)

	// Case-insensitive on name.
	items, err := repo.Search("THERMO")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ZZZ-1", items[0].SKU)

	// Substring on SKU.
	items, err = repo.Search("sku-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-100", items[0].SKU)

	// Barcode match.
	items, err = repo.Search("471")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ZZZ-1", items[0].SKU)

	items, err = repo.Search("no-such-thing")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteItem(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)
	item := seedItem(t, db, "SKU-001", 1)

	require.NoError(t, repo.Delete(item.ID))
	_, err := repo.Get(item.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(item.ID), apperrors.ErrNotFound)
}
