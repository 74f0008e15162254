package inventory

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  image TEXT,
  rating REAL,
  brand TEXT,
  colour TEXT,
  material TEXT,
  pack_content TEXT,
  weight TEXT,
  sku TEXT NOT NULL,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newTestLedger(t *testing.T) Ledger {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "inventory-test", Output: io.Discard})
	ledger, err := NewLedger(logg)
	require.NoError(t, err)
	return ledger
}

func newProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Oak Coffee Table",
		Category: "Tables",
		SKU:      "OAK-CT-01",
		Price:    decimal.NewFromInt(4999),
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()

	var stock int
	require.NoError(t, db.Raw(`SELECT stock FROM products WHERE id = ?`, id).Scan(&stock).Error)
	return stock
}

func TestReserveAcceptsCoveredBatch(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)
	product := newProduct(t, db, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Reserve(context.Background(), tx, []Line{{ProductID: product.ID, Quantity: 5}})
	})
	require.NoError(t, err)
	assert.Equal(t, 5, productStock(t, db, product.ID), "reserve must not write")
}

func TestReserveReportsFirstShortLine(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)
	plentiful := newProduct(t, db, 10)
	scarce := newProduct(t, db, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Reserve(context.Background(), tx, []Line{
			{ProductID: plentiful.ID, Quantity: 4},
			{ProductID: scarce.ID, Quantity: 3},
		})
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	details, ok := appErr.Details().(InsufficientStockDetails)
	require.True(t, ok)
	assert.Equal(t, scarce.ID.String(), details.ProductID)
	assert.Equal(t, 2, details.Available)
	assert.Equal(t, 3, details.Required)

	assert.Equal(t, 10, productStock(t, db, plentiful.ID))
	assert.Equal(t, 2, productStock(t, db, scarce.ID))
}

func TestReserveMissingProduct(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Reserve(context.Background(), tx, []Line{{ProductID: uuid.New(), Quantity: 1}})
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestCommitDeductsStock(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)
	product := newProduct(t, db, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Commit(context.Background(), tx, []Line{{ProductID: product.ID, Quantity: 5}})
	})
	require.NoError(t, err)
	assert.Equal(t, 0, productStock(t, db, product.ID))
}

func TestCommitInsufficientStock(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)
	product := newProduct(t, db, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Commit(context.Background(), tx, []Line{{ProductID: product.ID, Quantity: 3}})
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	details, ok := appErr.Details().(InsufficientStockDetails)
	require.True(t, ok)
	assert.Equal(t, product.ID.String(), details.ProductID)
	assert.Equal(t, 2, details.Available)
	assert.Equal(t, 3, details.Required)

	assert.Equal(t, 2, productStock(t, db, product.ID), "rejected commit must not change stock")
}

func TestCommitBatchIsAtomic(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)
	plentiful := newProduct(t, db, 10)
	scarce := newProduct(t, db, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Commit(context.Background(), tx, []Line{
			{ProductID: plentiful.ID, Quantity: 4},
			{ProductID: scarce.ID, Quantity: 2},
		})
	})
	require.Error(t, err)

	assert.Equal(t, 10, productStock(t, db, plentiful.ID), "earlier decrement must roll back")
	assert.Equal(t, 1, productStock(t, db, scarce.ID))
}

func TestCommitMissingProduct(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Commit(context.Background(), tx, []Line{{ProductID: uuid.New(), Quantity: 1}})
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
}

func TestCommitSkipsNonPositiveQuantities(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)
	product := newProduct(t, db, 3)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Commit(context.Background(), tx, []Line{{ProductID: product.ID, Quantity: 0}})
	})
	require.NoError(t, err)
	assert.Equal(t, 3, productStock(t, db, product.ID))
}

func TestReleaseRestoresStock(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)
	product := newProduct(t, db, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ledger.Commit(context.Background(), tx, []Line{{ProductID: product.ID, Quantity: 5}}); err != nil {
			return err
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 0, productStock(t, db, product.ID))

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Release(context.Background(), tx, []Line{{ProductID: product.ID, Quantity: 5}})
	})
	require.NoError(t, err)
	assert.Equal(t, 5, productStock(t, db, product.ID), "commit then release must round-trip")
}

func TestReleaseSkipsMissingProduct(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := newTestLedger(t)
	product := newProduct(t, db, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Release(context.Background(), tx, []Line{
			{ProductID: uuid.New(), Quantity: 3},
			{ProductID: product.ID, Quantity: 1},
		})
	})
	require.NoError(t, err, "missing product is skipped, not fatal")
	assert.Equal(t, 3, productStock(t, db, product.ID))
}

func TestLedgerRequiresTransaction(t *testing.T) {
	ledger := newTestLedger(t)

	err := ledger.Commit(context.Background(), nil, []Line{{ProductID: uuid.New(), Quantity: 1}})
	require.Error(t, err)

	err = ledger.Release(context.Background(), nil, []Line{{ProductID: uuid.New(), Quantity: 1}})
	require.Error(t, err)
}
