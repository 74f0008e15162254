package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
	"github.com/rohanmahajan/furnimart-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
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
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  address TEXT,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'Pending',
  order_status TEXT NOT NULL DEFAULT 'Placed',
  cancellation_requested INTEGER NOT NULL DEFAULT 0,
  cancellation_reason TEXT,
  cancellation_status TEXT,
  cancellation_requested_at DATETIME,
  cancellation_approved_by TEXT,
  cancellation_approved_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func newOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, items []models.OrderItem) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalAmount: decimal.NewFromInt(1250),
		Address: types.AddressSnapshot{
			Type:   enums.AddressTypeShipping,
			Street: "42 MG Road",
			City:   "Bengaluru",
			State:  "Karnataka",
			Zip:    "560001",
		},
		PaymentMethod: enums.PaymentMethodCOD,
		PaymentStatus: enums.PaymentStatusPending,
		OrderStatus:   enums.OrderStatusPlaced,
		CreatedAt:     time.Now().UTC(),
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].OrderID = order.ID
	}
	order.Items = items
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestCreateAndFindByIDPreloadsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	productID := uuid.New()
	order := newOrder(t, db, uuid.New(), []models.OrderItem{
		{ProductID: productID, Quantity: 2, Price: decimal.NewFromInt(625)},
	})

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, productID, found.Items[0].ProductID)
	assert.Equal(t, 2, found.Items[0].Quantity)
	assert.Equal(t, "42 MG Road", found.Address.Street)
}

func TestFindByIDNotFound(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateOrderStatusWritesStatusColumnOnly(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := newOrder(t, db, uuid.New(), nil)
	require.NoError(t, repo.UpdateOrderStatus(context.Background(), order.ID, enums.OrderStatusShipped))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, found.OrderStatus)
	assert.Equal(t, enums.PaymentStatusPending, found.PaymentStatus)
}

func TestFindByUserReturnsOwnOrdersOnly(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	newOrder(t, db, userID, nil)
	newOrder(t, db, userID, nil)
	newOrder(t, db, uuid.New(), nil)

	list, err := repo.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, order := range list {
		assert.Equal(t, userID, order.UserID)
	}
}

func TestListPendingCancellations(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	pendingOrder := newOrder(t, db, uuid.New(), nil)
	newOrder(t, db, uuid.New(), nil)

	require.NoError(t, repo.UpdateOrder(context.Background(), pendingOrder.ID, map[string]any{
		"cancellation_requested":    true,
		"cancellation_reason":       "changed my mind",
		"cancellation_status":       enums.CancellationStatusPending,
		"cancellation_requested_at": time.Now().UTC(),
	}))

	list, err := repo.ListPendingCancellations(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pendingOrder.ID, list[0].ID)
	assert.True(t, list[0].HasPendingCancellation())
}

func TestDeleteRemovesOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := newOrder(t, db, uuid.New(), nil)
	require.NoError(t, repo.Delete(context.Background(), order.ID))

	_, err := repo.FindByID(context.Background(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
