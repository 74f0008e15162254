package checkout

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

	"github.com/rohanmahajan/furnimart-backend/internal/cart"
	"github.com/rohanmahajan/furnimart-backend/internal/orders"
	"github.com/rohanmahajan/furnimart-backend/internal/payments"
	"github.com/rohanmahajan/furnimart-backend/internal/products"
	"github.com/rohanmahajan/furnimart-backend/internal/users"
	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
	"github.com/rohanmahajan/furnimart-backend/pkg/razorpay"
	"github.com/rohanmahajan/furnimart-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubGateway struct {
	fail        bool
	lastAmount  int64
	lastReceipt string
}

func (g *stubGateway) CreateOrder(_ context.Context, amountMinorUnits int64, receipt string) (*razorpay.GatewayOrder, error) {
	g.lastAmount = amountMinorUnits
	g.lastReceipt = receipt
	if g.fail {
		return nil, fmt.Errorf("gateway unavailable")
	}
	return &razorpay.GatewayOrder{
		ID:       "order_stub_" + receipt[:8],
		Amount:   amountMinorUnits,
		Currency: "INR",
		Receipt:  receipt,
	}, nil
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
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
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
		`CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  street TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  zip TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE TABLE IF NOT EXISTS orders (
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
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  gateway_order_id TEXT UNIQUE,
  gateway_payment_id TEXT,
  paid_at DATETIME,
  created_at DATETIME
);`,
	}
	for _, ddl := range statements {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func newCheckoutService(t *testing.T, db *gorm.DB, gateway razorpay.OrderCreator) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
	svc, err := NewService(
		gormTxRunner{db: db},
		cart.NewRepository(db),
		orders.NewRepository(db),
		payments.NewRepository(db),
		users.NewRepository(db),
		products.NewRepository(db),
		gateway,
		"rzp_test_key",
		"INR",
		logg,
	)
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Oakline Bookshelf",
		Category: "Storage",
		SKU:      "FUR-" + uuid.NewString()[:8],
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedCartItem(t *testing.T, db *gorm.DB, userID, productID uuid.UUID, qty int) {
	t.Helper()

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}
	require.NoError(t, db.Create(item).Error)
}

func inlineAddress() *types.AddressSnapshot {
	return &types.AddressSnapshot{
		Type:   enums.AddressTypeShipping,
		Street: "42 MG Road",
		City:   "Bengaluru",
		State:  "Karnataka",
		Zip:    "560001",
	}
}

func errCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	return appErr.Code()
}

func TestExecuteCODPlacesOrderAndClearsCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	gateway := &stubGateway{}
	svc := newCheckoutService(t, db, gateway)

	userID := uuid.New()
	product := seedProduct(t, db, "1999.50", 5)
	seedCartItem(t, db, userID, product.ID, 2)

	resp, err := svc.Execute(context.Background(), Input{
		UserID:        userID,
		Address:       inlineAddress(),
		PaymentMethod: enums.PaymentMethodCOD,
	})
	require.NoError(t, err)
	require.Nil(t, resp.Payment)

	assert.Equal(t, enums.OrderStatusPlaced, resp.Order.OrderStatus)
	assert.Equal(t, enums.PaymentStatusReceived, resp.Order.PaymentStatus)
	assert.True(t, decimal.RequireFromString("3999.00").Equal(resp.Order.TotalAmount))

	var stored models.Order
	require.NoError(t, db.Preload("Items").First(&stored, "id = ?", resp.Order.ID).Error)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.True(t, product.Price.Equal(stored.Items[0].Price))
	assert.Equal(t, enums.PaymentStatusReceived, stored.PaymentStatus)
	assert.Equal(t, "42 MG Road", stored.Address.Street)

	var payment models.Payment
	require.NoError(t, db.First(&payment, "order_id = ?", stored.ID).Error)
	assert.Equal(t, enums.PaymentRecordStatusCompleted, payment.Status)
	assert.NotNil(t, payment.PaidAt)
	assert.Nil(t, payment.GatewayOrderID)

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)

	var stock int
	require.NoError(t, db.Raw("SELECT stock FROM products WHERE id = ?", product.ID).Scan(&stock).Error)
	assert.Equal(t, 5, stock)

	assert.Zero(t, gateway.lastAmount)
}

func TestExecuteGatewayCreatesPendingIntent(t *testing.T) {
	db := setupCheckoutTestDB(t)
	gateway := &stubGateway{}
	svc := newCheckoutService(t, db, gateway)

	userID := uuid.New()
	product := seedProduct(t, db, "1999.50", 5)
	seedCartItem(t, db, userID, product.ID, 2)

	resp, err := svc.Execute(context.Background(), Input{
		UserID:        userID,
		Address:       inlineAddress(),
		PaymentMethod: enums.PaymentMethodUPI,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Payment)

	assert.Equal(t, int64(399900), resp.Payment.Amount)
	assert.Equal(t, int64(399900), gateway.lastAmount)
	assert.Equal(t, resp.Order.ID.String(), gateway.lastReceipt)
	assert.Equal(t, "INR", resp.Payment.Currency)
	assert.Equal(t, "rzp_test_key", resp.Payment.KeyID)
	assert.NotEmpty(t, resp.Payment.GatewayOrderID)

	assert.Equal(t, enums.PaymentStatusPending, resp.Order.PaymentStatus)

	var payment models.Payment
	require.NoError(t, db.First(&payment, "order_id = ?", resp.Order.ID).Error)
	assert.Equal(t, enums.PaymentRecordStatusPending, payment.Status)
	require.NotNil(t, payment.GatewayOrderID)
	assert.Equal(t, resp.Payment.GatewayOrderID, *payment.GatewayOrderID)
	assert.Nil(t, payment.PaidAt)
}

func TestExecuteEmptyCartRejected(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, &stubGateway{})

	_, err := svc.Execute(context.Background(), Input{
		UserID:        uuid.New(),
		Address:       inlineAddress(),
		PaymentMethod: enums.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}

func TestExecuteInsufficientStockRollsBack(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, &stubGateway{})

	userID := uuid.New()
	product := seedProduct(t, db, "500.00", 1)
	seedCartItem(t, db, userID, product.ID, 3)

	_, err := svc.Execute(context.Background(), Input{
		UserID:        userID,
		Address:       inlineAddress(),
		PaymentMethod: enums.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errCode(t, err))

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error)
	assert.Equal(t, int64(1), cartCount)
}

func TestExecuteGatewayFailureDeletesOrder(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, &stubGateway{fail: true})

	userID := uuid.New()
	product := seedProduct(t, db, "500.00", 5)
	seedCartItem(t, db, userID, product.ID, 1)

	_, err := svc.Execute(context.Background(), Input{
		UserID:        userID,
		Address:       inlineAddress(),
		PaymentMethod: enums.PaymentMethodCard,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, errCode(t, err))

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var paymentCount int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, paymentCount)
}

func TestExecuteUsesSavedAddress(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, &stubGateway{})

	userID := uuid.New()
	address := &models.Address{
		ID:     uuid.New(),
		UserID: userID,
		Type:   enums.AddressTypeBilling,
		Street: "7 Residency Lane",
		City:   "Pune",
		State:  "Maharashtra",
		Zip:    "411001",
	}
	require.NoError(t, db.Create(address).Error)

	product := seedProduct(t, db, "120.00", 5)
	seedCartItem(t, db, userID, product.ID, 1)

	resp, err := svc.Execute(context.Background(), Input{
		UserID:        userID,
		AddressID:     &address.ID,
		PaymentMethod: enums.PaymentMethodCOD,
	})
	require.NoError(t, err)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", resp.Order.ID).Error)
	assert.Equal(t, "7 Residency Lane", stored.Address.Street)
	assert.Equal(t, enums.AddressTypeBilling, stored.Address.Type)
}

func TestExecuteRejectsForeignAddress(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, &stubGateway{})

	owner := uuid.New()
	address := &models.Address{
		ID:     uuid.New(),
		UserID: owner,
		Type:   enums.AddressTypeBilling,
		Street: "7 Residency Lane",
		City:   "Pune",
		State:  "Maharashtra",
		Zip:    "411001",
	}
	require.NoError(t, db.Create(address).Error)

	intruder := uuid.New()
	product := seedProduct(t, db, "120.00", 5)
	seedCartItem(t, db, intruder, product.ID, 1)

	_, err := svc.Execute(context.Background(), Input{
		UserID:        intruder,
		AddressID:     &address.ID,
		PaymentMethod: enums.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errCode(t, err))
}

func TestExecuteRequiresAddress(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db, &stubGateway{})

	_, err := svc.Execute(context.Background(), Input{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errCode(t, err))
}
