package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/internal/inventory"
	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
	ledger, err := inventory.NewLedger(logg)
	require.NoError(t, err)

	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, ledger, logg)
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Walnut Bookshelf",
		Category: "Storage",
		SKU:      "WAL-BS-02",
		Price:    decimal.NewFromInt(8999),
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()

	var stock int
	require.NoError(t, db.Raw(`SELECT stock FROM products WHERE id = ?`, id).Scan(&stock).Error)
	return stock
}

func errCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected coded error, got %v", err)
	return appErr.Code()
}

func TestSetStatusDeliveredCommitsStock(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	admin := uuid.New()

	product := seedProduct(t, db, 5)
	order := newOrder(t, db, uuid.New(), []models.OrderItem{
		{ProductID: product.ID, Quantity: 5, Price: decimal.NewFromInt(8999)},
	})

	resp, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusDelivered, ActorUserID: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, resp.OrderStatus)
	assert.Equal(t, 0, stockOf(t, db, product.ID))
}

func TestSetStatusLeavingDeliveredReleasesStock(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	admin := uuid.New()

	product := seedProduct(t, db, 5)
	order := newOrder(t, db, uuid.New(), []models.OrderItem{
		{ProductID: product.ID, Quantity: 5, Price: decimal.NewFromInt(8999)},
	})

	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusDelivered, ActorUserID: admin,
	})
	require.NoError(t, err)
	require.Equal(t, 0, stockOf(t, db, product.ID))

	resp, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusShipped, ActorUserID: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, resp.OrderStatus)
	assert.Equal(t, 5, stockOf(t, db, product.ID), "round trip must restore stock exactly")
}

func TestSetStatusDeliveredInsufficientStock(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	product := seedProduct(t, db, 2)
	order := newOrder(t, db, uuid.New(), []models.OrderItem{
		{ProductID: product.ID, Quantity: 3, Price: decimal.NewFromInt(8999)},
	})

	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusDelivered, ActorUserID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errCode(t, err))

	details, ok := pkgerrors.As(err).Details().(inventory.InsufficientStockDetails)
	require.True(t, ok)
	assert.Equal(t, 2, details.Available)
	assert.Equal(t, 3, details.Required)

	assert.Equal(t, 2, stockOf(t, db, product.ID))

	repo := NewRepository(db)
	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPlaced, found.OrderStatus, "failed delivery must not move status")
}

func TestSetStatusDeliveredPartialBatchRollsBack(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	plentiful := seedProduct(t, db, 10)
	scarce := seedProduct(t, db, 1)
	order := newOrder(t, db, uuid.New(), []models.OrderItem{
		{ProductID: plentiful.ID, Quantity: 4, Price: decimal.NewFromInt(100)},
		{ProductID: scarce.ID, Quantity: 2, Price: decimal.NewFromInt(200)},
	})

	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusDelivered, ActorUserID: uuid.New(),
	})
	require.Error(t, err)

	assert.Equal(t, 10, stockOf(t, db, plentiful.ID), "first line's decrement must roll back")
	assert.Equal(t, 1, stockOf(t, db, scarce.ID))
}

func TestSetStatusCancelledIsTerminal(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	admin := uuid.New()

	order := newOrder(t, db, uuid.New(), nil)
	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusCancelled, ActorUserID: admin,
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusProcessing, ActorUserID: admin,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errCode(t, err))
}

func TestSetStatusDeliveredCannotBeCancelledDirectly(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	admin := uuid.New()

	product := seedProduct(t, db, 3)
	order := newOrder(t, db, uuid.New(), []models.OrderItem{
		{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(100)},
	})

	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusDelivered, ActorUserID: admin,
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusCancelled, ActorUserID: admin,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errCode(t, err))
}

func TestSetStatusSameStatusIsNoop(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	order := newOrder(t, db, uuid.New(), nil)
	resp, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusPlaced, ActorUserID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPlaced, resp.OrderStatus)
}

func TestSetStatusCancelledRefundsReceivedPayment(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	order := newOrder(t, db, uuid.New(), nil)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		UpdateColumn("payment_status", enums.PaymentStatusReceived).Error)

	resp, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusCancelled, ActorUserID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusRefunded, resp.PaymentStatus)
}

func TestRequestCancellationGuards(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	order := newOrder(t, db, owner, nil)

	// wrong user
	_, err := svc.RequestCancellation(context.Background(), RequestCancellationInput{
		OrderID: order.ID, UserID: uuid.New(), Reason: "too slow",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, errCode(t, err))

	// first request succeeds
	resp, err := svc.RequestCancellation(context.Background(), RequestCancellationInput{
		OrderID: order.ID, UserID: owner, Reason: "too slow",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Cancellation)
	assert.Equal(t, enums.CancellationStatusPending, *resp.Cancellation.Status)

	// duplicate request
	_, err = svc.RequestCancellation(context.Background(), RequestCancellationInput{
		OrderID: order.ID, UserID: owner, Reason: "still too slow",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errCode(t, err))
}

func TestRequestCancellationRejectedForDeliveredOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	product := seedProduct(t, db, 3)
	order := newOrder(t, db, owner, []models.OrderItem{
		{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(100)},
	})

	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusDelivered, ActorUserID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = svc.RequestCancellation(context.Background(), RequestCancellationInput{
		OrderID: order.ID, UserID: owner, Reason: "changed my mind",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errCode(t, err))
}

func TestResolveCancellationApprove(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	admin := uuid.New()
	order := newOrder(t, db, owner, nil)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		UpdateColumn("payment_status", enums.PaymentStatusReceived).Error)

	_, err := svc.RequestCancellation(context.Background(), RequestCancellationInput{
		OrderID: order.ID, UserID: owner, Reason: "wrong colour",
	})
	require.NoError(t, err)

	resp, err := svc.ResolveCancellation(context.Background(), ResolveCancellationInput{
		OrderID: order.ID, Decision: CancellationDecisionApprove, ActorUserID: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, resp.OrderStatus)
	assert.Equal(t, enums.PaymentStatusRefunded, resp.PaymentStatus)
	require.NotNil(t, resp.Cancellation)
	assert.Equal(t, enums.CancellationStatusApproved, *resp.Cancellation.Status)
	assert.Equal(t, admin, *resp.Cancellation.ApprovedBy)
}

func TestResolveCancellationReject(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	order := newOrder(t, db, owner, nil)

	_, err := svc.RequestCancellation(context.Background(), RequestCancellationInput{
		OrderID: order.ID, UserID: owner, Reason: "wrong colour",
	})
	require.NoError(t, err)

	resp, err := svc.ResolveCancellation(context.Background(), ResolveCancellationInput{
		OrderID: order.ID, Decision: CancellationDecisionReject, ActorUserID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPlaced, resp.OrderStatus, "rejection leaves the lifecycle alone")
	require.NotNil(t, resp.Cancellation)
	assert.Equal(t, enums.CancellationStatusRejected, *resp.Cancellation.Status)
}

func TestResolveCancellationRequiresPendingRequest(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	order := newOrder(t, db, uuid.New(), nil)
	_, err := svc.ResolveCancellation(context.Background(), ResolveCancellationInput{
		OrderID: order.ID, Decision: CancellationDecisionApprove, ActorUserID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errCode(t, err))
}

func TestResolveCancellationApproveAfterDeliveryReleasesStock(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	product := seedProduct(t, db, 5)
	order := newOrder(t, db, owner, []models.OrderItem{
		{ProductID: product.ID, Quantity: 2, Price: decimal.NewFromInt(100)},
	})

	_, err := svc.RequestCancellation(context.Background(), RequestCancellationInput{
		OrderID: order.ID, UserID: owner, Reason: "ordered twice",
	})
	require.NoError(t, err)

	// Delivery can still happen while the request sits in the queue.
	_, err = svc.SetStatus(context.Background(), SetStatusInput{
		OrderID: order.ID, NewStatus: enums.OrderStatusDelivered, ActorUserID: uuid.New(),
	})
	require.NoError(t, err)
	require.Equal(t, 3, stockOf(t, db, product.ID))

	resp, err := svc.ResolveCancellation(context.Background(), ResolveCancellationInput{
		OrderID: order.ID, Decision: CancellationDecisionApprove, ActorUserID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, resp.OrderStatus)
	assert.Equal(t, 5, stockOf(t, db, product.ID), "approval after delivery must return stock")
}

func TestGetOrderOwnership(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	order := newOrder(t, db, owner, nil)

	_, err := svc.GetOrder(context.Background(), order.ID, uuid.New(), false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, errCode(t, err))

	resp, err := svc.GetOrder(context.Background(), order.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, resp.ID)

	resp, err = svc.GetOrder(context.Background(), order.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, resp.ID)
}
