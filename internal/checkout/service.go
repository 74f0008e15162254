package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/internal/cart"
	"github.com/rohanmahajan/furnimart-backend/internal/inventory"
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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, input Input) (*Response, error)
}

type service struct {
	tx           txRunner
	cartRepo     cart.Repository
	ordersRepo   orders.Repository
	paymentsRepo payments.Repository
	usersRepo    users.Repository
	productRepo  products.Repository
	gateway      razorpay.OrderCreator
	gatewayKeyID string
	currency     string
	logg         *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.Repository,
	ordersRepo orders.Repository,
	paymentsRepo payments.Repository,
	usersRepo users.Repository,
	productRepo products.Repository,
	gateway razorpay.OrderCreator,
	gatewayKeyID string,
	currency string,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if paymentsRepo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if currency == "" {
		currency = "INR"
	}
	return &service{
		tx:           tx,
		cartRepo:     cartRepo,
		ordersRepo:   ordersRepo,
		paymentsRepo: paymentsRepo,
		usersRepo:    usersRepo,
		productRepo:  productRepo,
		gateway:      gateway,
		gatewayKeyID: gatewayKeyID,
		currency:     currency,
		logg:         logg,
	}, nil
}

// Execute turns the customer's cart into an order. Availability is checked
// against the live catalog and prices are re-read, so a stale cart can never
// buy at an old price. COD orders settle synchronously; gateway orders get a
// pending payment intent, and the order is torn down again if the gateway
// rejects the intent.
func (s *service) Execute(ctx context.Context, input Input) (*Response, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	address, err := s.resolveAddress(ctx, input)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		items, err := cartRepo.ListByUser(ctx, input.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		lines, total, err := s.priceCart(ctx, tx, items)
		if err != nil {
			return err
		}

		order = &models.Order{
			ID:            uuid.New(),
			UserID:        input.UserID,
			Items:         lines,
			TotalAmount:   total,
			Address:       *address,
			PaymentMethod: input.PaymentMethod,
			PaymentStatus: enums.PaymentStatusPending,
			OrderStatus:   enums.OrderStatusPlaced,
		}
		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if err := cartRepo.Clear(ctx, input.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		if input.PaymentMethod == enums.PaymentMethodCOD {
			return s.settleCOD(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{Order: orders.ToOrderResponse(*order)}
	if !input.PaymentMethod.UsesGateway() {
		return resp, nil
	}

	intent, err := s.createGatewayIntent(ctx, order)
	if err != nil {
		return nil, err
	}
	resp.Payment = intent
	return resp, nil
}

func (s *service) resolveAddress(ctx context.Context, input Input) (*types.AddressSnapshot, error) {
	if input.AddressID != nil && *input.AddressID != uuid.Nil {
		saved, err := s.usersRepo.FindAddress(ctx, *input.AddressID, input.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}
		return &types.AddressSnapshot{
			Type:      saved.Type,
			Street:    saved.Street,
			City:      saved.City,
			State:     saved.State,
			Zip:       saved.Zip,
			IsDefault: saved.IsDefault,
		}, nil
	}

	if input.Address == nil || input.Address.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}
	snapshot := *input.Address
	if snapshot.Type == "" {
		snapshot.Type = enums.AddressTypeShipping
	}
	return &snapshot, nil
}

// priceCart re-reads the catalog inside the checkout transaction and builds
// the order lines from live prices. Each line is checked against current
// stock; the failing product aborts the whole checkout.
func (s *service) priceCart(ctx context.Context, tx *gorm.DB, items []models.CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	catalog, err := s.productRepo.WithTx(tx).FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(catalog))
	for _, product := range catalog {
		byID[product.ID] = product
	}

	lines := make([]models.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeStateConflict, "product unavailable").
				WithDetails(inventory.InsufficientStockDetails{
					ProductID: item.ProductID.String(),
					Available: 0,
					Required:  item.Quantity,
				})
		}
		if product.Stock < item.Quantity {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeStateConflict, "product unavailable").
				WithDetails(inventory.InsufficientStockDetails{
					ProductID: product.ID.String(),
					Available: product.Stock,
					Required:  item.Quantity,
				})
		}

		lines = append(lines, models.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return lines, total, nil
}

// settleCOD records the payment as collected-on-delivery within the
// checkout transaction.
func (s *service) settleCOD(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	ordersRepo := s.ordersRepo.WithTx(tx)
	paymentsRepo := s.paymentsRepo.WithTx(tx)

	now := time.Now().UTC()
	payment := &models.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		PaymentMethod: enums.PaymentMethodCOD,
		Amount:        order.TotalAmount,
		Status:        enums.PaymentRecordStatusCompleted,
		PaidAt:        &now,
	}
	if _, err := paymentsRepo.Create(ctx, payment); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record cod payment")
	}
	if err := ordersRepo.UpdateOrder(ctx, order.ID, map[string]any{
		"payment_status": enums.PaymentStatusReceived,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	order.PaymentStatus = enums.PaymentStatusReceived
	return nil
}

// createGatewayIntent registers the order with the gateway after the local
// transaction committed. A gateway failure deletes the freshly created
// order so the customer can retry from a clean cartless state.
func (s *service) createGatewayIntent(ctx context.Context, order *models.Order) (*PaymentIntentResponse, error) {
	amountMinorUnits := order.TotalAmount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	intent, err := s.gateway.CreateOrder(ctx, amountMinorUnits, order.ID.String())
	if err != nil {
		wctx := s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Error(wctx, "payment intent creation failed, rolling back order", err)

		if delErr := s.ordersRepo.Delete(ctx, order.ID); delErr != nil {
			s.logg.Error(wctx, "compensating order delete failed", delErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment intent failed")
	}

	payment := &models.Payment{
		ID:             uuid.New(),
		OrderID:        order.ID,
		PaymentMethod:  order.PaymentMethod,
		Amount:         order.TotalAmount,
		Status:         enums.PaymentRecordStatusPending,
		GatewayOrderID: &intent.ID,
	}
	if _, err := s.paymentsRepo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment intent")
	}

	return &PaymentIntentResponse{
		GatewayOrderID: intent.ID,
		Amount:         amountMinorUnits,
		Currency:       s.currency,
		KeyID:          s.gatewayKeyID,
	}, nil
}
