package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/internal/orders"
	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
	"github.com/rohanmahajan/furnimart-backend/pkg/razorpay"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// VerifyCallbackInput carries the gateway's client-side callback fields.
type VerifyCallbackInput struct {
	GatewayOrderID   string `json:"razorpayOrderId" validate:"required"`
	GatewayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	Signature        string `json:"razorpaySignature" validate:"required"`
}

// VerifyCallbackResponse reports the settled order after verification.
type VerifyCallbackResponse struct {
	OrderID       uuid.UUID           `json:"orderId"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	OrderStatus   enums.OrderStatus   `json:"orderStatus"`
}

// Service settles gateway payments from the signed callback.
type Service interface {
	VerifyCallback(ctx context.Context, input VerifyCallbackInput) (*VerifyCallbackResponse, error)
}

type service struct {
	repo   Repository
	orders orders.Repository
	tx     txRunner
	secret string
	logg   *logger.Logger
}

// NewService builds the payment verification service. The secret is the
// gateway shared secret used to check callback signatures.
func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner, secret string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if secret == "" {
		return nil, fmt.Errorf("gateway secret required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		orders: ordersRepo,
		tx:     tx,
		secret: secret,
		logg:   logg,
	}, nil
}

// VerifyCallback checks the HMAC signature over the gateway order and payment
// ids. A valid signature settles the payment and moves the order to
// Processing. An invalid one is rejected without touching the payment record
// or the order, so a forged callback cannot change any state.
func (s *service) VerifyCallback(ctx context.Context, input VerifyCallbackInput) (*VerifyCallbackResponse, error) {
	if input.GatewayOrderID == "" || input.GatewayPaymentID == "" || input.Signature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order id, payment id and signature required")
	}

	payment, err := s.repo.FindByGatewayOrderID(ctx, input.GatewayOrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment.Status == enums.PaymentRecordStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already settled")
	}

	if !razorpay.VerifySignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature, s.secret) {
		wctx := s.logg.WithFields(ctx, map[string]any{
			"order_id":         payment.OrderID.String(),
			"gateway_order_id": input.GatewayOrderID,
		})
		s.logg.Warn(wctx, "payment signature verification failed")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "payment verification failed")
	}

	var resp *VerifyCallbackResponse
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		now := time.Now().UTC()
		if err := repo.Update(ctx, payment.ID, map[string]any{
			"status":             enums.PaymentRecordStatusCompleted,
			"gateway_payment_id": input.GatewayPaymentID,
			"paid_at":            now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle payment")
		}
		if err := ordersRepo.UpdateOrder(ctx, payment.OrderID, map[string]any{
			"payment_status": enums.PaymentStatusReceived,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment status")
		}
		if err := ordersRepo.UpdateOrderStatus(ctx, payment.OrderID, enums.OrderStatusProcessing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance order status")
		}

		resp = &VerifyCallbackResponse{
			OrderID:       payment.OrderID,
			PaymentStatus: enums.PaymentStatusReceived,
			OrderStatus:   enums.OrderStatusProcessing,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
