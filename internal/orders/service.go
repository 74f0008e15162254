package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/internal/inventory"
	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the order lifecycle: status moves with their stock
// side effects, and the admin-gated cancellation flow.
type Service interface {
	SetStatus(ctx context.Context, input SetStatusInput) (*OrderResponse, error)
	RequestCancellation(ctx context.Context, input RequestCancellationInput) (*OrderResponse, error)
	ResolveCancellation(ctx context.Context, input ResolveCancellationInput) (*OrderResponse, error)
	GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) (*OrderResponse, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error)
	ListAllOrders(ctx context.Context) ([]OrderResponse, error)
	ListPendingCancellations(ctx context.Context) ([]OrderResponse, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	ledger inventory.Ledger
	logg   *logger.Logger
}

// NewService builds an order lifecycle service with the required dependencies.
func NewService(repo Repository, tx txRunner, ledger inventory.Ledger, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		ledger: ledger,
		logg:   logg,
	}, nil
}

// SetStatus moves an order to a new lifecycle status. Entering Delivered
// commits the order's stock; leaving it releases the same quantities. The
// status write and the stock write share one transaction, so neither can
// land without the other.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*OrderResponse, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		current := order.OrderStatus
		if current == input.NewStatus {
			updated = order
			return nil
		}
		if current.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already cancelled")
		}
		if input.NewStatus == enums.OrderStatusCancelled && current == enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivered orders cancel only through approval")
		}

		if from, to := current.CanonicalRank(), input.NewStatus.CanonicalRank(); from >= 0 && to >= 0 && to-from > 1 {
			wctx := s.logg.WithFields(ctx, map[string]any{
				"order_id": order.ID.String(),
				"from":     current.String(),
				"to":       input.NewStatus.String(),
			})
			s.logg.Warn(wctx, "order status skipped a lifecycle step")
		}

		if input.NewStatus == enums.OrderStatusDelivered {
			lines := linesFromItems(order.Items)
			if err := s.ledger.Reserve(ctx, tx, lines); err != nil {
				return err
			}
			if err := s.ledger.Commit(ctx, tx, lines); err != nil {
				return err
			}
		}
		if current == enums.OrderStatusDelivered {
			if err := s.ledger.Release(ctx, tx, linesFromItems(order.Items)); err != nil {
				return err
			}
		}

		if err := repo.UpdateOrderStatus(ctx, order.ID, input.NewStatus); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.OrderStatus = input.NewStatus

		if input.NewStatus == enums.OrderStatusCancelled && order.PaymentStatus == enums.PaymentStatusReceived {
			if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
				"payment_status": enums.PaymentStatusRefunded,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund payment status")
			}
			order.PaymentStatus = enums.PaymentStatusRefunded
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(*updated)
	return &resp, nil
}

// RequestCancellation records a customer's request. The order keeps its
// lifecycle status until an admin approves.
func (s *service) RequestCancellation(ctx context.Context, input RequestCancellationInput) (*OrderResponse, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
		}
		if order.OrderStatus == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already cancelled")
		}
		if order.OrderStatus == enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivered orders cannot be cancelled")
		}
		if order.HasPendingCancellation() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation already requested")
		}

		now := time.Now().UTC()
		pending := enums.CancellationStatusPending
		updates := map[string]any{
			"cancellation_requested":    true,
			"cancellation_reason":       input.Reason,
			"cancellation_status":       pending,
			"cancellation_requested_at": now,
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record cancellation request")
		}

		order.CancellationRequested = true
		order.CancellationReason = &input.Reason
		order.CancellationStatus = &pending
		order.CancellationRequestedAt = &now
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(*updated)
	return &resp, nil
}

// ResolveCancellation settles a pending request. Approval cancels the order
// and flips a received payment to refunded; rejection leaves the order
// untouched apart from the decision record.
func (s *service) ResolveCancellation(ctx context.Context, input ResolveCancellationInput) (*OrderResponse, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Decision != CancellationDecisionApprove && input.Decision != CancellationDecisionReject {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be approve or reject")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !order.HasPendingCancellation() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no pending cancellation request")
		}

		now := time.Now().UTC()
		decided := enums.CancellationStatusRejected
		if input.Decision == CancellationDecisionApprove {
			decided = enums.CancellationStatusApproved
		}

		updates := map[string]any{
			"cancellation_status":      decided,
			"cancellation_approved_by": input.ActorUserID,
			"cancellation_approved_at": now,
		}

		if input.Decision == CancellationDecisionApprove {
			// An order can be delivered after the request was filed, in
			// which case its committed stock must come back.
			if order.OrderStatus == enums.OrderStatusDelivered {
				if err := s.ledger.Release(ctx, tx, linesFromItems(order.Items)); err != nil {
					return err
				}
			}
			if err := repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
			}
			order.OrderStatus = enums.OrderStatusCancelled

			if order.PaymentStatus == enums.PaymentStatusReceived {
				updates["payment_status"] = enums.PaymentStatusRefunded
				order.PaymentStatus = enums.PaymentStatusRefunded
			}
		}

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record cancellation decision")
		}

		order.CancellationStatus = &decided
		order.CancellationApprovedBy = &input.ActorUserID
		order.CancellationApprovedAt = &now
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(*updated)
	return &resp, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}

	resp := ToOrderResponse(*order)
	return &resp, nil
}

func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return ToOrderResponses(list), nil
}

func (s *service) ListAllOrders(ctx context.Context) ([]OrderResponse, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return ToOrderResponses(list), nil
}

func (s *service) ListPendingCancellations(ctx context.Context) ([]OrderResponse, error) {
	list, err := s.repo.ListPendingCancellations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cancellation requests")
	}
	return ToOrderResponses(list), nil
}

func linesFromItems(items []models.OrderItem) []inventory.Line {
	lines := make([]inventory.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, inventory.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
