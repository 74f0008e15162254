package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
	"github.com/rohanmahajan/furnimart-backend/pkg/types"
)

// SetStatusInput carries an admin lifecycle move.
type SetStatusInput struct {
	OrderID     uuid.UUID
	NewStatus   enums.OrderStatus
	ActorUserID uuid.UUID
}

// RequestCancellationInput carries a customer's cancellation request.
type RequestCancellationInput struct {
	OrderID uuid.UUID
	UserID  uuid.UUID
	Reason  string
}

// CancellationDecision is the action an admin takes on a pending request.
type CancellationDecision string

const (
	CancellationDecisionApprove CancellationDecision = "approve"
	CancellationDecisionReject  CancellationDecision = "reject"
)

// ResolveCancellationInput carries an admin's decision on a pending request.
type ResolveCancellationInput struct {
	OrderID     uuid.UUID
	Decision    CancellationDecision
	ActorUserID uuid.UUID
}

// OrderItemResponse is one line item on the wire.
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CancellationResponse surfaces the cancellation sub-record, if any.
type CancellationResponse struct {
	Reason      *string                   `json:"reason,omitempty"`
	Status      *enums.CancellationStatus `json:"status,omitempty"`
	RequestedAt *time.Time                `json:"requestedAt,omitempty"`
	ApprovedBy  *uuid.UUID                `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time                `json:"approvedAt,omitempty"`
}

// OrderResponse is the order representation returned by the API.
type OrderResponse struct {
	ID            uuid.UUID             `json:"id"`
	UserID        uuid.UUID             `json:"userId"`
	Items         []OrderItemResponse   `json:"items"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	Address       types.AddressSnapshot `json:"address"`
	PaymentMethod enums.PaymentMethod   `json:"paymentMethod"`
	PaymentStatus enums.PaymentStatus   `json:"paymentStatus"`
	OrderStatus   enums.OrderStatus     `json:"orderStatus"`
	Cancellation  *CancellationResponse `json:"cancellation,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ToOrderResponse maps a persisted order onto its wire representation.
func ToOrderResponse(order models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	resp := OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Address:       order.Address,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.OrderStatus,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.CancellationRequested {
		resp.Cancellation = &CancellationResponse{
			Reason:      order.CancellationReason,
			Status:      order.CancellationStatus,
			RequestedAt: order.CancellationRequestedAt,
			ApprovedBy:  order.CancellationApprovedBy,
			ApprovedAt:  order.CancellationApprovedAt,
		}
	}
	return resp
}

// ToOrderResponses maps a slice of orders.
func ToOrderResponses(list []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, order := range list {
		out = append(out, ToOrderResponse(order))
	}
	return out
}
