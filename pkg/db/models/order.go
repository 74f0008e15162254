package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
	"github.com/rohanmahajan/furnimart-backend/pkg/types"
)

// Order is one purchase: line items with snapshotted prices, an address
// snapshot, and the three status fields the lifecycle engine drives.
// OrderStatus is persisted through a status-only column update so rows
// created before later schema additions are never re-validated.
type Order struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Items         []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount   decimal.Decimal       `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Address       types.AddressSnapshot `gorm:"column:address;type:jsonb;serializer:json"`
	PaymentMethod enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'Pending'"`
	OrderStatus   enums.OrderStatus     `gorm:"column:order_status;type:text;not null;default:'Placed'"`

	CancellationRequested   bool                      `gorm:"column:cancellation_requested;not null;default:false"`
	CancellationReason      *string                   `gorm:"column:cancellation_reason"`
	CancellationStatus      *enums.CancellationStatus `gorm:"column:cancellation_status;type:text"`
	CancellationRequestedAt *time.Time                `gorm:"column:cancellation_requested_at"`
	CancellationApprovedBy  *uuid.UUID                `gorm:"column:cancellation_approved_by;type:uuid"`
	CancellationApprovedAt  *time.Time                `gorm:"column:cancellation_approved_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPendingCancellation reports whether an unresolved request exists.
func (o Order) HasPendingCancellation() bool {
	return o.CancellationStatus != nil && *o.CancellationStatus == enums.CancellationStatusPending
}
