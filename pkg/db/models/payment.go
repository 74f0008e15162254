package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
)

// Payment records one payment attempt for an order. Gateway attempts start
// pending and are settled by the verification adapter; COD attempts are
// written completed.
type Payment struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID                 `gorm:"column:order_id;type:uuid;not null;index"`
	PaymentMethod    enums.PaymentMethod       `gorm:"column:payment_method;type:text;not null"`
	Amount           decimal.Decimal           `gorm:"column:amount;type:numeric(10,2);not null"`
	Status           enums.PaymentRecordStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	GatewayOrderID   *string                   `gorm:"column:gateway_order_id;uniqueIndex"`
	GatewayPaymentID *string                   `gorm:"column:gateway_payment_id"`
	PaidAt           *time.Time                `gorm:"column:paid_at"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
}
