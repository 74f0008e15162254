package checkout

import (
	"github.com/google/uuid"

	"github.com/rohanmahajan/furnimart-backend/internal/orders"
	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
	"github.com/rohanmahajan/furnimart-backend/pkg/types"
)

// Input captures everything a checkout call needs. The shipping address
// comes either from the address book (AddressID) or inline.
type Input struct {
	UserID        uuid.UUID              `json:"-"`
	AddressID     *uuid.UUID             `json:"addressId"`
	Address       *types.AddressSnapshot `json:"address"`
	PaymentMethod enums.PaymentMethod    `json:"paymentMethod" validate:"required"`
}

// PaymentIntentResponse tells the client how to complete a gateway payment.
type PaymentIntentResponse struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"keyId"`
}

// Response is the checkout result: the placed order, plus the gateway
// intent when the method settles online.
type Response struct {
	Order   orders.OrderResponse   `json:"order"`
	Payment *PaymentIntentResponse `json:"payment,omitempty"`
}
