package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanmahajan/furnimart-backend/internal/products"
	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
)

// AddItemInput adds a product to the cart or bumps its quantity.
type AddItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

// UpdateItemInput sets an absolute quantity for a cart line.
type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// CartItemResponse is one cart line on the wire.
type CartItemResponse struct {
	ID        uuid.UUID                 `json:"id"`
	ProductID uuid.UUID                 `json:"productId"`
	Quantity  int                       `json:"quantity"`
	Product   *products.ProductResponse `json:"product,omitempty"`
	LineTotal decimal.Decimal           `json:"lineTotal"`
}

// CartResponse is the whole cart plus its running subtotal.
type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// ToCartResponse maps cart rows onto the wire representation. Lines whose
// product vanished from the catalog keep their quantity but price as zero.
func ToCartResponse(items []models.CartItem) CartResponse {
	resp := CartResponse{
		Items:    make([]CartItemResponse, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		line := CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			LineTotal: decimal.Zero,
		}
		if item.Product != nil {
			product := products.ToProductResponse(*item.Product)
			line.Product = &product
			line.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		resp.Subtotal = resp.Subtotal.Add(line.LineTotal)
		resp.Items = append(resp.Items, line)
	}
	return resp
}
