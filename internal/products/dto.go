package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
)

// CreateProductInput captures a new catalog listing.
type CreateProductInput struct {
	Name          string           `json:"name" validate:"required"`
	Category      string           `json:"category" validate:"required"`
	Description   *string          `json:"description"`
	Image         *string          `json:"image"`
	Brand         *string          `json:"brand"`
	Colour        *string          `json:"colour"`
	Material      *string          `json:"material"`
	PackContent   *string          `json:"packContent"`
	Weight        *string          `json:"weight"`
	SKU           string           `json:"sku" validate:"required"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Stock         int              `json:"stock" validate:"gte=0"`
}

// UpdateProductInput carries a partial catalog edit; nil fields are left alone.
type UpdateProductInput struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	Description   *string          `json:"description"`
	Image         *string          `json:"image"`
	Brand         *string          `json:"brand"`
	Colour        *string          `json:"colour"`
	Material      *string          `json:"material"`
	PackContent   *string          `json:"packContent"`
	Weight        *string          `json:"weight"`
	SKU           *string          `json:"sku"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Stock         *int             `json:"stock"`
}

// ProductResponse is the catalog representation returned by the API.
type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Description   *string          `json:"description,omitempty"`
	Image         *string          `json:"image,omitempty"`
	Rating        *float64         `json:"rating,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	Colour        *string          `json:"colour,omitempty"`
	Material      *string          `json:"material,omitempty"`
	PackContent   *string          `json:"packContent,omitempty"`
	Weight        *string          `json:"weight,omitempty"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Stock         int              `json:"stock"`
	InStock       bool             `json:"inStock"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ToProductResponse maps a catalog row onto its wire representation.
func ToProductResponse(product models.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		Category:      product.Category,
		Description:   product.Description,
		Image:         product.Image,
		Rating:        product.Rating,
		Brand:         product.Brand,
		Colour:        product.Colour,
		Material:      product.Material,
		PackContent:   product.PackContent,
		Weight:        product.Weight,
		SKU:           product.SKU,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Stock:         product.Stock,
		InStock:       product.Stock > 0,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// ToProductResponses maps a slice of catalog rows.
func ToProductResponses(list []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, product := range list {
		out = append(out, ToProductResponse(product))
	}
	return out
}
