package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Stock is mutated only through the
// inventory ledger's guarded commit/release statements (plus admin edits),
// so it can never drop below zero.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string           `gorm:"column:name;not null"`
	Category      string           `gorm:"column:category;not null"`
	Description   *string          `gorm:"column:description"`
	Image         *string          `gorm:"column:image"`
	Rating        *float64         `gorm:"column:rating;type:numeric(3,2)"`
	Brand         *string          `gorm:"column:brand"`
	Colour        *string          `gorm:"column:colour"`
	Material      *string          `gorm:"column:material"`
	PackContent   *string          `gorm:"column:pack_content"`
	Weight        *string          `gorm:"column:weight"`
	SKU           string           `gorm:"column:sku;not null"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(10,2)"`
	Stock         int              `gorm:"column:stock;not null;default:0"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
