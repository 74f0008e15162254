package models

import (
	"github.com/google/uuid"

	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
)

// Address is a saved address in the customer's address book. Orders copy
// its fields at checkout; they never reference the row.
type Address struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Type      enums.AddressType `gorm:"column:type;type:text;not null"`
	Street    string            `gorm:"column:street;not null"`
	City      string            `gorm:"column:city;not null"`
	State     string            `gorm:"column:state;not null"`
	Zip       string            `gorm:"column:zip;not null"`
	IsDefault bool              `gorm:"column:is_default;not null;default:false"`
}
