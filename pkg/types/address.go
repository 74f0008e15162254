package types

import (
	"strings"

	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
)

// AddressSnapshot is the shipping address copied onto an order at checkout.
// It is a value, not a reference: later edits to the customer's address book
// never touch existing orders. Stored as jsonb.
type AddressSnapshot struct {
	Type      enums.AddressType `json:"type"`
	Street    string            `json:"street"`
	City      string            `json:"city"`
	State     string            `json:"state"`
	Zip       string            `json:"zip"`
	IsDefault bool              `json:"isDefault"`
}

// IsZero reports whether no address was captured.
func (a AddressSnapshot) IsZero() bool {
	return a.Type == "" &&
		strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == ""
}
