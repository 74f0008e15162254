package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
)

// UpdateProfileInput carries a partial profile edit; nil fields are left alone.
type UpdateProfileInput struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	NotifyEmail *bool   `json:"notifyEmail"`
	NotifySMS   *bool   `json:"notifySms"`
}

// AddressInput captures one address book entry.
type AddressInput struct {
	Type      enums.AddressType `json:"type" validate:"required"`
	Street    string            `json:"street" validate:"required"`
	City      string            `json:"city" validate:"required"`
	State     string            `json:"state" validate:"required"`
	Zip       string            `json:"zip" validate:"required"`
	IsDefault bool              `json:"isDefault"`
}

// AddressResponse is one address book row on the wire.
type AddressResponse struct {
	ID        uuid.UUID         `json:"id"`
	Type      enums.AddressType `json:"type"`
	Street    string            `json:"street"`
	City      string            `json:"city"`
	State     string            `json:"state"`
	Zip       string            `json:"zip"`
	IsDefault bool              `json:"isDefault"`
}

// UserResponse is the account representation returned by the API. The
// password hash never leaves the persistence layer.
type UserResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	IsAdmin     bool           `json:"isAdmin"`
	Role        enums.UserRole `json:"role"`
	NotifyEmail bool           `json:"notifyEmail"`
	NotifySMS   bool           `json:"notifySms"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ToAddressResponse maps an address row onto the wire representation.
func ToAddressResponse(address models.Address) AddressResponse {
	return AddressResponse{
		ID:        address.ID,
		Type:      address.Type,
		Street:    address.Street,
		City:      address.City,
		State:     address.State,
		Zip:       address.Zip,
		IsDefault: address.IsDefault,
	}
}

// ToAddressResponses maps a slice of address rows.
func ToAddressResponses(list []models.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(list))
	for _, address := range list {
		out = append(out, ToAddressResponse(address))
	}
	return out
}

// ToUserResponses maps a slice of account rows.
func ToUserResponses(list []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for _, user := range list {
		out = append(out, ToUserResponse(user))
	}
	return out
}

// ToUserResponse maps an account row onto the wire representation.
func ToUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		IsAdmin:     user.IsAdmin,
		Role:        user.Role,
		NotifyEmail: user.NotifyEmail,
		NotifySMS:   user.NotifySMS,
		CreatedAt:   user.CreatedAt,
	}
}
