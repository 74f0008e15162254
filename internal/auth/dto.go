package auth

import (
	"github.com/rohanmahajan/furnimart-backend/internal/users"
)

// RegisterInput captures a new account signup.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

// LoginInput captures a credential check.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the minted token plus the account it belongs to.
type AuthResponse struct {
	Token string             `json:"token"`
	User  users.UserResponse `json:"user"`
}
