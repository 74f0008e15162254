package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
)

// AccessTokenPayload carries the identity facts minted into a token.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	IsAdmin bool
	Role    enums.UserRole
}

// AccessTokenClaims is the JWT claim set for API access tokens. IsAdmin is
// the capability flag consulted for authorization; Role is descriptive.
type AccessTokenClaims struct {
	UserID  uuid.UUID      `json:"uid"`
	IsAdmin bool           `json:"adm"`
	Role    enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
