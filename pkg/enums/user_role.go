package enums

import "fmt"

// UserRole is descriptive metadata on the account. Authorization decisions
// use the is_admin capability flag, never this enum.
type UserRole string

const (
	UserRoleCustomer UserRole = "Customer"
	UserRoleSupport  UserRole = "Support"
	UserRoleAdmin    UserRole = "Admin"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleSupport,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
