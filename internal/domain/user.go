package domain

import (
	"fmt"
	"strings"
)

// Role determines which actions the view layer offers to the session user.
type Role string

const (
	RoleGuest    Role = "GUEST"
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleGuest, RoleCustomer, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is the active session identity.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// IsAdmin reports whether the user may use the admin panel.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Canonical identities used by login.
var (
	DemoCustomer = User{
		ID:     "u1",
		Name:   "Demo Customer",
		Email:  "customer@example.com",
		Role:   RoleCustomer,
		Avatar: "https://ui-avatars.com/api/?name=Demo+Customer",
	}
	StoreOwner = User{
		ID:     "a1",
		Name:   "Store Owner",
		Email:  "admin@primecart.ai",
		Role:   RoleAdmin,
		Avatar: "https://ui-avatars.com/api/?name=Store+Owner",
	}
)

// IdentityFor returns the canonical identity for a role. Anything other than
// Admin logs in as the demo customer.
func IdentityFor(role Role) User {
	if role == RoleAdmin {
		return StoreOwner
	}
	return DemoCustomer
}
