package domain

import "fmt"

// Role is the closed set of account roles. Values outside the declared
// constants are rejected by ParseRole and never authorize anything.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleAdmin, RoleUser, RoleStoreOwner}

// ParseRole converts a stored or user-supplied string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Authorize returns ErrForbidden unless role is a member of allowed.
func Authorize(role Role, allowed ...Role) error {
	if !role.Valid() {
		return ErrForbidden
	}
	for _, a := range allowed {
		if a == role {
			return nil
		}
	}
	return ErrForbidden
}
