package enums

import (
	"fmt"
	"strings"
)

// Role is the employee permission tier.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleManager    Role = "Manager"
	RoleStoreClerk Role = "Store Clerk"
)

var validRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleStoreClerk,
}

// Roles returns every known role in display order.
func Roles() []Role {
	return append([]Role(nil), validRoles...)
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role. Matching ignores case, spaces and
// underscores so "StoreClerk", "store_clerk" and "Store Clerk" are equivalent.
func ParseRole(value string) (Role, error) {
	key := roleKey(value)
	for _, candidate := range validRoles {
		if roleKey(string(candidate)) == key {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

func roleKey(value string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}
