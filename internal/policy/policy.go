// Package policy decides what each employee role may do. Every function is
// pure: no store access, no clock, no logging.
package policy

import "github.com/angelmondragon/stockroom-backend/pkg/enums"

const (
	ReasonClerkRoute  = "Store Clerks can only move FROM Storage TO Display or FROM Display TO Returns"
	ReasonUnknownRole = "unrecognized role"
)

// Decision is the outcome of a move authorization check. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// CanMove reports whether role may transfer stock from one location to another.
// Location validity and from != to are checked by callers before this runs.
func CanMove(role enums.Role, from, to enums.Location) Decision {
	switch role {
	case enums.RoleAdmin, enums.RoleManager:
		return allow()
	case enums.RoleStoreClerk:
		if clerkRoute(from, to) {
			return allow()
		}
		return deny(ReasonClerkRoute)
	default:
		return deny(ReasonUnknownRole)
	}
}

func clerkRoute(from, to enums.Location) bool {
	switch {
	case from == enums.LocationStorage && to == enums.LocationDisplay:
		return true
	case from == enums.LocationDisplay && to == enums.LocationReturns:
		return true
	default:
		return false
	}
}

// CanAddOrEdit reports whether role may create or modify item records.
func CanAddOrEdit(role enums.Role) bool {
	switch role {
	case enums.RoleAdmin, enums.RoleManager:
		return true
	case enums.RoleStoreClerk:
		return false
	default:
		return false
	}
}

// CanManageEmployees reports whether role may create employee accounts.
func CanManageEmployees(role enums.Role) bool {
	switch role {
	case enums.RoleAdmin:
		return true
	case enums.RoleManager, enums.RoleStoreClerk:
		return false
	default:
		return false
	}
}

// Actor is the authenticated employee a request acts on behalf of.
type Actor struct {
	EmployeeID int64
	Name       string
	Role       enums.Role
}
