package policy

import (
	"fmt"
	"testing"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanMoveAdminAndManagerAllowEveryPair(t *testing.T) {
	for _, role := range []enums.Role{enums.RoleAdmin, enums.RoleManager} {
		for _, from := range enums.Locations() {
			for _, to := range enums.Locations() {
				d := CanMove(role, from, to)
				assert.True(t, d.Allowed, "%s %s->%s", role, from, to)
				assert.Empty(t, d.Reason)
			}
		}
	}
}

func TestCanMoveStoreClerkMatrix(t *testing.T) {
	allowed := map[string]bool{
		"Storage->Display": true,
		"Display->Returns": true,
	}
	for _, from := range enums.Locations() {
		for _, to := range enums.Locations() {
			key := fmt.Sprintf("%s->%s", from, to)
			d := CanMove(enums.RoleStoreClerk, from, to)
			if allowed[key] {
				assert.True(t, d.Allowed, key)
				assert.Empty(t, d.Reason, key)
				continue
			}
			assert.False(t, d.Allowed, key)
			assert.Equal(t, ReasonClerkRoute, d.Reason, key)
		}
	}
}

func TestCanMoveClerkDisplayToStorageDenied(t *testing.T) {
	d := CanMove(enums.RoleStoreClerk, enums.LocationDisplay, enums.LocationStorage)
	require.False(t, d.Allowed)
	require.Equal(t, "Store Clerks can only move FROM Storage TO Display or FROM Display TO Returns", d.Reason)
}

func TestCanMoveUnknownRoleDenied(t *testing.T) {
	for _, role := range []enums.Role{"", "Janitor", "admin"} {
		d := CanMove(role, enums.LocationStorage, enums.LocationDisplay)
		assert.False(t, d.Allowed, string(role))
		assert.Equal(t, ReasonUnknownRole, d.Reason)
	}
}

func TestCanMoveIsDeterministic(t *testing.T) {
	first := CanMove(enums.RoleStoreClerk, enums.LocationReturns, enums.LocationDisplay)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, CanMove(enums.RoleStoreClerk, enums.LocationReturns, enums.LocationDisplay))
	}
}

func TestCanAddOrEdit(t *testing.T) {
	cases := map[enums.Role]bool{
		enums.RoleAdmin:      true,
		enums.RoleManager:    true,
		enums.RoleStoreClerk: false,
		"":                   false,
		"Owner":              false,
	}
	for role, want := range cases {
		assert.Equal(t, want, CanAddOrEdit(role), string(role))
	}
}

func TestCanManageEmployees(t *testing.T) {
	cases := map[enums.Role]bool{
		enums.RoleAdmin:      true,
		enums.RoleManager:    false,
		enums.RoleStoreClerk: false,
		"Root":               false,
	}
	for role, want := range cases {
		assert.Equal(t, want, CanManageEmployees(role), string(role))
	}
}
