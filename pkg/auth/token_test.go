package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	"github.com/stretchr/testify/require"
)

func testJWTConfig(minutes int) config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "stockroom",
		ExpirationMinutes: minutes,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig(30)
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		EmployeeID:   2,
		EmployeeName: "Bob Smith",
		Role:         enums.RoleStoreClerk,
		JTI:          "session-1",
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, int64(2), claims.EmployeeID)
	require.Equal(t, "Bob Smith", claims.EmployeeName)
	require.Equal(t, enums.RoleStoreClerk, claims.Role)
	require.Equal(t, "session-1", claims.ID)
	require.Equal(t, "2", claims.Subject)
	require.Equal(t, cfg.Issuer, claims.Issuer)
	require.WithinDuration(t, now.Add(30*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	cfg := testJWTConfig(5)
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{EmployeeID: 1, Role: enums.RoleAdmin})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig(10)
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{EmployeeID: 3, Role: enums.RoleManager})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token+"x")
	require.Error(t, err)

	other := cfg
	other.Secret = "other"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	cfg := testJWTConfig(10)
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{EmployeeID: 3, Role: enums.RoleManager})
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig(15)
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{EmployeeID: 1, Role: enums.RoleAdmin})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "expired"), "unexpected error: %v", err)

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.EmployeeID)
}

func TestMintAccessTokenRejectsBadPayload(t *testing.T) {
	cfg := testJWTConfig(5)
	now := time.Now()

	_, err := MintAccessToken(cfg, now, AccessTokenPayload{EmployeeID: 1, Role: "Janitor"})
	require.Error(t, err)

	_, err = MintAccessToken(cfg, now, AccessTokenPayload{EmployeeID: 0, Role: enums.RoleAdmin})
	require.Error(t, err)

	_, err = MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, now, AccessTokenPayload{EmployeeID: 1, Role: enums.RoleAdmin})
	require.Error(t, err)
}
