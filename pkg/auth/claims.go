package auth

import (
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the employee identity embedded in an access token.
type AccessTokenPayload struct {
	EmployeeID   int64
	EmployeeName string
	Role         enums.Role
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	EmployeeID   int64      `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	Role         enums.Role `json:"employee_role"`
	jwt.RegisteredClaims
}
