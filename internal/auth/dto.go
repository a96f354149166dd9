package auth

import "github.com/angelmondragon/stockroom-backend/internal/employees"

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,gt=0"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse carries the employee profile and the issued token pair.
type LoginResponse struct {
	Employee     *employees.ProfileDTO `json:"employee"`
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
}

// TokenPair is returned by refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
