package employees

import (
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// SummaryDTO is the id/name pair used by the login picker.
type SummaryDTO struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
}

// ProfileDTO is the public profile of an employee. It never carries credentials.
type ProfileDTO struct {
	EmployeeID    int64      `json:"employee_id"`
	EmployeeName  string     `json:"employee_name"`
	EmployeeEmail string     `json:"employee_email"`
	EmployeeRole  enums.Role `json:"employee_role"`
}

// CreateEmployeeInput holds the payload to create an employee.
type CreateEmployeeInput struct {
	Name     string
	Email    string
	Role     enums.Role
	Password string
}

func FromModel(m *models.Employee) *ProfileDTO {
	if m == nil {
		return nil
	}
	return &ProfileDTO{
		EmployeeID:    m.ID,
		EmployeeName:  m.Name,
		EmployeeEmail: m.Email,
		EmployeeRole:  m.Role,
	}
}
