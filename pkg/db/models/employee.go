package models

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// Employee is a staff member able to log in and act on inventory.
type Employee struct {
	ID           int64      `gorm:"column:employee_id;primaryKey;autoIncrement"`
	Name         string     `gorm:"column:employee_name;not null"`
	Email        string     `gorm:"column:employee_email;not null;uniqueIndex:ux_employees_email"`
	Role         enums.Role `gorm:"column:employee_role;type:text;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string { return "employees" }
