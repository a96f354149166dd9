package models

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// MovementLogEntry is the append-only audit fact written for every completed move.
type MovementLogEntry struct {
	ID           int64          `gorm:"column:log_id;primaryKey;autoIncrement"`
	ItemID       int64          `gorm:"column:item_id;not null;index"`
	ItemName     string         `gorm:"column:item_name;not null"`
	EmployeeID   int64          `gorm:"column:employee_id;not null;index"`
	EmployeeName string         `gorm:"column:employee_name;not null"`
	FromLocation enums.Location `gorm:"column:from_location;type:text;not null"`
	ToLocation   enums.Location `gorm:"column:to_location;type:text;not null"`
	Quantity     int            `gorm:"column:quantity;not null"`
	MovementDate time.Time      `gorm:"column:movement_date;autoCreateTime;index"`
}

func (MovementLogEntry) TableName() string { return "movement_log" }
