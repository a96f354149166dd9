package models

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// InventoryRecord is the on-hand quantity of one item at one location.
// Rows never persist with a zero quantity.
type InventoryRecord struct {
	ID          int64          `gorm:"column:item_id;primaryKey;autoIncrement"`
	Name        string         `gorm:"column:item_name;not null;index:idx_inventory_name_location"`
	Category    string         `gorm:"column:item_category;not null"`
	Quantity    int            `gorm:"column:quantity;not null"`
	Location    enums.Location `gorm:"column:location;type:text;not null;index:idx_inventory_name_location"`
	AddedDate   time.Time      `gorm:"column:added_date;autoCreateTime"`
	LastUpdated time.Time      `gorm:"column:last_updated;autoUpdateTime"`
}

func (InventoryRecord) TableName() string { return "inventory" }
