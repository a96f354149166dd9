package inventory

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// ItemDTO is the wire shape of one inventory row.
type ItemDTO struct {
	ItemID       int64          `json:"item_id"`
	ItemName     string         `json:"item_name"`
	ItemCategory string         `json:"item_category"`
	Quantity     int            `json:"quantity"`
	Location     enums.Location `json:"location"`
	AddedDate    time.Time      `json:"added_date"`
	LastUpdated  time.Time      `json:"last_updated"`
}

func FromModel(m models.InventoryRecord) ItemDTO {
	return ItemDTO{
		ItemID:       m.ID,
		ItemName:     m.Name,
		ItemCategory: m.Category,
		Quantity:     m.Quantity,
		Location:     m.Location,
		AddedDate:    m.AddedDate,
		LastUpdated:  m.LastUpdated,
	}
}

func fromModels(rows []models.InventoryRecord) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}
