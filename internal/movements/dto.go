package movements

import (
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// EntryDTO is the wire shape of one movement log row.
type EntryDTO struct {
	LogID        int64          `json:"log_id"`
	ItemID       int64          `json:"item_id"`
	ItemName     string         `json:"item_name"`
	EmployeeID   int64          `json:"employee_id"`
	EmployeeName string         `json:"employee_name"`
	FromLocation enums.Location `json:"from_location"`
	ToLocation   enums.Location `json:"to_location"`
	Quantity     int            `json:"quantity"`
	MovementDate time.Time      `json:"movement_date"`
}

func FromModel(m models.MovementLogEntry) EntryDTO {
	return EntryDTO{
		LogID:        m.ID,
		ItemID:       m.ItemID,
		ItemName:     m.ItemName,
		EmployeeID:   m.EmployeeID,
		EmployeeName: m.EmployeeName,
		FromLocation: m.FromLocation,
		ToLocation:   m.ToLocation,
		Quantity:     m.Quantity,
		MovementDate: m.MovementDate,
	}
}

func fromModels(rows []models.MovementLogEntry) []EntryDTO {
	out := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}
