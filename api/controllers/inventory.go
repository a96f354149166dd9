package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/stockroom-backend/api/middleware"
	"github.com/angelmondragon/stockroom-backend/api/responses"
	"github.com/angelmondragon/stockroom-backend/api/validators"
	"github.com/angelmondragon/stockroom-backend/internal/inventory"
	"github.com/angelmondragon/stockroom-backend/internal/policy"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	"github.com/angelmondragon/stockroom-backend/pkg/types"
)

// legacyActorFields are sent by older clients and ignored.
type legacyActorFields struct {
	EmployeeRole json.RawMessage `json:"employee_role,omitempty"`
	EmployeeID   json.RawMessage `json:"employee_id,omitempty"`
	EmployeeName json.RawMessage `json:"employee_name,omitempty"`
}

type itemBody struct {
	ItemName     string          `json:"item_name"`
	ItemCategory string          `json:"item_category"`
	Quantity     json.RawMessage `json:"quantity"`
	Location     string          `json:"location"`
	legacyActorFields
}

type moveBody struct {
	ItemID       types.FlexInt   `json:"item_id"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	Quantity     json.RawMessage `json:"quantity"`
	legacyActorFields
}

// parseQuantity reads the quantity field. A value that is not an integer is an
// invalid quantity, not a malformed body. A missing value reads as zero.
func parseQuantity(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var q types.FlexInt
	if err := json.Unmarshal(raw, &q); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInvalidQuantity, err, "quantity must be a positive integer").
			WithDetails(map[string]any{"quantity": string(raw)})
	}
	return q.Int(), nil
}

// lenientLocation canonicalizes known spellings and passes anything else
// through so the service reports it in its own check order.
func lenientLocation(raw string) enums.Location {
	if loc, err := enums.ParseLocation(raw); err == nil {
		return loc
	}
	return enums.Location(raw)
}

func requireActor(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (policy.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
	}
	return actor, ok
}

func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, items)
	}
}

func InventoryByLocation(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc, err := validators.PathLocation(r, "location")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListByLocation(r.Context(), loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, items)
	}
}

func InventoryAdd(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r, logg)
		if !ok {
			return
		}

		var body itemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := parseQuantity(body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), actor, inventory.AddItemInput{
			Name:     validators.SanitizeString(body.ItemName, 255),
			Category: validators.SanitizeString(body.ItemCategory, 255),
			Quantity: quantity,
			Location: lenientLocation(body.Location),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Item added successfully", types.Fields{"item_id": item.ItemID})
	}
}

func InventoryUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body itemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := parseQuantity(body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), actor, id, inventory.UpdateItemInput{
			Name:     validators.SanitizeString(body.ItemName, 255),
			Category: validators.SanitizeString(body.ItemCategory, 255),
			Quantity: quantity,
			Location: lenientLocation(body.Location),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fields := types.Fields{"deleted": result.Deleted}
		if result.Item != nil {
			fields["item"] = result.Item
		}
		responses.WriteSuccess(w, "Item updated successfully", fields)
	}
}

func InventoryMove(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r, logg)
		if !ok {
			return
		}

		var body moveBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := parseQuantity(body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Move(r.Context(), inventory.MoveInput{
			ItemID:   body.ItemID.Int64(),
			From:     lenientLocation(body.FromLocation),
			To:       lenientLocation(body.ToLocation),
			Quantity: quantity,
			Actor:    actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Item moved successfully", types.Fields{"move": result})
	}
}
