package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/stockroom-backend/api/middleware"
	"github.com/angelmondragon/stockroom-backend/api/responses"
	"github.com/angelmondragon/stockroom-backend/api/validators"
	"github.com/angelmondragon/stockroom-backend/internal/employees"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	"github.com/angelmondragon/stockroom-backend/pkg/types"
)

// addEmployeeBody mirrors the legacy form. admin_role is accepted and ignored;
// the caller's role comes from the access token.
type addEmployeeBody struct {
	EmployeeName     string          `json:"employee_name"`
	EmployeeEmail    string          `json:"employee_email"`
	EmployeeRole     string          `json:"employee_role"`
	EmployeePassword string          `json:"employee_password"`
	AdminRole        json.RawMessage `json:"admin_role,omitempty"`
}

// EmployeesList returns the id/name directory used by the login picker.
func EmployeesList(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListSummaries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, list)
	}
}

func EmployeesAll(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListProfiles(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, list)
	}
}

func EmployeeGet(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, profile)
	}
}

func EmployeeAdd(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body addEmployeeBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseRole(body.EmployeeRole)
		if err != nil {
			role = enums.Role(body.EmployeeRole)
		}

		profile, err := svc.Create(r.Context(), actor, employees.CreateEmployeeInput{
			Name:     validators.SanitizeString(body.EmployeeName, 128),
			Email:    body.EmployeeEmail,
			Role:     role,
			Password: body.EmployeePassword,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Employee added successfully", types.Fields{"employee_id": profile.EmployeeID})
	}
}
