package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

// PathID parses a positive integer URL parameter.
func PathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

// PathLocation parses a location URL parameter. Matching is case-insensitive.
func PathLocation(r *http.Request, key string) (enums.Location, error) {
	raw := chi.URLParam(r, key)
	loc, err := enums.ParseLocation(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown location").WithDetails(map[string]any{"field": key, "value": raw})
	}
	return loc, nil
}
