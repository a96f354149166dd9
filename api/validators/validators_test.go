package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer   abc", "abc", true},
		{"abc", "abc", true},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		token, err := BearerToken(req)
		if !tc.ok {
			require.Error(t, err, tc.header)
			assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
			continue
		}
		require.NoError(t, err, tc.header)
		assert.Equal(t, tc.token, token)
	}
}

func TestPathID(t *testing.T) {
	req := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "42")
	id, err := PathID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, err := PathID(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw), "id")
		require.Error(t, err, raw)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestPathLocation(t *testing.T) {
	loc, err := PathLocation(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "location", "storage"), "location")
	require.NoError(t, err)
	assert.Equal(t, enums.LocationStorage, loc)

	_, err = PathLocation(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "location", "Attic"), "location")
	require.Error(t, err)
	assert.Equal(t, "unknown location", pkgerrors.As(err).Message())
}

type sampleBody struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	var ok sampleBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Laptop","quantity":2}`))
	require.NoError(t, DecodeJSONBody(req, &ok))
	assert.Equal(t, "Laptop", ok.Name)

	var unknown sampleBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Laptop","quantity":2,"extra":true}`))
	err := DecodeJSONBody(req, &unknown)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var invalid sampleBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))
	err = DecodeJSONBody(req, &invalid)
	require.Error(t, err)
	details, ok2 := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok2)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be at least 1", details["quantity"])
}

func TestDecodeJSONBodyRejectsEmptyAndTrailing(t *testing.T) {
	var dest sampleBody
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &dest)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())

	err = DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","quantity":1}{"name":"b"}`)), &dest)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc", SanitizeString(" abc ", 0))
	// "é" is two bytes; the cap must not split it
	assert.Equal(t, "caf", SanitizeString("café", 4))
	assert.Equal(t, "café", SanitizeString("café", 5))
}
