package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/stockroom-backend/api/responses"
	"github.com/angelmondragon/stockroom-backend/api/validators"
	"github.com/angelmondragon/stockroom-backend/internal/policy"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

const movePath = "/api/inventory/move"

func moveRequest(body, key string, employeeID int64) *http.Request {
	req := httptest.NewRequest(http.MethodPost, movePath, strings.NewReader(body))
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{movePath}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = WithActor(ctx, policy.Actor{EmployeeID: employeeID, Role: enums.RoleAdmin})
	req = req.WithContext(ctx)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req
}

func TestIdempotencyMiddlewareWithoutHeaderPassesThrough(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, moveRequest(`{"item_id":1}`, "", 1))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, got %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"item_id":1}` {
			t.Fatalf("body not restored: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, moveRequest(`{"item_id":1}`, "abc", 1))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected first response 200 got %d", resp.Code)
	}

	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, moveRequest(`{"item_id":1}`, "abc", 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected replay status 200 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
	if rec.Header().Get(replayHeader) != "true" {
		t.Fatalf("expected replay marker header")
	}

	// same key from another employee is a separate scope
	other := httptest.NewRecorder()
	mw(handler).ServeHTTP(other, moveRequest(`{"item_id":1}`, "abc", 2))
	if calls != 2 {
		t.Fatalf("expected a fresh execution for another employee, got %d calls", calls)
	}
}

func TestIdempotencyMiddlewareReleasesKeyOnServerError(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), moveRequest(`{}`, "k1", 1))
	if len(store.data) != 0 {
		t.Fatalf("5xx responses must not be stored")
	}
	handler.ServeHTTP(httptest.NewRecorder(), moveRequest(`{}`, "k1", 1))
	if calls != 2 {
		t.Fatalf("expected retry to run the handler again, got %d calls", calls)
	}
}

func TestIdempotencyMiddlewareRejectsInFlightDuplicate(t *testing.T) {
	store := newFakeStore()
	body := `{"item_id":1}`
	req := moveRequest(body, "busy", 1)
	claim, _ := json.Marshal(idempotencyRecord{RequestHash: hashBody([]byte(body))})
	store.data[store.IdempotencyKey(idempotencyScope(req), "busy")] = string(claim)

	var calls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "still in progress") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if calls != 0 {
		t.Fatalf("handler must not run for an in-flight duplicate")
	}
}

func TestIdempotencyMiddlewareRejectsLongKey(t *testing.T) {
	handler := Idempotency(newFakeStore(), time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, moveRequest(`{}`, strings.Repeat("k", 256), 1))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestIdempotencyWithoutStorePassesThrough(t *testing.T) {
	handler := Idempotency(nil, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, moveRequest(`{}`, "k", 1))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected pass-through, got %d", resp.Code)
	}
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw(handler).ServeHTTP(httptest.NewRecorder(), moveRequest(`{"quantity":1}`, "xyz", 1))

	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, moveRequest(`{"quantity":2}`, "xyz", 1))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Code)
	}
}

func TestIdempotencyMiddlewareReleasesKeyOnConcurrentUpdate(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	var calls int
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeConcurrentUpdate, "inventory changed concurrently, retry the request"))
			return
		}
		responses.WriteJSON(w, map[string]any{"success": true})
	}))

	body := `{"item_id":1,"quantity":2}`
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, moveRequest(body, "race", 1))
	if first.Code != http.StatusConflict {
		t.Fatalf("expected first response 409 got %d", first.Code)
	}
	if len(store.data) != 0 {
		t.Fatalf("retryable conflicts must release the key")
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, moveRequest(body, "race", 1))
	if second.Code != http.StatusOK {
		t.Fatalf("expected retry to succeed, got %d", second.Code)
	}
	if second.Header().Get(replayHeader) != "" {
		t.Fatalf("retry must not be a replay")
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, got %d", calls)
	}
}

func TestIdempotencyMiddlewareStoresNonRetryableErrors(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeInsufficientQuantity, "Insufficient quantity"))
	}))

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, moveRequest(`{"item_id":1}`, "short", 1))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", resp.Code)
		}
	}
	if calls != 1 {
		t.Fatalf("expected the stored error to be replayed, got %d calls", calls)
	}
}

func TestIdempotencyMiddlewareRejectsOversizedBody(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	body := `{"item_name":"` + strings.Repeat("x", int(validators.MaxBodyBytes)) + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, moveRequest(body, "big", 1))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if calls != 0 || len(store.data) != 0 {
		t.Fatalf("oversized bodies must be rejected before claiming the key")
	}
}
