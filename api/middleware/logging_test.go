package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/stockroom-backend/pkg/logger"
)

func TestLoggingWritesCompletionEntry(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	r := chi.NewRouter()
	r.Use(Logging(logg))
	r.Get("/api/inventory/{location}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("abc"))
	})
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/inventory/Display", nil))
	entry := buf.String()
	for _, want := range []string{`"request.complete"`, `"status":201`, `"bytes":3`, `"route":"/api/inventory/{location}"`, `"path":"/api/inventory/Display"`} {
		if !strings.Contains(entry, want) {
			t.Fatalf("expected %s in entry=%s", want, entry)
		}
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if buf.Len() != 0 {
		t.Fatalf("health check requests must stay below info level, got %s", buf.String())
	}
}
