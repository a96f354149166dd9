package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/stockroom-backend/pkg/metrics"
)

// Metrics records request count and latency labelled by the matched chi route.
// Unmatched requests are grouped under "unmatched" to bound label cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if hasRoutePattern(r) {
				route = routePattern(r)
			}
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			m.Observe(r.Method, route, rec.status, time.Since(start))
		})
	}
}
