package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// MovementMetrics records stock transfers between locations.
type MovementMetrics struct {
	moves    *prometheus.CounterVec
	units    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMovementMetrics registers the movement metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewMovementMetrics(reg prometheus.Registerer) *MovementMetrics {
	if reg == nil {
		return &MovementMetrics{}
	}
	moves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_moves_total",
		Help: "Inventory move attempts by outcome.",
	}, []string{"from", "to", "outcome"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_moved_units_total",
		Help: "Units transferred by completed moves.",
	}, []string{"from", "to"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_move_duration_seconds",
		Help:    "Duration of the move transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(moves, units, duration)
	return &MovementMetrics{moves: moves, units: units, duration: duration}
}

// ObserveMove records one attempt. outcome is "ok" for committed moves and an
// error code otherwise; units are only counted for committed moves. Unknown
// locations share the "invalid" label.
func (m *MovementMetrics) ObserveMove(from, to enums.Location, outcome string, quantity int, took time.Duration) {
	if m == nil || m.moves == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	fromLabel, toLabel := locationLabel(from), locationLabel(to)
	m.moves.WithLabelValues(fromLabel, toLabel, outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(took.Seconds())
	if outcome == OutcomeOK && quantity > 0 {
		m.units.WithLabelValues(fromLabel, toLabel).Add(float64(quantity))
	}
}

const (
	// OutcomeOK labels committed moves.
	OutcomeOK = "ok"

	invalidLocationLabel = "invalid"
)

func locationLabel(loc enums.Location) string {
	if !loc.IsValid() {
		return invalidLocationLabel
	}
	return string(loc)
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
