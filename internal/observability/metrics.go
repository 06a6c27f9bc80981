package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts submission attempts by outcome. The outcome is
	// either "accepted" or the validation code that rejected it.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mystery_meet_submissions_total",
		Help: "Total submission attempts by outcome",
	}, []string{"outcome"})

	// ModerationDecisions counts moderator actions by type.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mystery_meet_moderation_decisions_total",
		Help: "Total moderation decisions by action",
	}, []string{"action"})

	// ReportsTotal counts report increments.
	ReportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mystery_meet_reports_total",
		Help: "Total post reports recorded",
	})

	// WatchSubscribers is the gauge of live snapshot subscribers per stream.
	WatchSubscribers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mystery_meet_watch_subscribers",
		Help: "Number of live snapshot subscribers per stream",
	}, []string{"stream"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mystery_meet_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// DatabaseMetrics records query latency for the repository layer.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
