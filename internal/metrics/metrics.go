// Package metrics holds the Prometheus collectors for recipe queries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records recipe query outcomes.
type Recorder struct {
	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_queries_total",
			Help: "Recipe queries by backend and result status.",
		}, []string{"backend", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipe_query_duration_seconds",
			Help:    "Latency of recipe queries by backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend"}),
	}
	if reg != nil {
		reg.MustRegister(r.queries, r.duration)
	}
	return r
}

// Observe records one query. A nil Recorder is a no-op.
func (r *Recorder) Observe(backend, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.queries.WithLabelValues(backend, status).Inc()
	r.duration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// Queries exposes the counter for tests.
func (r *Recorder) Queries() *prometheus.CounterVec {
	return r.queries
}
