package shindo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors a Client reports to. A nil *Metrics
// records nothing.
type Metrics struct {
	requests       *prometheus.CounterVec   // labels: operation, outcome
	requestSeconds *prometheus.HistogramVec // labels: operation
	tableFetches   *prometheus.CounterVec   // labels: table, outcome
	results        *prometheus.HistogramVec // labels: operation
}

// NewMetrics registers the client collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shindo",
			Name:      "requests_total",
			Help:      "API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		requestSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shindo",
			Name:      "request_duration_seconds",
			Help:      "API round-trip time in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		tableFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shindo",
			Name:      "code_table_fetches_total",
			Help:      "Static code table downloads by table and outcome.",
		}, []string{"table", "outcome"}),
		results: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shindo",
			Name:      "results",
			Help:      "Rows returned per search.",
			Buckets:   []float64{0, 1, 10, 50, 100, 250, 500, 1000},
		}, []string{"operation"}),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsBadRequest(err):
		return "rejected"
	}
	return "error"
}

func (m *Metrics) observeRequest(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, outcome(err)).Inc()
	m.requestSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeResults(op string, n int) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(op).Observe(float64(n))
}

func (m *Metrics) observeTable(table string, err error) {
	if m == nil {
		return
	}
	m.tableFetches.WithLabelValues(table, outcome(err)).Inc()
}
