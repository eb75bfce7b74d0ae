// Package metric provides Prometheus instrumentation for fetchkit's retry
// and pagination layers.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all fetchkit instrumentation. Construct one per process
// (or per test) with New and attach it to a registry with Register; there
// is no package-level singleton, so tests never share collector state.
type Metrics struct {
	// Retry engine metrics
	RetryAttempts  *prometheus.CounterVec   // by path
	RetryExhausted *prometheus.CounterVec   // by path and code
	BackoffSeconds *prometheus.HistogramVec // by path

	// Pager metrics
	PagesFetched    *prometheus.CounterVec // by resource and direction
	PagerRecoveries *prometheus.CounterVec // by resource and code
	PagerNoOps      *prometheus.CounterVec // by resource and direction
}

// New creates a Metrics instance with all fetchkit collectors.
func New() *Metrics {
	return &Metrics{
		RetryAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fetchkit",
				Subsystem: "retry",
				Name:      "attempts_total",
				Help:      "Total number of retry attempts (excluding the initial try)",
			},
			[]string{"path"},
		),

		RetryExhausted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fetchkit",
				Subsystem: "retry",
				Name:      "exhausted_total",
				Help:      "Operations that failed after exhausting their retry budget",
			},
			[]string{"path", "code"},
		),

		BackoffSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fetchkit",
				Subsystem: "retry",
				Name:      "backoff_seconds",
				Help:      "Backoff delay inserted before retry attempts",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
			},
			[]string{"path"},
		),

		PagesFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fetchkit",
				Subsystem: "pager",
				Name:      "pages_fetched_total",
				Help:      "Total number of pages fetched",
			},
			[]string{"resource", "direction"},
		),

		PagerRecoveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fetchkit",
				Subsystem: "pager",
				Name:      "recoveries_total",
				Help:      "Pager recoveries by error code (invalid-cursor, out-of-bounds, general-error)",
			},
			[]string{"resource", "code"},
		),

		PagerNoOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fetchkit",
				Subsystem: "pager",
				Name:      "noops_total",
				Help:      "Navigation requests answered without a remote call",
			},
			[]string{"resource", "direction"},
		),
	}
}

// Register attaches all collectors to the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RetryAttempts,
		m.RetryExhausted,
		m.BackoffSeconds,
		m.PagesFetched,
		m.PagerRecoveries,
		m.PagerNoOps,
	}
}

// ObserveRetry records one retry attempt and the backoff delay that
// preceded it. Nil receivers are no-ops so instrumentation stays optional.
func (m *Metrics) ObserveRetry(path string, delay time.Duration) {
	if m == nil {
		return
	}
	m.RetryAttempts.WithLabelValues(path).Inc()
	m.BackoffSeconds.WithLabelValues(path).Observe(delay.Seconds())
}

// ObserveExhausted records a retry sequence that gave up with the given code.
func (m *Metrics) ObserveExhausted(path, code string) {
	if m == nil {
		return
	}
	m.RetryExhausted.WithLabelValues(path, code).Inc()
}

// ObservePage records one fetched page.
func (m *Metrics) ObservePage(resource, direction string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(resource, direction).Inc()
}

// ObserveRecovery records a pager recovery by error code.
func (m *Metrics) ObserveRecovery(resource, code string) {
	if m == nil {
		return
	}
	m.PagerRecoveries.WithLabelValues(resource, code).Inc()
}

// ObserveNoOp records a navigation request answered without a remote call.
func (m *Metrics) ObserveNoOp(resource, direction string) {
	if m == nil {
		return
	}
	m.PagerNoOps.WithLabelValues(resource, direction).Inc()
}
