package validation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes recorded by Metrics.
const (
	outcomePassed   = "passed"
	outcomeFailed   = "failed"
	outcomeFault    = "fault"
	outcomeCanceled = "canceled"
)

// Async rule actions recorded by Metrics.
const (
	asyncAwaited  = "awaited"
	asyncIgnored  = "ignored"
	asyncBlocked  = "blocked"
	asyncRejected = "rejected"
)

// Metrics provides observability for parameter-set validation. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	// Runs counts ValidateAll calls by outcome: passed, failed, fault, canceled.
	Runs *prometheus.CounterVec

	// Duration observes ValidateAll latency.
	Duration prometheus.Histogram

	// Failures counts stored failures by parameter name.
	Failures *prometheus.CounterVec

	// AsyncRules counts asynchronous rule handling by action: awaited, ignored, blocked, rejected.
	AsyncRules *prometheus.CounterVec
}

// NewMetrics creates the engine metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "validkit_validation_runs_total",
			Help: "Total parameter-set validation runs by outcome",
		}, []string{"outcome"}),

		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "validkit_validation_duration_seconds",
			Help:    "Duration of parameter-set validation including asynchronous rules",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "validkit_validation_failures_total",
			Help: "Total stored validation failures by parameter",
		}, []string{"parameter"}),

		AsyncRules: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "validkit_async_rules_total",
			Help: "Asynchronous rule evaluations by handling action",
		}, []string{"action"}),
	}
}

func (m *Metrics) observeRun(outcome string, d time.Duration) {
	if m != nil {
		m.Runs.WithLabelValues(outcome).Inc()
		m.Duration.Observe(d.Seconds())
	}
}

func (m *Metrics) addFailures(parameter string, n int) {
	if m != nil && n > 0 {
		m.Failures.WithLabelValues(parameter).Add(float64(n))
	}
}

func (m *Metrics) countAsync(action string) {
	if m != nil {
		m.AsyncRules.WithLabelValues(action).Inc()
	}
}
