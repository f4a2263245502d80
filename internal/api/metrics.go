package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricSimulationsTotal  = "induction_simulations_total"
	MetricRankDuration      = "induction_rank_duration_seconds"
	MetricHTTPRequestsTotal = "induction_http_requests_total"
)

// Simulation outcomes for labeling.
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
)

// Metrics contains Prometheus metrics for the planner API.
// All operations are thread-safe.
type Metrics struct {
	simulations  *prometheus.CounterVec
	rankDuration prometheus.Histogram
	httpRequests *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		simulations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSimulationsTotal,
				Help: "Total number of what-if simulations by scenario kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		rankDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricRankDuration,
				Help:    "Histogram of plan ranking duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncSimulations counts one simulation.
// kind: the scenario kind as requested
// outcome: OutcomeApplied, OutcomeNoop or OutcomeRejected
func (m *Metrics) IncSimulations(kind, outcome string) {
	m.simulations.WithLabelValues(kind, outcome).Inc()
}

// ObserveRankDuration records how long building a plan took.
func (m *Metrics) ObserveRankDuration(seconds float64) {
	m.rankDuration.Observe(seconds)
}

// IncHTTPRequests counts one served request.
func (m *Metrics) IncHTTPRequests(route, code string) {
	m.httpRequests.WithLabelValues(route, code).Inc()
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.simulations,
		m.rankDuration,
		m.httpRequests,
	}
}
