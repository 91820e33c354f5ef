package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	CriteriaFailures prometheus.Counter
	DecisionFailures prometheus.Counter

	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	Registry            *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on the given
// registry.
func NewMetrics(p *prometheus.Registry) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repricing_runs_total",
			Help: "Repricing runs by terminal status",
		}, []string{"status"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "repricing_stage_duration_seconds",
				Help:    "Duration of each repricing stage",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		CriteriaFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repricing_criteria_failures_total",
			Help: "Criteria evaluations that returned an error",
		}),
		DecisionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repricing_decision_failures_total",
			Help: "Decision executions that returned an error",
		}),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		Registry: p,
	}

	p.MustRegister(
		m.RunsTotal,
		m.StageDuration,
		m.CriteriaFailures,
		m.DecisionFailures,
		m.HTTPRequestDuration,
		m.HTTPRequestsTotal,
	)

	return m
}

func (m *Metrics) IncRun(status string) { m.RunsTotal.WithLabelValues(status).Inc() }

func (m *Metrics) ObserveStageDuration(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) IncCriteriaFailure() { m.CriteriaFailures.Inc() }
func (m *Metrics) IncDecisionFailure() { m.DecisionFailures.Inc() }

func (m *Metrics) ObserveHTTPRequestDuration(method, path, status string, seconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

func (m *Metrics) IncHTTPRequestsTotal(method, path, status string) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
