package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ProviderAttempts   *prometheus.CounterVec
	ProviderFallbacks  prometheus.Counter
	Decisions          *prometheus.CounterVec
	CallbackDeliveries *prometheus.CounterVec
	AnalyzeDuration    prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ProviderAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_attempts_total",
			Help:      "Judgment provider attempts by outcome.",
		}, []string{"outcome"}),
		ProviderFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fallbacks_total",
			Help:      "Analyses that fell back to deterministic extraction only.",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Analysis decisions by scam determination.",
		}, []string{"scam"}),
		CallbackDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callback_deliveries_total",
			Help:      "Final-result callback deliveries by outcome.",
		}, []string{"outcome"}),
		AnalyzeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "End-to-end analysis latency per incoming turn.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 45},
		}),
	}
}

func (m *Metrics) ObserveAnalyzeDuration(d time.Duration) {
	m.AnalyzeDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordDecision(scam bool) {
	m.Decisions.WithLabelValues(strconv.FormatBool(scam)).Inc()
}

func (m *Metrics) RecordCallback(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.CallbackDeliveries.WithLabelValues(outcome).Inc()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
