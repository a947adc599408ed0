// Package metrics exposes Prometheus collectors for quiz sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the session collectors.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted   prometheus.Counter
	SessionsCompleted *prometheus.CounterVec
	SessionsActive    prometheus.Gauge
	AnswersRecorded   prometheus.Counter
	AnsweredRatio     prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "sessions_started_total",
			Help:      "Quiz sessions that reached the running state.",
		}),
		SessionsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "sessions_completed_total",
			Help:      "Finished quiz sessions by end reason.",
		}, []string{"reason"}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "quiz",
			Name:      "sessions_active",
			Help:      "Quiz sessions currently open.",
		}),
		AnswersRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "answers_recorded_total",
			Help:      "Answer submissions that stored at least one value.",
		}),
		AnsweredRatio: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quiz",
			Name:      "answered_ratio",
			Help:      "Share of questions answered when a session ends.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
