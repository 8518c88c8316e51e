package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/probe/pkg/domain"
)

// Metrics holds the collectors of a probe process on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	failures prometheus.Counter
	duration prometheus.Histogram
	records  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of finished runs by outcome.",
		}, []string{"outcome"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Total number of failures recorded by finished runs.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_records_total",
			Help:      "Total number of log records emitted by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.runs, m.failures, m.duration, m.records)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks recording run outcomes and durations.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			outcome := "passed"
			if e.Faulted() {
				outcome = "failed"
			}
			m.runs.WithLabelValues(outcome).Inc()
			m.failures.Add(float64(len(e.Errors)))
			m.duration.Observe(e.Duration.Seconds())
		},
	}
}

// Sink wraps next, counting every record before forwarding it.
func (m *Metrics) Sink(next domain.LogSink) domain.LogSink {
	return domain.LogSinkFunc(func(rec domain.LogRecord) {
		m.records.WithLabelValues(string(rec.Kind)).Inc()
		if next != nil {
			next.Accept(rec)
		}
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
