// Package observability provides the Prometheus metrics surface for the
// daily goals backend.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors the service layer reports into.
type Metrics struct {
	registry *prometheus.Registry

	SetterExecutions    *prometheus.CounterVec
	SetterFailures      *prometheus.CounterVec
	PersistenceWrites   prometheus.Counter
	PersistenceSkips    prometheus.Counter
	PersistenceFailures prometheus.Counter
	StreamSessions      prometheus.Counter
	StreamErrors        prometheus.Counter
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SetterExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dailygoals_setter_executions_total",
			Help: "Setter executions by setter key.",
		}, []string{"setter"}),
		SetterFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dailygoals_setter_failures_total",
			Help: "Setter executions rejected by argument validation.",
		}, []string{"setter"}),
		PersistenceWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "dailygoals_persistence_writes_total",
			Help: "Rows written to the row store.",
		}),
		PersistenceSkips: factory.NewCounter(prometheus.CounterOpts{
			Name: "dailygoals_persistence_skips_total",
			Help: "Writes skipped because the stored row was identical.",
		}),
		PersistenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "dailygoals_persistence_failures_total",
			Help: "Best-effort writes that failed and were logged.",
		}),
		StreamSessions: factory.NewCounter(prometheus.CounterOpts{
			Name: "dailygoals_stream_sessions_total",
			Help: "Streaming sessions opened.",
		}),
		StreamErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "dailygoals_stream_errors_total",
			Help: "Streaming sessions terminated by an error event.",
		}),
	}
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
