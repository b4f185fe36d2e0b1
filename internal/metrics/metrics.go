// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fittrack"

type Instrumentation struct {
	registry *prometheus.Registry

	// counters
	CounterRequests        *prometheus.CounterVec
	CounterWorkoutsCreated prometheus.Counter
	CounterImportedSets    prometheus.Counter

	// gauges
	GaugeActiveSessions prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

// New registers all collectors, plus the Go runtime and process collectors,
// on a fresh registry.
func New() *Instrumentation {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newWithRegistry(reg)
}

// NewTest returns instrumentation on a bare registry for tests.
func NewTest() *Instrumentation {
	return newWithRegistry(prometheus.NewRegistry())
}

func newWithRegistry(reg *prometheus.Registry) *Instrumentation {
	factory := promauto.With(reg)

	return &Instrumentation{
		registry: reg,
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "status"}),
		CounterWorkoutsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workouts_created_total",
			Help:      "Number of workouts stored",
		}),
		CounterImportedSets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_sets_total",
			Help:      "Number of working sets imported from Alpha Progression exports",
		}),
		GaugeActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timer_sessions_active",
			Help:      "Number of live workout timer sessions",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
	}
}

// Registry exposes the underlying registry.
func (i *Instrumentation) Registry() *prometheus.Registry {
	return i.registry
}

// Handler serves the registry in the Prometheus text format.
func (i *Instrumentation) Handler() http.Handler {
	return promhttp.HandlerFor(i.registry, promhttp.HandlerOpts{})
}
