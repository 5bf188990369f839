package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contact_requests"

// Metrics are the counters exported by the service. Every instance has its own registry.
type Metrics struct {
	registry *prometheus.Registry

	Submitted     *prometheus.CounterVec
	Rejected      *prometheus.CounterVec
	StatusChanges *prometheus.CounterVec
	Deleted       prometheus.Counter
}

// New creates and registers all collectors, including the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submitted_total",
			Help:      "Number of accepted contact requests by source.",
		}, []string{"source"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_total",
			Help:      "Number of rejected submissions by reason.",
		}, []string{"reason"}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Number of contact requests moved to a status.",
		}, []string{"status"}),
		Deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deleted_total",
			Help:      "Number of deleted contact requests.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Submitted,
		m.Rejected,
		m.StatusChanges,
		m.Deleted,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
