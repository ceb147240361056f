package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's prometheus collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	navigations *prometheus.CounterVec
	renders     *prometheus.HistogramVec
	reloads     *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepform_navigations_total",
				Help: "Navigation callbacks handled, by action.",
			},
			[]string{"action"},
		),
		renders: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stepform_render_duration_seconds",
				Help:    "Time spent rendering views, by renderer.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"renderer"},
		),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepform_reloads_total",
				Help: "Form configuration reloads, by result.",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(m.navigations, m.renders, m.reloads)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) navigated(action string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(action).Inc()
}

func (m *Metrics) rendered(renderer string, took time.Duration) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(renderer).Observe(took.Seconds())
}

func (m *Metrics) reloaded(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.reloads.WithLabelValues(result).Inc()
}
