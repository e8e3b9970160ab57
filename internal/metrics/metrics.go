// Package metrics exposes Prometheus instruments for the interaction core.
//
// Every Metrics value owns a private registry, so several editors (or
// several tests) can run in one process without colliding on names.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/geodraw/internal/event/topic"
)

const namespace = "geodraw"

// Metrics holds the collectors published by the editor.
type Metrics struct {
	registry *prometheus.Registry

	EventsDispatched *prometheus.CounterVec
	ModeTransitions  *prometheus.CounterVec
	Notifications    *prometheus.CounterVec
	RenderPasses     prometheus.Counter
	RenderDuration   prometheus.Histogram
	ModeErrors       *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Input events delivered to the active mode, by event type",
		}, []string{"type"}),
		ModeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_transitions_total",
			Help:      "Mode changes, by target mode",
		}, []string{"mode"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications published on the event bus, by topic",
		}, []string{"topic"}),
		RenderPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_passes_total",
			Help:      "Render passes run after dispatched events",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_ms",
			Help:      "Render pass duration in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 50, 100},
		}),
		ModeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_errors_total",
			Help:      "Errors returned by mode hooks, by mode",
		}, []string{"mode"}),
	}
	m.registry.MustRegister(
		m.EventsDispatched,
		m.ModeTransitions,
		m.Notifications,
		m.RenderPasses,
		m.RenderDuration,
		m.ModeErrors,
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveEvent counts one dispatched input event.
func (m *Metrics) ObserveEvent(kind string) {
	if m == nil {
		return
	}
	m.EventsDispatched.WithLabelValues(kind).Inc()
}

// ObserveTransition counts one mode change.
func (m *Metrics) ObserveTransition(mode string) {
	if m == nil {
		return
	}
	m.ModeTransitions.WithLabelValues(mode).Inc()
}

// ObserveModeError counts one failed mode hook.
func (m *Metrics) ObserveModeError(mode string) {
	if m == nil {
		return
	}
	m.ModeErrors.WithLabelValues(mode).Inc()
}

// ObserveTopic counts one published notification. It matches the bus
// observer signature.
func (m *Metrics) ObserveTopic(t topic.Topic) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(t.String()).Inc()
}

// ObserveRender records a render pass that started at start.
func (m *Metrics) ObserveRender(start time.Time) {
	if m == nil {
		return
	}
	m.RenderPasses.Inc()
	m.RenderDuration.Observe(float64(time.Since(start)) / float64(time.Millisecond))
}
