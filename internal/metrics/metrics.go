// Package metrics records resolver and render statistics in a Prometheus
// registry. The CLI is short-lived, so instead of serving /metrics it dumps
// the registry in the node-exporter textfile format after a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the application
type Registry struct {
	// Resolver Metrics
	ResolveDuration   prometheus.Histogram
	ResolvesTotal     *prometheus.CounterVec
	MarkersTotal      prometheus.Counter
	UnresolvedMarkers prometheus.Gauge
	ResolvePasses     *prometheus.CounterVec

	// Render Metrics
	RendersTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	SVGBytes       prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initResolveMetrics()
	r.initRenderMetrics()
	return r
}

func (r *Registry) initResolveMetrics() {
	f := promauto.With(r.registry)

	r.ResolveDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketmap_resolve_duration_seconds",
		Help:    "Marker layout resolution duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	r.ResolvesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "marketmap_resolves_total",
		Help: "Resolutions by the deepest phase that had to run",
	}, []string{"phase"})

	r.MarkersTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "marketmap_markers_total",
		Help: "Markers passed to the resolver",
	})

	r.UnresolvedMarkers = f.NewGauge(prometheus.GaugeOpts{
		Name: "marketmap_unresolved_markers",
		Help: "Markers left overlapping by the most recent resolution",
	})

	r.ResolvePasses = f.NewCounterVec(prometheus.CounterOpts{
		Name: "marketmap_resolve_passes_total",
		Help: "Passes executed per resolution phase",
	}, []string{"phase"})
}

func (r *Registry) initRenderMetrics() {
	f := promauto.With(r.registry)

	r.RendersTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "marketmap_renders_total",
		Help: "Map renders by outcome",
	}, []string{"status"})

	r.RenderDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketmap_render_duration_seconds",
		Help:    "End-to-end map build duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	r.SVGBytes = f.NewGauge(prometheus.GaugeOpts{
		Name: "marketmap_svg_bytes",
		Help: "Size of the most recently rendered SVG",
	})
}

// ResolveStats is the subset of a resolution the registry records.
type ResolveStats struct {
	Markers         int
	Unresolved      int
	LastPhase       string
	ForcePasses     int
	DirectionPasses int
	SlackPasses     int
	FallbackPasses  int
}

// RecordResolve records one resolver call.
func (r *Registry) RecordResolve(s ResolveStats, duration time.Duration) {
	r.ResolveDuration.Observe(duration.Seconds())
	r.ResolvesTotal.WithLabelValues(s.LastPhase).Inc()
	r.MarkersTotal.Add(float64(s.Markers))
	r.UnresolvedMarkers.Set(float64(s.Unresolved))
	r.ResolvePasses.WithLabelValues("force").Add(float64(s.ForcePasses))
	r.ResolvePasses.WithLabelValues("direction").Add(float64(s.DirectionPasses))
	r.ResolvePasses.WithLabelValues("slack").Add(float64(s.SlackPasses))
	r.ResolvePasses.WithLabelValues("fallback").Add(float64(s.FallbackPasses))
}

// RecordRender records one map build. A nil err counts as success.
func (r *Registry) RecordRender(bytes int, duration time.Duration, err error) {
	if err != nil {
		r.RendersTotal.WithLabelValues("error").Inc()
		return
	}
	r.RendersTotal.WithLabelValues("success").Inc()
	r.RenderDuration.Observe(duration.Seconds())
	r.SVGBytes.Set(float64(bytes))
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format,
// atomically, for the node exporter's textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("error writing metrics file: %w", err)
	}
	return nil
}
