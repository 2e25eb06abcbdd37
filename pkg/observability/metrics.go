package observability

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is a Prometheus-backed implementation of every hook interface.
type Registry struct {
	registry *prometheus.Registry

	FilterDuration  prometheus.Histogram
	FilterNodesKept prometheus.Histogram
	FilterNodesIn   prometheus.Histogram

	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration prometheus.Histogram
	SceneNodes     prometheus.Gauge
	SceneEdges     prometheus.Gauge
	SceneIsolated  prometheus.Gauge

	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheWriteBytes  *prometheus.CounterVec

	RebuildsTotal   *prometheus.CounterVec
	RebuildDuration prometheus.Histogram
	SelectionsTotal *prometheus.CounterVec
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initInteractionMetrics()
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes all metrics in the text exposition format, for the
// node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func (r *Registry) initPipelineMetrics() {
	r.FilterDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgviz_filter_duration_seconds",
			Help:    "Time spent filtering graph data",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
	r.FilterNodesIn = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgviz_filter_nodes_in",
			Help:    "Nodes entering the filter",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
	r.FilterNodesKept = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgviz_filter_nodes_kept",
			Help:    "Nodes surviving the filter",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgviz_layouts_total",
			Help: "Layouts computed, by status",
		},
		[]string{"status"},
	)
	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgviz_layout_duration_seconds",
			Help:    "Time spent computing layouts",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
	r.SceneNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{Name: "kgviz_scene_nodes", Help: "Nodes in the last scene"},
	)
	r.SceneEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{Name: "kgviz_scene_edges", Help: "Edges in the last scene"},
	)
	r.SceneIsolated = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{Name: "kgviz_scene_isolated_nodes", Help: "Isolated nodes in the last scene"},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgviz_renders_total",
			Help: "Render runs, by format set and status",
		},
		[]string{"formats", "status"},
	)
	r.RenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kgviz_render_duration_seconds",
			Help:    "Time spent rendering artifacts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"formats"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{Name: "kgviz_cache_hits_total", Help: "Cache hits by key type"},
		[]string{"key_type"},
	)
	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{Name: "kgviz_cache_misses_total", Help: "Cache misses by key type"},
		[]string{"key_type"},
	)
	r.CacheWriteBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{Name: "kgviz_cache_write_bytes_total", Help: "Bytes written to the cache by key type"},
		[]string{"key_type"},
	)
}

func (r *Registry) initInteractionMetrics() {
	r.RebuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{Name: "kgviz_rebuilds_total", Help: "Scene rebuilds by trigger"},
		[]string{"trigger"},
	)
	r.RebuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgviz_rebuild_duration_seconds",
			Help:    "Time spent rebuilding scenes",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
	r.SelectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{Name: "kgviz_selections_total", Help: "Selections by kind"},
		[]string{"kind"},
	)
}

// =============================================================================
// Hook implementations
// =============================================================================

func (r *Registry) OnFilterComplete(_ context.Context, nodesIn, nodesOut int, d time.Duration) {
	r.FilterDuration.Observe(d.Seconds())
	r.FilterNodesIn.Observe(float64(nodesIn))
	r.FilterNodesKept.Observe(float64(nodesOut))
}

func (r *Registry) OnLayoutStart(context.Context, int) {}

func (r *Registry) OnLayoutComplete(_ context.Context, nodes, edges, isolated int, d time.Duration, err error) {
	r.LayoutsTotal.WithLabelValues(status(err)).Inc()
	r.LayoutDuration.Observe(d.Seconds())
	if err == nil {
		r.SceneNodes.Set(float64(nodes))
		r.SceneEdges.Set(float64(edges))
		r.SceneIsolated.Set(float64(isolated))
	}
}

func (r *Registry) OnRenderStart(context.Context, []string) {}

func (r *Registry) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	f := strings.Join(formats, ",")
	r.RendersTotal.WithLabelValues(f, status(err)).Inc()
	r.RenderDuration.WithLabelValues(f).Observe(d.Seconds())
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWriteBytes.WithLabelValues(keyType).Add(float64(size))
}

func (r *Registry) OnRebuild(trigger string, _, _ int, d time.Duration) {
	r.RebuildsTotal.WithLabelValues(trigger).Inc()
	r.RebuildDuration.Observe(d.Seconds())
}

func (r *Registry) OnSelect(kind string) {
	r.SelectionsTotal.WithLabelValues(kind).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks    = (*Registry)(nil)
	_ CacheHooks       = (*Registry)(nil)
	_ InteractionHooks = (*Registry)(nil)
)
