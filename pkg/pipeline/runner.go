package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgviz/pkg/cache"
	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/observability"
)

// Runner encapsulates pipeline execution with artifact caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete filter → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, data graph.Data, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.NodesIn = data.NodeCount()
	result.Stats.EdgesIn = data.EdgeCount()

	// Stage 1+2: Filter and layout
	scene, err := r.Layout(ctx, data, opts, &result.Stats)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.SceneHash = SceneHash(scene)

	nodes, edges, isolated := scene.Counts()
	result.Stats.Isolated = isolated
	r.Logger.Info("computed layout",
		"nodes", nodes,
		"edges", edges,
		"isolated", isolated,
		"dropped_nodes", result.Stats.Filter.DroppedNodes,
		"duration", result.Stats.FilterTime+result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, scene, result.SceneHash, data, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo = info

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(info.Cached),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout filters and lays out data, reporting timings into stats when it
// is non-nil.
func (r *Runner) Layout(ctx context.Context, data graph.Data, opts Options, stats *Stats) (*layout.Scene, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnLayoutStart(ctx, data.NodeCount())
	scene, fst, err := ComputeScene(data, opts)
	elapsed := time.Since(start)

	hooks.OnFilterComplete(ctx, data.NodeCount(), fst.Nodes, elapsed)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, 0, elapsed, err)
		return nil, err
	}
	nodes, edges, isolated := scene.Counts()
	hooks.OnLayoutComplete(ctx, nodes, edges, isolated, elapsed, nil)

	if stats != nil {
		stats.Filter = fst
		stats.FilterTime = elapsed
	}
	return scene, nil
}

// RenderWithCacheInfo renders the requested formats, serving what it can
// from the cache and storing what it renders.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scene *layout.Scene, sceneHash string, data graph.Data, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, info, err
	}
	if sceneHash == "" {
		sceneHash = SceneHash(scene)
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !Cacheable(format) || opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if b, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, cache.KeyTypeArtifact)
			artifacts[format] = b
			info.Cached = append(info.Cached, format)
			continue
		} else if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		hooks.OnCacheMiss(ctx, cache.KeyTypeArtifact)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		info.RenderHit = true
		return artifacts, info, nil
	}

	pipe := observability.Pipeline()
	start := time.Now()
	pipe.OnRenderStart(ctx, missing)
	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, scene, data.Stats, sub)
	pipe.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, info, err
	}

	for format, b := range rendered {
		artifacts[format] = b
		if !Cacheable(format) {
			continue
		}
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, b, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, cache.KeyTypeArtifact, len(b))
	}
	return artifacts, info, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
