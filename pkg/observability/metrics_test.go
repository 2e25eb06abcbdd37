package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRegistryPipelineMetrics(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnFilterComplete(ctx, 10, 4, 2*time.Millisecond)
	r.OnLayoutComplete(ctx, 4, 3, 1, time.Millisecond, nil)
	r.OnLayoutComplete(ctx, 0, 0, 0, time.Millisecond, errors.New("boom"))
	r.OnRenderComplete(ctx, []string{"svg", "png"}, 10*time.Millisecond, nil)

	if got := testutil.ToFloat64(r.LayoutsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("layouts ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.LayoutsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("layouts error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.SceneNodes); got != 4 {
		t.Errorf("scene nodes = %v, want 4 (failed layout must not overwrite)", got)
	}
	if got := testutil.ToFloat64(r.SceneIsolated); got != 1 {
		t.Errorf("isolated = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.RendersTotal.WithLabelValues("svg,png", "ok")); got != 1 {
		t.Errorf("renders = %v, want 1", got)
	}

	m := &dto.Metric{}
	if err := r.FilterNodesKept.Write(m); err != nil {
		t.Fatal(err)
	}
	if m.GetHistogram().GetSampleCount() != 1 || m.GetHistogram().GetSampleSum() != 4 {
		t.Errorf("kept histogram = %v", m.GetHistogram())
	}
}

func TestRegistryCacheAndInteractionMetrics(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnCacheHit(ctx, "scene")
	r.OnCacheHit(ctx, "scene")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheSet(ctx, "artifact", 512)
	r.OnRebuild("search", 3, 2, time.Millisecond)
	r.OnSelect("node")
	r.OnSelect("node")
	r.OnSelect("none")

	counter, err := r.CacheHitsTotal.GetMetricWithLabelValues("scene")
	if err != nil {
		t.Fatal(err)
	}
	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatal(err)
	}
	if m.GetCounter().GetValue() != 2 {
		t.Errorf("hits = %v, want 2", m.GetCounter().GetValue())
	}

	if got := testutil.ToFloat64(r.CacheWriteBytes.WithLabelValues("artifact")); got != 512 {
		t.Errorf("bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(r.RebuildsTotal.WithLabelValues("search")); got != 1 {
		t.Errorf("rebuilds = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.SelectionsTotal.WithLabelValues("node")); got != 2 {
		t.Errorf("node selections = %v, want 2", got)
	}
}

func TestRegistryWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.OnSelect("edge")

	path := filepath.Join(t.TempDir(), "kgviz.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `kgviz_selections_total{kind="edge"} 1`) {
		t.Errorf("textfile missing selection counter:\n%s", data)
	}
}

func TestRegistryGatherer(t *testing.T) {
	r := NewRegistry()
	r.OnCacheMiss(context.Background(), "scene")

	n, err := testutil.GatherAndCount(r.Gatherer(), "kgviz_cache_misses_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("series = %d, want 1", n)
	}
}
