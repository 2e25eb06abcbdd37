package render

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
)

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{Scale: 2.5, TX: 40, TY: -10}
	sx, sy := tr.Apply(3, 4)
	if sx != 47.5 || sy != 0 {
		t.Errorf("Apply() = %v, %v", sx, sy)
	}
	x, y := tr.Invert(sx, sy)
	if math.Abs(x-3) > 1e-9 || math.Abs(y-4) > 1e-9 {
		t.Errorf("Invert() = %v, %v, want 3, 4", x, y)
	}
	if x, y := (Transform{}).Apply(5, 6); x != 5 || y != 6 {
		t.Errorf("zero transform should behave as identity, got %v, %v", x, y)
	}
}

func TestViewportZoomClamp(t *testing.T) {
	v := NewViewport(800, 600)
	tests := []struct {
		in, want float64
	}{
		{2, 2},
		{100, MaxZoom},
		{0.01, MinZoom},
		{math.NaN(), MinZoom},
	}
	for _, tt := range tests {
		v.ZoomTo(tt.in, time.Second)
		if got := v.Zoom(); got != tt.want {
			t.Errorf("ZoomTo(%v) -> %v, want %v", tt.in, got, tt.want)
		}
	}
	if v.Transition() != time.Second {
		t.Errorf("Transition() = %v", v.Transition())
	}
}

func TestViewportTransformCentersWorld(t *testing.T) {
	v := NewViewport(800, 600)
	v.CenterOn(100, 50)
	v.ZoomTo(2, 0)
	sx, sy := v.Transform().Apply(100, 50)
	if sx != 400 || sy != 300 {
		t.Errorf("center maps to (%v, %v), want (400, 300)", sx, sy)
	}
	v.Pan(20, 0)
	x, _ := v.Transform().Invert(400, 300)
	if x != 90 {
		t.Errorf("after pan center x = %v, want 90", x)
	}
}

func TestViewportFitToView(t *testing.T) {
	v := NewViewport(800, 600)
	v.FitToView(0)
	if v.Zoom() != 1 {
		t.Errorf("fit without scene: zoom = %v, want 1", v.Zoom())
	}

	s := layout.Build(graph.Data{Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{{ID: "ab", Source: "a", Target: "b"}}}, layout.DefaultConfig())
	s.Node("a").X, s.Node("a").Y = -92, 0
	s.Node("b").X, s.Node("b").Y = 92, 0
	v.Reheat(s)
	v.FitToView(500 * time.Millisecond)

	// Bounds are 200 wide (radius 8 each side); available width 720.
	if got := v.Zoom(); math.Abs(got-3.6) > 1e-9 {
		t.Errorf("zoom = %v, want 3.6", got)
	}
	for _, id := range []string{"a", "b"} {
		n := s.Node(id)
		sx, sy := v.Transform().Apply(n.X, n.Y)
		if sx < 0 || sx > 800 || sy < 0 || sy > 600 {
			t.Errorf("%s off screen at (%v, %v)", id, sx, sy)
		}
	}
	if v.Reheats() != 1 {
		t.Errorf("Reheats() = %d", v.Reheats())
	}
}

func TestViewportResizeDefaults(t *testing.T) {
	v := NewViewport(0, -5)
	if w, h := v.Size(); w != layout.DefaultWidth || h != layout.DefaultHeight {
		t.Errorf("Size() = %v, %v", w, h)
	}
}
