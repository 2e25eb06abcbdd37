package interact

import (
	"bytes"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/observability"
	"github.com/matzehuels/kgviz/pkg/render"
	"github.com/matzehuels/kgviz/pkg/render/sink"
)

// fakeSurface records what the controller asks of it.
type fakeSurface struct {
	mu      sync.Mutex
	zoom    float64
	zooms   []time.Duration
	fits    int
	reheats int
	w, h    float64
	fitCh   chan struct{}
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{zoom: 1, fitCh: make(chan struct{}, 16)}
}

func (f *fakeSurface) Zoom() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zoom
}

func (f *fakeSurface) ZoomTo(k float64, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zoom = k
	f.zooms = append(f.zooms, d)
}

func (f *fakeSurface) FitToView(time.Duration) {
	f.mu.Lock()
	f.fits++
	f.mu.Unlock()
	f.fitCh <- struct{}{}
}

func (f *fakeSurface) Reheat(*layout.Scene) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reheats++
}

func (f *fakeSurface) Resize(w, h float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.w, f.h = w, h
}

// Transform is the identity so screen and world coordinates coincide.
func (f *fakeSurface) Transform() render.Transform { return render.Identity() }

func (f *fakeSurface) fitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fits
}

func sampleData() graph.Data {
	return graph.Data{
		Nodes: []graph.Node{
			{ID: "a", Label: "Alice", Type: graph.NodeTypeAuthor},
			{ID: "b", Label: "Acme", Type: graph.NodeTypeBrand},
			{ID: "c", Label: "Launch", Type: graph.NodeTypeEvent},
			{ID: "d", Label: "Berlin", Type: graph.NodeTypeLocation},
			{ID: "e", Label: "Loner", Type: graph.NodeTypeTopic},
		},
		Edges: []graph.Edge{
			{ID: "ab", Source: "a", Target: "b", Type: graph.EdgeTypeMentions, Weight: 1},
			{ID: "ac", Source: "a", Target: "c", Type: graph.EdgeTypeDiscusses, Weight: 1},
			{ID: "ad", Source: "d", Target: "a", Type: graph.EdgeTypeLocatedIn, Weight: 1},
		},
	}
}

type selectionLog struct {
	mu     sync.Mutex
	events []string
}

func (l *selectionLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, s)
}

func (l *selectionLog) take() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.events
	l.events = nil
	return out
}

func (l *selectionLog) callbacks() Callbacks {
	return Callbacks{
		OnNodeClick: func(n graph.Node) { l.add("click:" + n.ID) },
		OnEdgeClick: func(e graph.Edge) { l.add("click:" + e.ID) },
		OnNodeSelect: func(n *layout.NodeView) {
			if n == nil {
				l.add("node:nil")
				return
			}
			l.add("node:" + n.ID)
		},
		OnEdgeSelect: func(e *layout.EdgeView) {
			if e == nil {
				l.add("edge:nil")
				return
			}
			l.add("edge:" + e.ID)
		},
	}
}

func newController(t *testing.T, opts ...Option) (*Controller, *fakeSurface) {
	t.Helper()
	s := newFakeSurface()
	c := New(sampleData(), s, append([]Option{WithoutSpreadOnLoad()}, opts...)...)
	t.Cleanup(c.Close)
	return c, s
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestClickNode(t *testing.T) {
	var log selectionLog
	c, _ := newController(t, WithCallbacks(log.callbacks()))

	if err := c.ClickNode("a"); err != nil {
		t.Fatalf("ClickNode() error: %v", err)
	}
	if got, want := log.take(), []string{"click:a", "node:a", "edge:nil"}; !equalStrings(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	n, e := c.Selection()
	if n == nil || n.ID != "a" || e != nil {
		t.Errorf("Selection() = %v, %v", n, e)
	}

	// Neighbors b, c, d now sit on the circle around a.
	s := c.Scene()
	a := s.Node("a")
	for _, id := range []string{"b", "c", "d"} {
		nb := s.Node(id)
		if d := math.Hypot(nb.X-a.X, nb.Y-a.Y); math.Abs(d-120) > 1e-6 {
			t.Errorf("%s at distance %v, want 120", id, d)
		}
	}

	if err := c.ClickNode("missing"); !kerrors.Is(err, kerrors.ErrCodeNotFound) {
		t.Errorf("ClickNode(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestClickEdge(t *testing.T) {
	var log selectionLog
	c, _ := newController(t, WithCallbacks(log.callbacks()))

	_ = c.ClickNode("a")
	log.take()
	if err := c.ClickEdge("ab"); err != nil {
		t.Fatalf("ClickEdge() error: %v", err)
	}
	if got, want := log.take(), []string{"click:ab", "edge:ab", "node:nil"}; !equalStrings(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	n, e := c.Selection()
	if n != nil || e == nil || e.ID != "ab" {
		t.Errorf("Selection() = %v, %v", n, e)
	}
}

func TestClickHitTesting(t *testing.T) {
	var log selectionLog
	c, _ := newController(t, WithCallbacks(log.callbacks()))
	s := c.Scene()
	a, b := s.Node("a"), s.Node("b")
	a.X, a.Y = 0, 0
	b.X, b.Y = 200, 0
	s.Node("c").X, s.Node("c").Y = 0, 300
	s.Node("d").X, s.Node("d").Y = 0, -300
	s.Node("e").X, s.Node("e").Y = 500, 500

	// Just inside the drawn radius.
	if hit := c.Click(a.Radius()-0.1, 0); hit != (Hit{Kind: HitNode, ID: "a"}) {
		t.Errorf("Click inside radius = %+v", hit)
	}
	// Just outside the node but on the edge a->b.
	if hit := c.Click(a.Radius()+5, 0); hit != (Hit{Kind: HitEdge, ID: "ab"}) {
		t.Errorf("Click on edge = %+v", hit)
	}
	log.take()
	if hit := c.Click(-400, 400); hit.Kind != HitNone {
		t.Errorf("Click on background = %+v", hit)
	}
	if got, want := log.take(), []string{"edge:nil"}; !equalStrings(got, want) {
		t.Errorf("background click events = %v, want %v", got, want)
	}
	if n, e := c.Selection(); n != nil || e != nil {
		t.Error("background click should clear the selection")
	}
}

func TestZoom(t *testing.T) {
	c, s := newController(t)
	c.ZoomIn()
	if got := s.Zoom(); math.Abs(got-1.2) > 1e-9 {
		t.Errorf("zoom after in = %v, want 1.2", got)
	}
	c.ZoomOut()
	if got := s.Zoom(); math.Abs(got-0.96) > 1e-9 {
		t.Errorf("zoom after out = %v, want 0.96", got)
	}
	for _, d := range s.zooms {
		if d != ZoomDuration {
			t.Errorf("zoom duration = %v, want %v", d, ZoomDuration)
		}
	}
	c.Reset()
	if s.fitCount() != 1 {
		t.Errorf("Reset() fits = %d, want 1", s.fitCount())
	}
}

// A container wider than the cap yields a canvas exactly at the cap and a
// full rebuild with the same counts.
func TestResizeCapsWidth(t *testing.T) {
	c, s := newController(t, WithSize(800, 600))
	nodes, edges, _ := c.Scene().Counts()
	before := c.Rebuilds()
	oldScene := c.Scene()

	c.Resize(1500, 700)

	if w, h := c.Size(); w != 1200 || h != 700 {
		t.Errorf("Size() = %v, %v, want 1200, 700", w, h)
	}
	s.mu.Lock()
	sw := s.w
	s.mu.Unlock()
	if sw != 1200 {
		t.Errorf("surface width = %v, want 1200", sw)
	}
	if c.Rebuilds() != before+1 || c.Scene() == oldScene {
		t.Error("resize should trigger a full rebuild")
	}
	n2, e2, _ := c.Scene().Counts()
	if n2 != nodes || e2 != edges {
		t.Errorf("counts changed: %d/%d -> %d/%d", nodes, edges, n2, e2)
	}

	c.Resize(0, -1)
	if w, h := c.Size(); w != layout.DefaultWidth || h != layout.DefaultHeight {
		t.Errorf("fallback Size() = %v, %v", w, h)
	}
}

func TestTypeFiltersAreImmediate(t *testing.T) {
	var log selectionLog
	c, _ := newController(t, WithCallbacks(log.callbacks()))
	_ = c.ClickNode("c")
	log.take()

	c.SetNodeTypes("author", "brand")
	if n, _, _ := c.Scene().Counts(); n != 2 {
		t.Errorf("nodes after type filter = %d, want 2", n)
	}
	if got := log.take(); !equalStrings(got, []string{"node:nil"}) {
		t.Errorf("hidden selection should be cleared, events = %v", got)
	}

	c.SetEdgeTypes("discusses")
	if _, e, _ := c.Scene().Counts(); e != 0 {
		t.Errorf("edges = %d, want 0", e)
	}
	c.SetNodeTypes()
	if _, e, _ := c.Scene().Counts(); e != 1 {
		t.Errorf("edges = %d, want 1", e)
	}
}

func TestSearchIsDebounced(t *testing.T) {
	rebuilt := make(chan *layout.Scene, 8)
	c, _ := newController(t,
		WithDebounce(30*time.Millisecond),
		WithCallbacks(Callbacks{OnRebuild: func(s *layout.Scene) { rebuilt <- s }}),
	)
	<-rebuilt // initial build
	before := c.Rebuilds()

	c.SetSearch("a")
	c.SetSearch("al")
	c.SetSearch("alice")
	if c.Query().Search != "" || c.Rebuilds() != before {
		t.Fatal("search applied before the debounce elapsed")
	}

	select {
	case s := <-rebuilt:
		if n, _, _ := s.Counts(); n != 1 {
			t.Errorf("nodes = %d, want 1", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never applied")
	}
	if c.Query().Search != "alice" {
		t.Errorf("Query().Search = %q", c.Query().Search)
	}
	time.Sleep(60 * time.Millisecond)
	if got := c.Rebuilds(); got != before+1 {
		t.Errorf("rebuilds = %d, want exactly one after the burst", got-before)
	}
}

func TestSearchFlush(t *testing.T) {
	c, _ := newController(t, WithDebounce(time.Hour))
	c.SetSearch("zzz-no-match")
	c.Flush()
	if n, e, _ := c.Scene().Counts(); n != 0 || e != 0 {
		t.Errorf("counts = %d, %d, want empty", n, e)
	}
	c.Flush() // nothing pending
}

func TestSpreadDelaysFit(t *testing.T) {
	c, s := newController(t, WithSpreadDelay(20*time.Millisecond))

	c.Spread()
	c.Spread() // replaces the pending fit
	if s.fitCount() != 0 {
		t.Fatal("fit should be delayed")
	}
	if !c.FitPending() {
		t.Error("FitPending() = false after Spread")
	}
	select {
	case <-s.fitCh:
	case <-time.After(2 * time.Second):
		t.Fatal("delayed fit never fired")
	}
	time.Sleep(60 * time.Millisecond)
	if got := s.fitCount(); got != 1 {
		t.Errorf("fits = %d, want 1 (last request wins)", got)
	}
}

func TestFilterCancelsPendingFit(t *testing.T) {
	c, s := newController(t, WithSpreadDelay(20*time.Millisecond))
	c.Spread()
	c.SetEdgeTypes("mentions")
	if c.FitPending() {
		t.Error("filter change should cancel the pending fit")
	}
	time.Sleep(80 * time.Millisecond)
	if got := s.fitCount(); got != 0 {
		t.Errorf("fits = %d, want 0", got)
	}
}

func TestSpreadPlacesAroundCanvasCenter(t *testing.T) {
	c, _ := newController(t, WithSize(800, 600))
	c.Spread()
	// Identity surface: canvas center is world (400, 300); e is isolated.
	e := c.Scene().Node("e")
	if math.Abs(e.X-(400-320+12)) > 1e-9 || math.Abs(e.Y-(300-240)) > 1e-9 {
		t.Errorf("isolated node at (%v, %v)", e.X, e.Y)
	}
}

func TestCloseStopsTimers(t *testing.T) {
	c, s := newController(t, WithDebounce(20*time.Millisecond), WithSpreadDelay(20*time.Millisecond))
	before := c.Rebuilds()
	c.SetSearch("alice")
	c.Spread()
	c.Close()
	time.Sleep(80 * time.Millisecond)
	if c.Rebuilds() != before || s.fitCount() != 0 {
		t.Error("timers fired after Close")
	}
	c.Resize(100, 100) // ignored
	if w, _ := c.Size(); w == 100 {
		t.Error("events after Close should be ignored")
	}
}

func TestSetShape(t *testing.T) {
	c, _ := newController(t)
	if err := c.SetShape("follow-line"); err != nil {
		t.Fatalf("SetShape() error: %v", err)
	}
	if c.Shape() != layout.ShapeFollowLine {
		t.Errorf("Shape() = %s", c.Shape())
	}
	if err := c.SetShape("spiral"); !kerrors.Is(err, kerrors.ErrCodeInvalidShape) {
		t.Errorf("SetShape(spiral) error = %v", err)
	}

	_ = c.ClickNode("a")
	s := c.Scene()
	a := s.Node("a")
	for i, id := range []string{"b", "c", "d"} {
		n := s.Node(id)
		want := 80 + 30*float64(i)
		if math.Abs(n.X-a.X) > 1e-9 || math.Abs(n.Y-a.Y-want) > 1e-9 {
			t.Errorf("%s at (%v, %v), want straight line at %v", id, n.X-a.X, n.Y-a.Y, want)
		}
	}
}

func TestDrawAndExport(t *testing.T) {
	c, _ := newController(t)
	_ = c.ClickNode("a")
	c.SetShowLabels(false)

	rec := sink.NewRecorder()
	c.Draw(rec)
	if rec.Count(sink.OpText) != 0 {
		t.Error("labels drawn while disabled")
	}
	if rec.Count(sink.OpCircle) == 0 {
		t.Error("no nodes drawn")
	}

	var buf bytes.Buffer
	if err := c.Export(&buf, "demo"); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	var doc struct {
		Dataset string            `json:"dataset"`
		Nodes   []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Dataset != "demo" || len(doc.Nodes) != 5 {
		t.Errorf("export = %+v", doc)
	}
}

func TestSpreadOnLoadUsesViewport(t *testing.T) {
	c := New(sampleData(), nil, WithSpreadDelay(time.Hour))
	defer c.Close()
	if !c.FitPending() {
		t.Error("load should schedule a fit after spreading")
	}
	if _, ok := c.Scene().Bounds(); !ok {
		t.Error("scene should not be empty")
	}
}

type interactionRecorder struct {
	observability.NoopInteractionHooks
	mu       sync.Mutex
	triggers []string
	selects  []string
}

func (r *interactionRecorder) OnRebuild(trigger string, _, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, trigger)
}

func (r *interactionRecorder) OnSelect(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selects = append(r.selects, kind)
}

func TestInteractionHooks(t *testing.T) {
	rec := &interactionRecorder{}
	observability.SetInteractionHooks(rec)
	t.Cleanup(observability.Reset)

	c, _ := newController(t)
	c.SetNodeTypes("author")
	c.Resize(640, 480)
	_ = c.ClickNode("a")
	c.ClearSelection()
	c.ClearSelection() // nothing selected, no event

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if want := []string{"load", "types", "resize"}; !equalStrings(rec.triggers, want) {
		t.Errorf("triggers = %v, want %v", rec.triggers, want)
	}
	if want := []string{"node", "none"}; !equalStrings(rec.selects, want) {
		t.Errorf("selects = %v, want %v", rec.selects, want)
	}
}
