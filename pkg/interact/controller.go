package interact

import (
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
	"github.com/matzehuels/kgviz/pkg/export"
	"github.com/matzehuels/kgviz/pkg/filter"
	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/observability"
	"github.com/matzehuels/kgviz/pkg/render"
)

// HitKind says what a click landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitNode
	HitEdge
)

// Hit is the result of [Controller.Click].
type Hit struct {
	Kind HitKind
	ID   string
}

// Controller wires filter, layout and render together for one interactive
// session.
type Controller struct {
	mu sync.Mutex

	data    graph.Data
	query   filter.Query
	pending string // search text awaiting the debounce
	cfg     layout.Config
	surface Surface
	logger  *log.Logger
	cb      Callbacks

	filtered graph.Data
	scene    *layout.Scene

	width, height float64
	maxWidth      float64
	shape         layout.Shape
	showLabels    bool
	spreadOnLoad  bool
	theme         *render.Theme

	selNode string
	selEdge string

	immediate trigger
	search    trigger
	fit       trigger

	rebuilds int
	closed   bool
}

// New creates a controller for data. A nil surface gets a [render.Viewport]
// of the canvas size. The scene is built before New returns; unless
// disabled, a spread-all with a delayed fit follows.
func New(data graph.Data, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		data:         data,
		cfg:          layout.DefaultConfig(),
		logger:       log.NewWithOptions(io.Discard, log.Options{}),
		width:        layout.DefaultWidth,
		height:       layout.DefaultHeight,
		maxWidth:     MaxCanvasWidth,
		shape:        layout.DefaultShape,
		showLabels:   true,
		spreadOnLoad: true,
		search:       trigger{delay: SearchDebounce},
		fit:          trigger{delay: SpreadFitDelay},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.width, c.height = c.canvasSize(c.width, c.height)
	if surface == nil {
		surface = render.NewViewport(c.width, c.height)
	}
	c.surface = surface
	c.surface.Resize(c.width, c.height)

	c.mu.Lock()
	n := c.rebuild("load")
	if c.spreadOnLoad {
		n = append(n, c.spread()...)
	}
	c.mu.Unlock()
	n.run()
	return c
}

// canvasSize applies the width cap and the default fallbacks.
func (c *Controller) canvasSize(w, h float64) (float64, float64) {
	if w <= 0 || math.IsNaN(w) {
		w = layout.DefaultWidth
	}
	if h <= 0 || math.IsNaN(h) {
		h = layout.DefaultHeight
	}
	if c.maxWidth > 0 && w > c.maxWidth {
		w = c.maxWidth
	}
	return w, h
}

// =============================================================================
// Rebuild
// =============================================================================

// rebuildOn returns a rebuild tagged with its trigger, for scheduling.
func (c *Controller) rebuildOn(trigger string) func() notes {
	return func() notes { return c.rebuild(trigger) }
}

// rebuild runs filter and layout from scratch. Must hold c.mu.
func (c *Controller) rebuild(trigger string) notes {
	var n notes
	start := time.Now()
	c.fit.cancel()

	var st filter.Stats
	c.filtered, st = filter.ApplyWithStats(c.data, c.query)
	c.scene = layout.Build(c.filtered, c.cfg)
	c.surface.Reheat(c.scene)
	c.rebuilds++

	nodes, edges, isolated := c.scene.Counts()
	observability.Interaction().OnRebuild(trigger, nodes, edges, time.Since(start))
	c.logger.Debug("scene rebuilt", "trigger", trigger,
		"nodes", nodes, "edges", edges, "isolated", isolated,
		"dropped_nodes", st.DroppedNodes, "dropped_edges", st.DroppedEdges,
		"width", c.width, "height", c.height)

	// Selections that did not survive the filter are cleared.
	if c.selNode != "" && c.scene.Node(c.selNode) == nil {
		c.selNode = ""
		n = append(n, c.emitNodeSelect(nil))
	}
	if c.selEdge != "" && c.scene.Edge(c.selEdge) == nil {
		c.selEdge = ""
		n = append(n, c.emitEdgeSelect(nil))
	}
	if c.cb.OnRebuild != nil {
		s, fn := c.scene, c.cb.OnRebuild
		n = append(n, func() { fn(s) })
	}
	return n
}

// run executes fn under the lock unless the controller is closed, then runs
// the collected notes.
func (c *Controller) run(fn func() notes) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	n := fn()
	c.mu.Unlock()
	n.run()
}

// SetData replaces the graph and rebuilds immediately. Selection is kept
// when the selected ids still exist.
func (c *Controller) SetData(data graph.Data) {
	c.run(func() notes {
		c.data = data
		return c.immediate.schedule(c, c.rebuildOn("data"))
	})
}

// SetSearch updates the search text. The rebuild happens once the text has
// been stable for the debounce interval.
func (c *Controller) SetSearch(term string) {
	c.run(func() notes {
		c.pending = term
		c.fit.cancel()
		return c.search.schedule(c, func() notes {
			c.query.Search = c.pending
			return c.rebuild("search")
		})
	})
}

// Flush applies a pending search immediately.
func (c *Controller) Flush() {
	c.run(func() notes { return c.search.flush() })
}

// SetNodeTypes restricts visible nodes to the given types and rebuilds
// immediately. No types means no restriction.
func (c *Controller) SetNodeTypes(types ...string) {
	c.run(func() notes {
		c.query.NodeTypes = append([]string(nil), types...)
		c.query = c.query.Normalize()
		return c.immediate.schedule(c, c.rebuildOn("types"))
	})
}

// SetEdgeTypes restricts visible edges to the given types and rebuilds
// immediately.
func (c *Controller) SetEdgeTypes(types ...string) {
	c.run(func() notes {
		c.query.EdgeTypes = append([]string(nil), types...)
		c.query = c.query.Normalize()
		return c.immediate.schedule(c, c.rebuildOn("types"))
	})
}

// Resize handles a container size change. The width is capped at the
// maximum canvas width and non-positive sizes fall back to the defaults.
// The scene is rebuilt immediately.
func (c *Controller) Resize(width, height float64) {
	c.run(func() notes {
		c.width, c.height = c.canvasSize(width, height)
		c.surface.Resize(c.width, c.height)
		return c.immediate.schedule(c, c.rebuildOn("resize"))
	})
}

// =============================================================================
// Selection
// =============================================================================

// Click hit-tests a screen point: nodes first, using their drawn radius,
// then edges. A click on empty space clears both selections.
func (c *Controller) Click(sx, sy float64) Hit {
	var hit Hit
	c.run(func() notes {
		t := c.surface.Transform()
		x, y := t.Invert(sx, sy)
		if nv := c.scene.NodeAt(x, y); nv != nil {
			hit = Hit{Kind: HitNode, ID: nv.ID}
			n, _ := c.clickNode(nv.ID)
			return n
		}
		tol := EdgeHitTolerance / scaleOf(t)
		if ev := c.scene.EdgeAt(x, y, tol); ev != nil {
			hit = Hit{Kind: HitEdge, ID: ev.ID}
			n, _ := c.clickEdge(ev.ID)
			return n
		}
		return c.clearSelection()
	})
	return hit
}

// ClickNode selects node id and expands its neighborhood with the current
// shape. Callbacks: OnNodeClick, OnNodeSelect(node), OnEdgeSelect(nil).
func (c *Controller) ClickNode(id string) error {
	var err error
	c.run(func() notes {
		var n notes
		n, err = c.clickNode(id)
		return n
	})
	return err
}

// ClickEdge selects edge id. Callbacks: OnEdgeClick, OnEdgeSelect(edge),
// OnNodeSelect(nil).
func (c *Controller) ClickEdge(id string) error {
	var err error
	c.run(func() notes {
		var n notes
		n, err = c.clickEdge(id)
		return n
	})
	return err
}

// ClearSelection deselects everything.
func (c *Controller) ClearSelection() {
	c.run(c.clearSelection)
}

func (c *Controller) clickNode(id string) (notes, error) {
	nv := c.scene.Node(id)
	if nv == nil {
		return nil, kerrors.New(kerrors.ErrCodeNotFound, "node %q is not visible", id)
	}
	c.selNode, c.selEdge = id, ""
	observability.Interaction().OnSelect("node")

	var n notes
	if fn := c.cb.OnNodeClick; fn != nil {
		node := nv.Node
		n = append(n, func() { fn(node) })
	}
	n = append(n, c.emitNodeSelect(nv), c.emitEdgeSelect(nil))

	moved, err := c.scene.Expand(id, c.shape)
	if err != nil {
		return n, err
	}
	c.logger.Debug("focus expansion", "node", id, "shape", c.shape, "neighbors", len(moved))
	return n, nil
}

func (c *Controller) clickEdge(id string) (notes, error) {
	ev := c.scene.Edge(id)
	if ev == nil {
		return nil, kerrors.New(kerrors.ErrCodeNotFound, "edge %q is not visible", id)
	}
	c.selEdge, c.selNode = id, ""
	observability.Interaction().OnSelect("edge")

	var n notes
	if fn := c.cb.OnEdgeClick; fn != nil {
		edge := ev.Edge
		n = append(n, func() { fn(edge) })
	}
	return append(n, c.emitEdgeSelect(ev), c.emitNodeSelect(nil)), nil
}

func (c *Controller) clearSelection() notes {
	var n notes
	if c.selNode != "" {
		n = append(n, c.emitNodeSelect(nil))
	}
	if c.selEdge != "" {
		n = append(n, c.emitEdgeSelect(nil))
	}
	if len(n) > 0 {
		observability.Interaction().OnSelect("none")
	}
	c.selNode, c.selEdge = "", ""
	return n
}

func (c *Controller) emitNodeSelect(nv *layout.NodeView) func() {
	fn := c.cb.OnNodeSelect
	if fn == nil {
		return func() {}
	}
	return func() { fn(nv) }
}

func (c *Controller) emitEdgeSelect(ev *layout.EdgeView) func() {
	fn := c.cb.OnEdgeSelect
	if fn == nil {
		return func() {}
	}
	return func() { fn(ev) }
}

// Selection returns the selected node and edge views. At most one is
// non-nil.
func (c *Controller) Selection() (*layout.NodeView, *layout.EdgeView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene.Node(c.selNode), c.scene.Edge(c.selEdge)
}

// =============================================================================
// Viewport
// =============================================================================

// ZoomIn multiplies the zoom by [ZoomInFactor].
func (c *Controller) ZoomIn() {
	c.run(func() notes {
		c.surface.ZoomTo(c.surface.Zoom()*ZoomInFactor, ZoomDuration)
		return nil
	})
}

// ZoomOut multiplies the zoom by [ZoomOutFactor].
func (c *Controller) ZoomOut() {
	c.run(func() notes {
		c.surface.ZoomTo(c.surface.Zoom()*ZoomOutFactor, ZoomDuration)
		return nil
	})
}

// Reset fits the whole scene into view.
func (c *Controller) Reset() {
	c.run(func() notes {
		c.fit.cancel()
		c.surface.FitToView(FitDuration)
		return nil
	})
}

// Spread runs spread-all around the current canvas center and schedules a
// fit-to-view. A newer spread replaces a pending fit.
func (c *Controller) Spread() {
	c.run(c.spread)
}

func (c *Controller) spread() notes {
	cx, cy := c.surface.Transform().Invert(c.width/2, c.height/2)
	c.scene.Spread(cx, cy, c.width, c.height)
	c.surface.Reheat(c.scene)
	c.logger.Debug("spread", "center_x", cx, "center_y", cy)
	return c.fit.schedule(c, func() notes {
		c.surface.FitToView(FitDuration)
		return nil
	})
}

// FitPending reports whether a delayed fit-to-view is scheduled.
func (c *Controller) FitPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fit.pending()
}

// =============================================================================
// Accessors
// =============================================================================

// SetShape sets the focus-expansion shape for later node clicks.
func (c *Controller) SetShape(name string) error {
	s, err := layout.ParseShape(name)
	if err != nil {
		return err
	}
	c.run(func() notes {
		c.shape = s
		return nil
	})
	return nil
}

// Shape returns the current focus shape.
func (c *Controller) Shape() layout.Shape {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shape
}

// SetShowLabels toggles label drawing.
func (c *Controller) SetShowLabels(on bool) {
	c.run(func() notes {
		c.showLabels = on
		return nil
	})
}

// Scene returns the live scene. It is replaced on every rebuild.
func (c *Controller) Scene() *layout.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene
}

// Query returns the applied filter query.
func (c *Controller) Query() filter.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Size returns the effective canvas size.
func (c *Controller) Size() (width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Rebuilds returns how many full rebuilds have run.
func (c *Controller) Rebuilds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuilds
}

// View returns the current view state for drawing.
func (c *Controller) View() render.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Controller) view() render.View {
	return render.View{
		Transform:    c.surface.Transform(),
		ShowLabels:   c.showLabels,
		SelectedNode: c.selNode,
		SelectedEdge: c.selEdge,
		Theme:        c.theme,
	}
}

// Draw renders the current scene onto canvas.
func (c *Controller) Draw(canvas render.Canvas) {
	c.mu.Lock()
	defer c.mu.Unlock()
	render.Draw(canvas, c.scene, c.view())
}

// Export writes the JSON export of the current scene.
func (c *Controller) Export(w io.Writer, dataset string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return export.WriteJSON(c.scene, export.Options{
		Dataset: dataset,
		Query:   c.query,
		Width:   c.width,
		Height:  c.height,
		Stats:   c.filtered.Stats,
	}, w)
}

// Close stops pending timers. Events after Close are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.search.cancel()
	c.fit.cancel()
	c.immediate.cancel()
}

func scaleOf(t render.Transform) float64 {
	if t.Scale <= 0 {
		return 1
	}
	return t.Scale
}
