package layout

import (
	"math"

	"github.com/matzehuels/kgviz/pkg/graph"
)

// Scene is the arena of node and edge views for one render session.
//
// Nodes and Edges keep the order of the filtered input, which is also the
// draw order. NodeView pointers are stable for the life of the scene.
type Scene struct {
	Nodes []*NodeView
	Edges []*EdgeView

	cfg   Config
	index map[string]*NodeView
	edges map[string]*EdgeView
}

// Build creates a scene from filtered graph data and runs the initial
// placement.
//
// Edges whose endpoints do not resolve are left out of the scene, and only
// the edges that remain count toward isolation. Duplicate node IDs keep
// their first occurrence.
func Build(data graph.Data, cfg Config) *Scene {
	s := &Scene{
		Nodes: make([]*NodeView, 0, len(data.Nodes)),
		Edges: make([]*EdgeView, 0, len(data.Edges)),
		cfg:   cfg,
		index: make(map[string]*NodeView, len(data.Nodes)),
		edges: make(map[string]*EdgeView, len(data.Edges)),
	}

	for _, n := range data.Nodes {
		if _, dup := s.index[n.ID]; dup {
			continue
		}
		nv := &NodeView{
			Node:    n,
			Size:    NodeSize(n.Properties, cfg.Size),
			Opacity: NodeOpacity(n.Properties, cfg.Size),
		}
		s.Nodes = append(s.Nodes, nv)
		s.index[n.ID] = nv
	}

	touched := make(map[string]bool, len(s.Nodes))
	for _, e := range data.Edges {
		from, to := s.index[e.Source], s.index[e.Target]
		if from == nil || to == nil {
			continue
		}
		ev := &EdgeView{
			Edge:  e,
			From:  from,
			To:    to,
			Color: cfg.EdgeColor(e.Type),
			Width: EdgeWidth(e, cfg.Edge),
		}
		s.Edges = append(s.Edges, ev)
		if _, dup := s.edges[e.ID]; !dup {
			s.edges[e.ID] = ev
		}
		touched[e.Source] = true
		touched[e.Target] = true
	}

	for _, nv := range s.Nodes {
		nv.Isolated = !touched[nv.ID]
		if nv.Isolated && cfg.IsolatedColor != "" {
			nv.Color = cfg.IsolatedColor
		} else {
			nv.Color = cfg.NodeColor(nv.Type)
		}
	}

	s.place()
	return s
}

// Config returns the configuration the scene was built with.
func (s *Scene) Config() Config { return s.cfg }

// Node returns the view for id, or nil.
func (s *Scene) Node(id string) *NodeView {
	if s == nil {
		return nil
	}
	return s.index[id]
}

// Edge returns the view for edge id, or nil.
func (s *Scene) Edge(id string) *EdgeView {
	if s == nil {
		return nil
	}
	return s.edges[id]
}

// Counts reports the number of nodes, edges and isolated nodes.
func (s *Scene) Counts() (nodes, edges, isolated int) {
	if s == nil {
		return 0, 0, 0
	}
	for _, n := range s.Nodes {
		if n.Isolated {
			isolated++
		}
	}
	return len(s.Nodes), len(s.Edges), isolated
}

// Neighbors returns the nodes adjacent to id in either direction, in
// first-seen order over the scene's edges, without duplicates and without
// the node itself.
func (s *Scene) Neighbors(id string) []*NodeView {
	if s == nil {
		return nil
	}
	var out []*NodeView
	seen := map[string]bool{id: true}
	for _, e := range s.Edges {
		var other *NodeView
		switch {
		case e.From.ID == id:
			other = e.To
		case e.To.ID == id:
			other = e.From
		default:
			continue
		}
		if seen[other.ID] {
			continue
		}
		seen[other.ID] = true
		out = append(out, other)
	}
	return out
}

// Rect is an axis-aligned box in world coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width of the box.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height of the box.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center of the box.
func (r Rect) Center() (x, y float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Bounds returns the box covering every node disc. ok is false for an empty
// scene.
func (s *Scene) Bounds() (r Rect, ok bool) {
	if s == nil || len(s.Nodes) == 0 {
		return Rect{}, false
	}
	r = Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, n := range s.Nodes {
		rad := n.Radius()
		r.MinX = math.Min(r.MinX, n.X-rad)
		r.MinY = math.Min(r.MinY, n.Y-rad)
		r.MaxX = math.Max(r.MaxX, n.X+rad)
		r.MaxY = math.Max(r.MaxY, n.Y+rad)
	}
	return r, true
}

// NodeAt returns the topmost node whose disc contains the world point, or nil.
// Nodes drawn later sit on top, so the search runs back to front.
func (s *Scene) NodeAt(x, y float64) *NodeView {
	if s == nil {
		return nil
	}
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		n := s.Nodes[i]
		if math.Hypot(x-n.X, y-n.Y) <= n.Radius() {
			return n
		}
	}
	return nil
}

// EdgeAt returns the topmost edge within half its width plus tolerance of the
// world point, or nil.
func (s *Scene) EdgeAt(x, y, tolerance float64) *EdgeView {
	if s == nil {
		return nil
	}
	for i := len(s.Edges) - 1; i >= 0; i-- {
		e := s.Edges[i]
		if !e.Resolved() {
			continue
		}
		if segmentDistance(x, y, e.From.X, e.From.Y, e.To.X, e.To.Y) <= e.Width/2+tolerance {
			return e
		}
	}
	return nil
}

func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := clamp(0, 1, ((px-ax)*dx+(py-ay)*dy)/l2)
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
