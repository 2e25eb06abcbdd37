package layout

import "math"

// place runs the initial placement. Isolated and connected nodes each form
// their own ring; the angle of a node is 2π·i/count where i is its index
// among nodes of the same class, in scene order.
func (s *Scene) place() {
	isolated, connected := s.split()
	p := s.cfg.Placement

	ring(isolated, p.IsolatedCenterX, p.IsolatedCenterY, p.IsolatedRadius)

	r := math.Min(p.ConnectedCapRadius, math.Sqrt(float64(len(connected)))*p.ConnectedScale)
	ring(connected, 0, 0, r)
}

// Spread re-lays the whole scene out for a canvas of the given size centered
// at (cx, cy). Connected nodes get a ring sized to the canvas; isolated
// nodes are pushed into a small cluster toward the upper left.
//
// Non-positive sizes fall back to [DefaultWidth] and [DefaultHeight].
func (s *Scene) Spread(cx, cy, width, height float64) {
	if s == nil {
		return
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	isolated, connected := s.split()
	sp := s.cfg.Spread
	short := math.Min(width, height)

	r := math.Min(short*sp.ConnectedRadiusFrac,
		math.Sqrt(float64(len(connected)))*sp.ConnectedScale*(short/sp.ReferenceSize))
	ring(connected, cx, cy, r)

	ring(isolated,
		cx-width*sp.IsolatedOffsetFrac,
		cy-height*sp.IsolatedOffsetFrac,
		short*sp.IsolatedRadiusFrac)
}

// Default canvas size used whenever a caller supplies none.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

func (s *Scene) split() (isolated, connected []*NodeView) {
	for _, n := range s.Nodes {
		if n.Isolated {
			isolated = append(isolated, n)
		} else {
			connected = append(connected, n)
		}
	}
	return isolated, connected
}

func ring(nodes []*NodeView, cx, cy, radius float64) {
	if len(nodes) == 0 {
		return
	}
	step := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		angle := float64(i) * step
		n.X = cx + radius*math.Cos(angle)
		n.Y = cy + radius*math.Sin(angle)
	}
}
