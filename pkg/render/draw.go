package render

import (
	"math"

	"github.com/matzehuels/kgviz/pkg/layout"
)

// View is the per-frame view state.
type View struct {
	Transform    Transform
	ShowLabels   bool
	SelectedNode string
	SelectedEdge string
	// Theme overrides [DefaultTheme] when non-nil.
	Theme *Theme
}

// Scale returns the zoom scale, never zero.
func (v View) Scale() float64 { return v.Transform.scale() }

// LabelsVisible reports whether labels are drawn at the current scale.
func (v View) LabelsVisible() bool {
	return v.ShowLabels && v.Scale() > v.theme().MinLabelScale
}

func (v View) theme() Theme {
	if v.Theme != nil {
		return *v.Theme
	}
	return DefaultTheme()
}

// Draw renders the scene onto c: edges first, then nodes, then labels.
// A nil scene draws nothing after the transform.
func Draw(c Canvas, s *layout.Scene, v View) {
	c.SetTransform(v.Transform)
	if s == nil {
		return
	}
	th := v.theme()
	k := v.Scale()

	for _, e := range s.Edges {
		drawEdge(c, e, e.ID == v.SelectedEdge && v.SelectedEdge != "", th, k)
	}
	for _, n := range s.Nodes {
		drawNode(c, n, n.ID == v.SelectedNode && v.SelectedNode != "", th, k)
	}
	if v.LabelsVisible() {
		for _, n := range s.Nodes {
			drawLabel(c, n, th, k)
		}
	}
}

func drawEdge(c Canvas, e *layout.EdgeView, selected bool, th Theme, k float64) {
	if !e.Resolved() {
		return
	}
	from, to := e.From, e.To
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 || isNaN(from.X, from.Y, to.X, to.Y) {
		return
	}

	ux, uy := dx/dist, dy/dist
	tipX, tipY := to.X-ux*to.Radius(), to.Y-uy*to.Radius()
	halo := e.Width + th.HaloWidth/k

	if selected {
		c.Line(from.X, from.Y, tipX, tipY, Style{Stroke: th.Accent, StrokeWidth: e.Width + 2*th.AccentWidth/k, Alpha: 0.6})
	}
	c.Line(from.X, from.Y, tipX, tipY, Style{Stroke: e.Color, StrokeWidth: halo, Alpha: th.HaloAlpha})
	c.Line(from.X, from.Y, tipX, tipY, Style{Stroke: e.Color, StrokeWidth: e.Width, Alpha: th.EdgeAlpha})

	arrow := arrowHead(tipX, tipY, math.Atan2(dy, dx), th.ArrowLength+2*e.Width, th.ArrowHalfSpan)
	c.Polygon(arrow, Style{Stroke: e.Color, StrokeWidth: halo, Alpha: th.HaloAlpha})
	c.Polygon(arrow, Style{Fill: e.Color, Alpha: th.EdgeAlpha})
}

// arrowHead returns the triangle with its tip at (x, y) pointing along angle.
func arrowHead(x, y, angle, length, halfSpan float64) []Point {
	return []Point{
		{X: x, Y: y},
		{X: x - length*math.Cos(angle-halfSpan), Y: y - length*math.Sin(angle-halfSpan)},
		{X: x - length*math.Cos(angle+halfSpan), Y: y - length*math.Sin(angle+halfSpan)},
	}
}

func drawNode(c Canvas, n *layout.NodeView, selected bool, th Theme, k float64) {
	if isNaN(n.X, n.Y) {
		return
	}
	r := n.Radius()
	big := r > th.GlowSize

	if big {
		c.Circle(n.X, n.Y, r, Style{Fill: n.Color, Alpha: n.Opacity, Blur: r})
	}
	if selected {
		c.Circle(n.X, n.Y, r+2*th.AccentWidth/k, Style{Stroke: th.Accent, StrokeWidth: th.AccentWidth / k})
	}

	border := th.BorderWidth
	if big {
		border = th.BigBorderWidth
	}
	c.Circle(n.X, n.Y, r, Style{
		Fill:        n.Color,
		Stroke:      th.NodeBorder,
		StrokeWidth: border / k,
		Alpha:       n.Opacity,
	})

	if r > th.HighlightSize {
		c.Circle(n.X, n.Y, r*0.6, Style{Fill: th.HighlightColor, Alpha: th.HighlightAlpha})
	}
}

func drawLabel(c Canvas, n *layout.NodeView, th Theme, k float64) {
	text := n.DisplayLabel()
	if text == "" || isNaN(n.X, n.Y) {
		return
	}
	size := th.LabelSize / k
	pad := th.LabelPadding / k
	w, h := c.MeasureText(text, size)

	top := n.Y + n.Radius() + pad
	c.RoundRect(n.X-w/2-pad, top, w+2*pad, h+2*pad, th.LabelRadius/k,
		Style{Fill: th.LabelBackground, Alpha: th.LabelAlpha})
	c.Text(n.X, top+pad+h/2, text, TextStyle{Size: size, Color: th.LabelColor})
}

func isNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
