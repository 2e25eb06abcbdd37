package render

// Point is a position in world coordinates.
type Point struct {
	X, Y float64
}

// Transform maps world coordinates to screen coordinates:
//
//	screen = world*Scale + (TX, TY)
type Transform struct {
	Scale  float64
	TX, TY float64
}

// Identity is the transform that leaves coordinates unchanged.
func Identity() Transform { return Transform{Scale: 1} }

func (t Transform) scale() float64 {
	if t.Scale <= 0 {
		return 1
	}
	return t.Scale
}

// Apply maps a world point to the screen.
func (t Transform) Apply(x, y float64) (sx, sy float64) {
	k := t.scale()
	return x*k + t.TX, y*k + t.TY
}

// Invert maps a screen point back to world coordinates.
func (t Transform) Invert(sx, sy float64) (x, y float64) {
	k := t.scale()
	return (sx - t.TX) / k, (sy - t.TY) / k
}

// Style describes how a shape is filled and stroked. Empty colors mean "none".
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	// Alpha applies to fill and stroke alike. Zero is treated as opaque.
	Alpha float64
	// Blur adds a soft shadow of the fill color with the given radius.
	Blur float64
}

// Opacity returns the effective alpha in [0, 1].
func (s Style) Opacity() float64 {
	switch {
	case s.Alpha <= 0:
		return 1
	case s.Alpha > 1:
		return 1
	}
	return s.Alpha
}

// TextStyle describes a label. Text is centered on its anchor point both
// horizontally and vertically.
type TextStyle struct {
	Size  float64
	Color string
}

// Canvas is the drawing contract the render pipeline targets.
//
// SetTransform is called once before any shape. All other coordinates and
// sizes are in world units.
type Canvas interface {
	SetTransform(t Transform)
	Circle(cx, cy, r float64, s Style)
	Line(x1, y1, x2, y2 float64, s Style)
	Polygon(pts []Point, s Style)
	RoundRect(x, y, w, h, radius float64, s Style)
	Text(x, y float64, text string, s TextStyle)
	// MeasureText returns the width and height of text at the given size.
	MeasureText(text string, size float64) (w, h float64)
}
