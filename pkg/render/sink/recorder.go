package sink

import (
	"github.com/matzehuels/kgviz/pkg/fonts"
	"github.com/matzehuels/kgviz/pkg/render"
)

// OpKind identifies a recorded draw call.
type OpKind string

const (
	OpTransform OpKind = "transform"
	OpCircle    OpKind = "circle"
	OpLine      OpKind = "line"
	OpPolygon   OpKind = "polygon"
	OpRoundRect OpKind = "roundrect"
	OpText      OpKind = "text"
)

// Op is one recorded draw call. Only the fields relevant to Kind are set.
type Op struct {
	Kind OpKind

	X, Y, X2, Y2 float64 // circle/text center, line endpoints, rect origin
	R            float64 // circle radius, rect corner radius
	W, H         float64 // rect size
	Points       []render.Point
	Text         string

	Style     render.Style
	TextStyle render.TextStyle
	Transform render.Transform
}

// Recorder is a canvas that stores every call in order.
type Recorder struct {
	Ops []Op
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) SetTransform(t render.Transform) {
	r.Ops = append(r.Ops, Op{Kind: OpTransform, Transform: t})
}

func (r *Recorder) Circle(cx, cy, rad float64, s render.Style) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X: cx, Y: cy, R: rad, Style: s})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, s render.Style) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Style: s})
}

func (r *Recorder) Polygon(pts []render.Point, s render.Style) {
	cp := make([]render.Point, len(pts))
	copy(cp, pts)
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Points: cp, Style: s})
}

func (r *Recorder) RoundRect(x, y, w, h, radius float64, s render.Style) {
	r.Ops = append(r.Ops, Op{Kind: OpRoundRect, X: x, Y: y, W: w, H: h, R: radius, Style: s})
}

func (r *Recorder) Text(x, y float64, text string, s render.TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X: x, Y: y, Text: text, TextStyle: s})
}

func (r *Recorder) MeasureText(text string, size float64) (w, h float64) {
	return fonts.Measure(text, size)
}

// Count returns the number of recorded ops of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the recorded ops of the given kind, in order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset discards all recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
