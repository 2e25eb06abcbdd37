package sink

import (
	"bytes"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/kgviz/pkg/fonts"
	"github.com/matzehuels/kgviz/pkg/render"
)

// PNGOption configures a PNG canvas.
type PNGOption func(*PNG)

// WithPNGBackground fills the image with a solid color before drawing.
func WithPNGBackground(color string) PNGOption {
	return func(p *PNG) { p.background = color }
}

// WithPixelRatio renders at a multiple of the logical size (2 for 2x output).
func WithPixelRatio(r float64) PNGOption {
	return func(p *PNG) {
		if r > 0 {
			p.ratio = r
		}
	}
}

// PNG is a raster canvas backed by a gg context.
//
// gg does not scale stroke widths or font faces with its matrix, so the
// canvas maps every coordinate and size to device pixels itself.
type PNG struct {
	dc         *gg.Context
	background string
	ratio      float64
	t          render.Transform
}

// NewPNG creates a raster canvas of the given logical size.
func NewPNG(width, height float64, opts ...PNGOption) *PNG {
	p := &PNG{ratio: 1, t: render.Identity()}
	for _, opt := range opts {
		opt(p)
	}
	w := int(math.Max(1, math.Round(width*p.ratio)))
	h := int(math.Max(1, math.Round(height*p.ratio)))
	p.dc = gg.NewContext(w, h)
	if p.background != "" {
		p.setColor(p.background, 1)
		p.dc.Clear()
	}
	return p
}

func (p *PNG) SetTransform(t render.Transform) {
	if t.Scale <= 0 {
		t.Scale = 1
	}
	p.t = render.Transform{Scale: t.Scale * p.ratio, TX: t.TX * p.ratio, TY: t.TY * p.ratio}
}

func (p *PNG) k() float64 { return p.t.Scale }

func (p *PNG) Circle(cx, cy, r float64, s render.Style) {
	x, y := p.t.Apply(cx, cy)
	rad := r * p.k()
	if s.Blur > 0 && s.Fill != "" {
		// Approximate a blurred shadow with fading rings.
		blur := s.Blur * p.k()
		const steps = 6
		for i := steps; i >= 1; i-- {
			p.dc.DrawCircle(x, y, rad+blur*float64(i)/steps)
			p.setColor(s.Fill, s.Opacity()*0.08)
			p.dc.Fill()
		}
		return
	}
	p.dc.DrawCircle(x, y, rad)
	p.paint(s)
}

func (p *PNG) Line(x1, y1, x2, y2 float64, s render.Style) {
	ax, ay := p.t.Apply(x1, y1)
	bx, by := p.t.Apply(x2, y2)
	p.dc.SetLineCapRound()
	p.dc.DrawLine(ax, ay, bx, by)
	p.paint(s)
}

func (p *PNG) Polygon(pts []render.Point, s render.Style) {
	if len(pts) == 0 {
		return
	}
	p.dc.NewSubPath()
	for i, pt := range pts {
		x, y := p.t.Apply(pt.X, pt.Y)
		if i == 0 {
			p.dc.MoveTo(x, y)
		} else {
			p.dc.LineTo(x, y)
		}
	}
	p.dc.ClosePath()
	p.dc.SetLineJoinRound()
	p.paint(s)
}

func (p *PNG) RoundRect(x, y, w, h, radius float64, s render.Style) {
	sx, sy := p.t.Apply(x, y)
	p.dc.DrawRoundedRectangle(sx, sy, w*p.k(), h*p.k(), radius*p.k())
	p.paint(s)
}

func (p *PNG) Text(x, y float64, text string, s render.TextStyle) {
	// Round to half pixels to keep the face cache small.
	size := math.Round(s.Size*p.k()*2) / 2
	if size <= 0 {
		return
	}
	face, err := fonts.Face(size)
	if err != nil {
		return
	}
	sx, sy := p.t.Apply(x, y)
	p.dc.SetFontFace(face)
	p.setColor(s.Color, 1)
	p.dc.DrawStringAnchored(text, sx, sy, 0.5, 0.35)
}

func (p *PNG) MeasureText(text string, size float64) (w, h float64) {
	return fonts.Measure(text, size)
}

// Image returns the rendered image.
func (p *PNG) Image() image.Image { return p.dc.Image() }

// Bytes encodes the image as PNG.
func (p *PNG) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// paint fills and strokes the current path, then clears it.
func (p *PNG) paint(s render.Style) {
	a := s.Opacity()
	stroke := s.Stroke != "" && s.StrokeWidth > 0
	switch {
	case s.Fill != "" && stroke:
		p.setColor(s.Fill, a)
		p.dc.FillPreserve()
		p.setColor(s.Stroke, a)
		p.dc.SetLineWidth(s.StrokeWidth * p.k())
		p.dc.Stroke()
	case s.Fill != "":
		p.setColor(s.Fill, a)
		p.dc.Fill()
	case stroke:
		p.setColor(s.Stroke, a)
		p.dc.SetLineWidth(s.StrokeWidth * p.k())
		p.dc.Stroke()
	default:
		p.dc.ClearPath()
	}
}

// setColor parses a hex color; unparseable colors fall back to mid gray.
func (p *PNG) setColor(hex string, alpha float64) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	p.dc.SetRGBA(c.R, c.G, c.B, alpha)
}
