package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/kgviz/pkg/fonts"
	"github.com/matzehuels/kgviz/pkg/render"
)

// SVGOption configures an SVG canvas.
type SVGOption func(*SVG)

// WithBackground fills the document with a solid color before drawing.
func WithBackground(color string) SVGOption { return func(s *SVG) { s.background = color } }

// WithTitle sets the document <title>.
func WithTitle(title string) SVGOption { return func(s *SVG) { s.title = title } }

// WithEmbeddedFont inlines Go Regular as a base64 @font-face so the
// document renders identically without the font installed.
func WithEmbeddedFont() SVGOption { return func(s *SVG) { s.embedFont = true } }

// SVG is a canvas that writes an SVG document.
type SVG struct {
	width, height float64
	background    string
	title         string
	embedFont     bool

	body    bytes.Buffer
	inGroup bool
	glow    bool
}

// NewSVG creates an SVG canvas of the given pixel size.
func NewSVG(width, height float64, opts ...SVGOption) *SVG {
	s := &SVG{width: width, height: height}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SVG) SetTransform(t render.Transform) {
	if s.inGroup {
		s.body.WriteString("  </g>\n")
	}
	k := t.Scale
	if k <= 0 {
		k = 1
	}
	fmt.Fprintf(&s.body, `  <g transform="matrix(%s 0 0 %s %s %s)">`+"\n", num(k), num(k), num(t.TX), num(t.TY))
	s.inGroup = true
}

func (s *SVG) Circle(cx, cy, r float64, st render.Style) {
	filter := ""
	if st.Blur > 0 {
		s.glow = true
		filter = ` filter="url(#glow)"`
	}
	fmt.Fprintf(&s.body, `    <circle cx="%s" cy="%s" r="%s"%s%s/>`+"\n", num(cx), num(cy), num(r), paint(st), filter)
}

func (s *SVG) Line(x1, y1, x2, y2 float64, st render.Style) {
	fmt.Fprintf(&s.body, `    <line x1="%s" y1="%s" x2="%s" y2="%s"%s stroke-linecap="round"/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), paint(st))
}

func (s *SVG) Polygon(pts []render.Point, st render.Style) {
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = num(p.X) + "," + num(p.Y)
	}
	fmt.Fprintf(&s.body, `    <polygon points="%s"%s stroke-linejoin="round"/>`+"\n", strings.Join(coords, " "), paint(st))
}

func (s *SVG) RoundRect(x, y, w, h, radius float64, st render.Style) {
	fmt.Fprintf(&s.body, `    <rect x="%s" y="%s" width="%s" height="%s" rx="%s"%s/>`+"\n",
		num(x), num(y), num(w), num(h), num(radius), paint(st))
}

func (s *SVG) Text(x, y float64, text string, st render.TextStyle) {
	fmt.Fprintf(&s.body, `    <text x="%s" y="%s" font-size="%s" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		num(x), num(y), num(st.Size), escapeXML(st.Color), escapeXML(text))
}

func (s *SVG) MeasureText(text string, size float64) (w, h float64) {
	return fonts.Measure(text, size)
}

// Bytes returns the complete document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(s.width), num(s.height), s.width, s.height)
	if s.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(s.title))
	}
	s.renderDefs(&buf)
	if s.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(s.background))
	}
	buf.Write(s.body.Bytes())
	if s.inGroup {
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (s *SVG) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	if s.glow {
		buf.WriteString(`    <filter id="glow" x="-50%" y="-50%" width="200%" height="200%"><feGaussianBlur stdDeviation="4"/></filter>` + "\n")
	}
	buf.WriteString("    <style>\n")
	if s.embedFont {
		fmt.Fprintf(buf, "      @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			fonts.FontFamily, fonts.RegularTTFBase64())
	}
	fmt.Fprintf(buf, "      text { font-family: %s; }\n", fonts.FallbackFontFamily)
	buf.WriteString("    </style>\n  </defs>\n")
}

func paint(st render.Style) string {
	var b strings.Builder
	if st.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, escapeXML(st.Fill))
	} else {
		b.WriteString(` fill="none"`)
	}
	if st.Stroke != "" && st.StrokeWidth > 0 {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, escapeXML(st.Stroke), num(st.StrokeWidth))
	}
	if a := st.Opacity(); a < 1 {
		fmt.Fprintf(&b, ` opacity="%s"`, num(a))
	}
	return b.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
