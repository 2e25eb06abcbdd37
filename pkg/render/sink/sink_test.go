package sink

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/render"
)

func scene() *layout.Scene {
	return layout.Build(graph.Data{
		Nodes: []graph.Node{{ID: "a", Label: "Tom & Jerry"}, {ID: "b"}, {ID: "solo"}},
		Edges: []graph.Edge{{ID: "ab", Source: "a", Target: "b", Weight: 2}},
	}, layout.DefaultConfig())
}

func TestSVG(t *testing.T) {
	svg := NewSVG(640, 480, WithBackground("#000000"), WithTitle("kg <demo>"))
	render.Draw(svg, scene(), render.View{Transform: render.Transform{Scale: 1, TX: 320, TY: 240}, ShowLabels: true})
	out := string(svg.Bytes())

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 640 480"`,
		`<title>kg &lt;demo&gt;</title>`,
		`<g transform="matrix(1 0 0 1 320 240)">`,
		`<circle `,
		`<line `,
		`<polygon `,
		`Tom &amp; Jerry</text>`,
		"</g>\n</svg>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(out, "@font-face") {
		t.Error("font should not be embedded by default")
	}
	if strings.Count(out, "<g ") != strings.Count(out, "</g>") {
		t.Error("unbalanced groups")
	}
}

func TestSVGEmbeddedFont(t *testing.T) {
	svg := NewSVG(10, 10, WithEmbeddedFont())
	if !strings.Contains(string(svg.Bytes()), "@font-face") {
		t.Error("embedded font missing")
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		100:     "100",
		1.5:     "1.5",
		-0.001:  "0",
		3.14159: "3.14",
	}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPNG(t *testing.T) {
	p := NewPNG(200, 100, WithPNGBackground("#0f172a"), WithPixelRatio(2))
	render.Draw(p, scene(), render.View{Transform: render.Transform{Scale: 0.5, TX: 100, TY: 50}, ShowLabels: true})

	data, err := p.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
	// The bottom-right corner is empty, so it keeps the background color.
	r, g, b, _ := img.At(399, 199).RGBA()
	if !close8(r, 0x0f) || !close8(g, 0x17) || !close8(b, 0x2a) {
		t.Errorf("background = %x %x %x", r>>8, g>>8, b>>8)
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	render.Draw(rec, scene(), render.View{})
	if rec.Count(OpCircle) != 3 {
		t.Errorf("circles = %d, want 3", rec.Count(OpCircle))
	}
	rec.Reset()
	if len(rec.Ops) != 0 {
		t.Error("Reset() left ops")
	}
}

// close8 compares a 16-bit channel with an 8-bit value, allowing rounding.
func close8(c uint32, want int) bool {
	d := int(c>>8) - want
	return d >= -1 && d <= 1
}
