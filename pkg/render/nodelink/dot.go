package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node type and the signals that drive node size to
	// node labels, and the edge type and weight to edge labels.
	Detailed bool
	// Positioned pins every node to its scene coordinates and lays the
	// graph out with neato instead of dot.
	Positioned bool
}

// pointsPerUnit converts scene units (pixels) to Graphviz points.
const pointsPerUnit = 0.75

// ToDOT converts a scene to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Node fill colors and edge colors and widths come from the scene, so the
// diagram uses the same encodings as the canvas renderers. Isolated nodes
// are drawn with a dashed outline.
func ToDOT(s *layout.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Positioned {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=true;\n")
	} else {
		buf.WriteString("  rankdir=LR;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=false, fontsize=10, fontcolor=\"#111827\", color=\"#f8fafc\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	if s != nil {
		for _, n := range s.Nodes {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
		}
		buf.WriteString("\n")
		for _, e := range s.Edges {
			if !e.Resolved() {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From.ID, e.To.ID, strings.Join(edgeAttrs(e, opts), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *layout.NodeView, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", n.Color),
		fmt.Sprintf("width=%.2f", 2*n.Radius()*pointsPerUnit/72),
	}
	if n.Isolated {
		attrs = append(attrs, `style="filled,dashed"`)
	}
	if opts.Positioned {
		// Graphviz puts y up.
		attrs = append(attrs, fmt.Sprintf(`pos="%.2f,%.2f!"`, n.X*pointsPerUnit, -n.Y*pointsPerUnit))
	}
	return attrs
}

func nodeLabel(n *layout.NodeView, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	parts := []string{label, "type: " + string(n.Type.Category())}
	parts = append(parts, fmt.Sprintf("confidence: %.2f", graph.Confidence(n.Properties)))
	if graph.Verified(n.Properties) {
		parts = append(parts, "verified")
	}
	if f := graph.FollowerCount(n.Properties); f > 0 {
		parts = append(parts, fmt.Sprintf("followers: %.0f", f))
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e *layout.EdgeView, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("color=%q", e.Color),
		fmt.Sprintf("penwidth=%.2f", e.Width),
	}
	if opts.Detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprintf("%s (%.1f)", e.Type.Category(), graph.Weight(e.Edge))))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with render.ToPDF.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> tag (which sizes in points)
// with one sized in pixels from its viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
