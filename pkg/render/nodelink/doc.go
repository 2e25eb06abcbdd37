// Package nodelink exports a laid-out scene as a Graphviz node-link diagram.
//
// # Usage
//
// Convert a scene to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(scene, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: labels carry the node type, confidence and reach signals
//   - Positioned: nodes are pinned to their scene coordinates (neato)
//
// Without Positioned, Graphviz computes its own left-to-right layout, which
// is useful as a second opinion on dense neighborhoods.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
