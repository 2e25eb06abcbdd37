// Package render draws a laid-out scene onto a canvas.
//
// # Overview
//
// [Draw] is a pure function from a [layout.Scene] and a [View] to a sequence
// of calls on a [Canvas]. It never mutates the scene. Coordinates passed to
// the canvas are world coordinates; the canvas applies the view [Transform]
// it receives first. Widths that must stay visually constant (node borders,
// label fonts, selection rings) are divided by the zoom scale.
//
// Draw order is edges, then nodes, then labels, so labels are never covered.
//
// # Canvases
//
// Implementations live in the [sink] subpackage:
//
//   - [sink.Recorder]: records draw operations (tests, debugging)
//   - [sink.SVG]: writes an SVG document
//   - [sink.PNG]: rasterizes with fogleman/gg
//
// # Format Conversion
//
// [ToPDF] converts SVG output with the external rsvg-convert tool
// (from librsvg).
//
//	svg := sink.NewSVG(800, 600)
//	render.Draw(svg, scene, view)
//	pdf, err := render.ToPDF(svg.Bytes())
//
// # Viewport
//
// [Viewport] owns the world-to-screen transform. It implements the surface
// contract used by the interaction controller: zoom, fit-to-view and the
// relaxation reheat hook.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage exports the scene as a Graphviz DOT document
// and renders it through go-graphviz.
package render
