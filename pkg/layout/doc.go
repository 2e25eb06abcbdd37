// Package layout turns filtered graph data into positioned, styled views.
//
// [Build] classifies every node as isolated or connected (relative to the
// edges that survived filtering), computes its size, color and opacity, and
// places it with the deterministic initial layout: isolated nodes on a tight
// ring away from the origin, connected nodes on a ring at the origin.
//
// The resulting [Scene] is an arena of stable-identity [NodeView] cells for
// one render session. [Scene.Expand] and [Scene.Spread] write coordinates
// onto those cells in place; edge views hold pointers to them, so every
// consumer sees the new positions without a rebuild. A scene is replaced
// wholesale when the data, the filter, or the canvas size changes.
//
// All tunable constants (palettes, boosts, radii, shape distances) live in
// [Config]; [DefaultConfig] returns the reference values.
package layout
