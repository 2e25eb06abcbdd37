package layout

import "github.com/matzehuels/kgviz/pkg/graph"

// NodeView is a graph node positioned and styled for drawing.
type NodeView struct {
	graph.Node

	X, Y     float64
	Size     float64
	Color    string
	Opacity  float64
	Isolated bool
}

// Radius returns the drawn radius of the node. It is also the hit-test
// radius, so the clickable area always matches what is on screen.
func (n *NodeView) Radius() float64 {
	if n == nil || n.Size <= 0 {
		return DefaultNodeSize
	}
	return n.Size
}

// EdgeView is a graph edge resolved against the node views of its scene.
type EdgeView struct {
	graph.Edge

	From, To *NodeView
	Color    string
	Width    float64
}

// Resolved reports whether both endpoints point at node views.
func (e *EdgeView) Resolved() bool {
	return e != nil && e.From != nil && e.To != nil
}
