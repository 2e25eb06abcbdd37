// Package filter derives referentially consistent subgraphs from a search
// term and node/edge type selections.
//
// Filtering runs in three passes:
//
//  1. Node predicate: the search term (case-insensitive substring of the label
//     or the node type) and the node type selection.
//  2. Edge predicate: the edge type selection.
//  3. Closure: edges whose source or target did not survive pass 1 are
//     dropped, so an edge is never shown dangling.
//
// An empty query returns the input snapshot unchanged. Filtering never fails;
// a missing or malformed axis simply applies no filter on that axis.
package filter

import (
	"slices"
	"strings"

	"github.com/matzehuels/kgviz/pkg/graph"
)

// Query selects a subgraph. Zero values mean "no filter" on that axis.
type Query struct {
	Search    string   `json:"search,omitempty" toml:"search"`
	NodeTypes []string `json:"node_types,omitempty" toml:"node_types"`
	EdgeTypes []string `json:"edge_types,omitempty" toml:"edge_types"`
}

// Normalize trims the search term and removes empty or duplicate type entries.
func (q Query) Normalize() Query {
	return Query{
		Search:    strings.TrimSpace(q.Search),
		NodeTypes: cleanTypes(q.NodeTypes),
		EdgeTypes: cleanTypes(q.EdgeTypes),
	}
}

// IsEmpty reports whether the query filters nothing.
func (q Query) IsEmpty() bool {
	n := q.Normalize()
	return n.Search == "" && len(n.NodeTypes) == 0 && len(n.EdgeTypes) == 0
}

// Stats describes what a filter pass kept and dropped.
type Stats struct {
	Nodes        int // nodes kept
	Edges        int // edges kept
	DroppedNodes int // nodes rejected by the node predicate
	DroppedEdges int // edges rejected by the edge predicate
	ClosedEdges  int // edges removed by the closure pass
}

// Apply returns the subgraph of data selected by q.
func Apply(data graph.Data, q Query) graph.Data {
	out, _ := ApplyWithStats(data, q)
	return out
}

// ApplyWithStats is [Apply] that also reports per-pass counts.
func ApplyWithStats(data graph.Data, q Query) (graph.Data, Stats) {
	q = q.Normalize()
	if q.Search == "" && len(q.NodeTypes) == 0 && len(q.EdgeTypes) == 0 {
		return data, Stats{Nodes: len(data.Nodes), Edges: len(data.Edges)}
	}

	var stats Stats
	term := strings.ToLower(q.Search)

	nodes := make([]graph.Node, 0, len(data.Nodes))
	kept := make(map[string]struct{}, len(data.Nodes))
	for _, n := range data.Nodes {
		if !matchNode(n, term, q.NodeTypes) {
			stats.DroppedNodes++
			continue
		}
		nodes = append(nodes, n)
		kept[n.ID] = struct{}{}
	}

	edges := make([]graph.Edge, 0, len(data.Edges))
	for _, e := range data.Edges {
		if len(q.EdgeTypes) > 0 && !slices.Contains(q.EdgeTypes, string(e.Type)) {
			stats.DroppedEdges++
			continue
		}
		_, srcOK := kept[e.Source]
		_, dstOK := kept[e.Target]
		if !srcOK || !dstOK {
			stats.ClosedEdges++
			continue
		}
		edges = append(edges, e)
	}

	stats.Nodes = len(nodes)
	stats.Edges = len(edges)
	return graph.Data{Nodes: nodes, Edges: edges, Stats: data.Stats}, stats
}

func matchNode(n graph.Node, term string, types []string) bool {
	if term != "" &&
		!strings.Contains(strings.ToLower(n.Label), term) &&
		!strings.Contains(strings.ToLower(string(n.Type)), term) {
		return false
	}
	if len(types) > 0 && !slices.Contains(types, string(n.Type)) {
		return false
	}
	return true
}

func cleanTypes(types []string) []string {
	var out []string
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
