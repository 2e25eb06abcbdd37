package filter

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/kgviz/pkg/graph"
)

func sampleGraph() graph.Data {
	return graph.Data{
		Nodes: []graph.Node{
			{ID: "a", Label: "Alice Cooper", Type: graph.NodeTypeAuthor},
			{ID: "b", Label: "Acme Corp", Type: graph.NodeTypeBrand},
			{ID: "c", Label: "#launch", Type: graph.NodeTypeHashtag},
			{ID: "d", Label: "Berlin", Type: graph.NodeTypeLocation},
		},
		Edges: []graph.Edge{
			{ID: "ab", Source: "a", Target: "b", Type: graph.EdgeTypeMentions, Weight: 1},
			{ID: "bc", Source: "b", Target: "c", Type: graph.EdgeTypeDiscusses, Weight: 1},
			{ID: "ad", Source: "a", Target: "d", Type: graph.EdgeTypeLocatedIn, Weight: 1},
		},
	}
}

func nodeIDs(d graph.Data) []string {
	ids := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func edgeIDs(d graph.Data) []string {
	ids := make([]string, len(d.Edges))
	for i, e := range d.Edges {
		ids[i] = e.ID
	}
	return ids
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		query     Query
		wantNodes []string
		wantEdges []string
	}{
		{
			name:      "EmptyQuery",
			query:     Query{},
			wantNodes: []string{"a", "b", "c", "d"},
			wantEdges: []string{"ab", "bc", "ad"},
		},
		{
			name:      "SearchLabelCaseInsensitive",
			query:     Query{Search: "ACME"},
			wantNodes: []string{"b"},
			wantEdges: []string{},
		},
		{
			name:      "SearchMatchesNodeType",
			query:     Query{Search: "auth"},
			wantNodes: []string{"a"},
			wantEdges: []string{},
		},
		{
			name:      "SearchMatchesSeveral",
			query:     Query{Search: "c"},
			wantNodes: []string{"a", "b", "c", "d"},
			wantEdges: []string{"ab", "bc", "ad"},
		},
		{
			name:      "NodeTypes",
			query:     Query{NodeTypes: []string{"author", "brand"}},
			wantNodes: []string{"a", "b"},
			wantEdges: []string{"ab"},
		},
		{
			name:      "EdgeTypes",
			query:     Query{EdgeTypes: []string{"located_in"}},
			wantNodes: []string{"a", "b", "c", "d"},
			wantEdges: []string{"ad"},
		},
		{
			name:      "ClosureDropsEdgesToHiddenNodes",
			query:     Query{NodeTypes: []string{"brand", "hashtag"}, EdgeTypes: []string{"mentions", "discusses"}},
			wantNodes: []string{"b", "c"},
			wantEdges: []string{"bc"},
		},
		{
			name:      "NoMatch",
			query:     Query{Search: "zzz-nothing"},
			wantNodes: []string{},
			wantEdges: []string{},
		},
		{
			name:      "WhitespaceOnlyIsEmpty",
			query:     Query{Search: "   ", NodeTypes: []string{"", " "}},
			wantNodes: []string{"a", "b", "c", "d"},
			wantEdges: []string{"ab", "bc", "ad"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleGraph(), tt.query)
			if ids := nodeIDs(got); !reflect.DeepEqual(ids, tt.wantNodes) {
				t.Errorf("nodes = %v, want %v", ids, tt.wantNodes)
			}
			if ids := edgeIDs(got); !reflect.DeepEqual(ids, tt.wantEdges) {
				t.Errorf("edges = %v, want %v", ids, tt.wantEdges)
			}
		})
	}
}

func TestApply_EmptyQueryIsIdentity(t *testing.T) {
	data := sampleGraph()
	data.Stats = []byte(`{"x":1}`)

	got := Apply(data, Query{})
	if &got.Nodes[0] != &data.Nodes[0] || &got.Edges[0] != &data.Edges[0] {
		t.Error("empty query should return the original slices")
	}
	if string(got.Stats) != `{"x":1}` {
		t.Errorf("stats not carried: %s", got.Stats)
	}
}

func TestApplyWithStats(t *testing.T) {
	_, stats := ApplyWithStats(sampleGraph(), Query{NodeTypes: []string{"author", "brand"}, EdgeTypes: []string{"mentions", "located_in"}})

	want := Stats{Nodes: 2, Edges: 1, DroppedNodes: 2, DroppedEdges: 1, ClosedEdges: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Search: "  x ", NodeTypes: []string{"a", "", "a", " b "}}.Normalize()
	if q.Search != "x" {
		t.Errorf("Search = %q", q.Search)
	}
	if !reflect.DeepEqual(q.NodeTypes, []string{"a", "b"}) {
		t.Errorf("NodeTypes = %v", q.NodeTypes)
	}
	if q.EdgeTypes != nil {
		t.Errorf("EdgeTypes = %v, want nil", q.EdgeTypes)
	}
	if !(Query{Search: " "}).IsEmpty() {
		t.Error("whitespace query should be empty")
	}
}

// randomGraph builds a graph with dangling edges mixed in, so the closure
// pass has something to do even on unfiltered input.
func randomGraph(seed int64) graph.Data {
	r := rand.New(rand.NewSource(seed))
	types := append([]graph.NodeType{"unknown"}, graph.NodeTypes...)
	n := r.Intn(30)
	d := graph.Data{}
	for i := 0; i < n; i++ {
		d.Nodes = append(d.Nodes, graph.Node{
			ID:    fmt.Sprintf("n%d", i),
			Label: fmt.Sprintf("label-%c%d", 'a'+rune(r.Intn(26)), i),
			Type:  types[r.Intn(len(types))],
		})
	}
	m := r.Intn(60)
	for i := 0; i < m; i++ {
		d.Edges = append(d.Edges, graph.Edge{
			ID:     fmt.Sprintf("e%d", i),
			Source: fmt.Sprintf("n%d", r.Intn(n+3)),
			Target: fmt.Sprintf("n%d", r.Intn(n+3)),
			Type:   graph.EdgeTypes[r.Intn(len(graph.EdgeTypes))],
			Weight: r.Float64() * 3,
		})
	}
	return d
}

func TestFilterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	nodeTypeGen := gen.SliceOf(gen.OneConstOf("author", "brand", "topic", "unknown", "event"))
	edgeTypeGen := gen.SliceOf(gen.OneConstOf("mentions", "follows", "part_of"))

	properties.Property("filtered edges reference filtered nodes", prop.ForAll(
		func(seed int64, search string, nodeTypes, edgeTypes []string) bool {
			out := Apply(randomGraph(seed), Query{Search: search, NodeTypes: nodeTypes, EdgeTypes: edgeTypes})
			if len(nodeTypes) == 0 && len(edgeTypes) == 0 && search == "" {
				return true // identity; raw data may dangle
			}
			ids := out.NodeIDs()
			for _, e := range out.Edges {
				if _, ok := ids[e.Source]; !ok {
					return false
				}
				if _, ok := ids[e.Target]; !ok {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.AlphaString(),
		nodeTypeGen,
		edgeTypeGen,
	))

	properties.Property("empty query keeps membership", prop.ForAll(
		func(seed int64) bool {
			data := randomGraph(seed)
			out := Apply(data, Query{})
			return reflect.DeepEqual(nodeIDs(out), nodeIDs(data)) && reflect.DeepEqual(edgeIDs(out), edgeIDs(data))
		},
		gen.Int64(),
	))

	properties.Property("output is a subset of input", prop.ForAll(
		func(seed int64, search string) bool {
			data := randomGraph(seed)
			out := Apply(data, Query{Search: search})
			return len(out.Nodes) <= len(data.Nodes) && len(out.Edges) <= len(data.Edges)
		},
		gen.Int64(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
