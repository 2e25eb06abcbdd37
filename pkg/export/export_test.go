package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kgviz/pkg/filter"
	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
)

func testScene() *layout.Scene {
	return layout.Build(graph.Data{
		Nodes: []graph.Node{
			{ID: "a", Label: "Alice", Type: graph.NodeTypeAuthor, Properties: graph.Properties{Confidence: graph.Float(0.9)}},
			{ID: "b", Label: "Acme", Type: graph.NodeTypeBrand},
			{ID: "solo", Label: "Solo"},
		},
		Edges: []graph.Edge{{ID: "ab", Source: "a", Target: "b", Type: graph.EdgeTypeMentions, Weight: 2}},
	}, layout.DefaultConfig())
}

func TestFilename(t *testing.T) {
	tests := []struct {
		dataset, want string
	}{
		{"campaign-42", "knowledge-graph-campaign-42.json"},
		{"Q3 Launch/EU", "knowledge-graph-Q3-Launch-EU.json"},
		{"../../etc/passwd", "knowledge-graph-etc-passwd.json"},
		{"", "knowledge-graph.json"},
		{"  ///  ", "knowledge-graph.json"},
		{"v1.2", "knowledge-graph-v1.2.json"},
	}
	for _, tt := range tests {
		if got := Filename(tt.dataset); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.dataset, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	doc := Build(testScene(), Options{
		Dataset:     "ds",
		Query:       filter.Query{Search: "a"},
		Width:       1200,
		Height:      600,
		GeneratedAt: at,
	})

	if _, err := uuid.Parse(doc.ExportID); err != nil {
		t.Errorf("ExportID %q is not a uuid: %v", doc.ExportID, err)
	}
	if !doc.GeneratedAt.Equal(at) {
		t.Errorf("GeneratedAt = %v", doc.GeneratedAt)
	}
	if doc.Counts != (Counts{Nodes: 3, Edges: 1, Isolated: 1}) {
		t.Errorf("Counts = %+v", doc.Counts)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}
	if n := doc.Nodes[0]; n.Size != 11.2 || n.Opacity != 1 || n.Isolated {
		t.Errorf("node a = %+v", n)
	}
	if !doc.Nodes[2].Isolated {
		t.Error("solo should be isolated")
	}
	if e := doc.Edges[0]; e.Source != "a" || e.Target != "b" || e.Width != 1.5 {
		t.Errorf("edge = %+v", e)
	}
}

func TestBuildNilScene(t *testing.T) {
	doc := Build(nil, Options{ID: "fixed"})
	if doc.ExportID != "fixed" || doc.Nodes == nil || doc.Edges == nil {
		t.Errorf("doc = %+v", doc)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	stats := json.RawMessage(`{"total":3}`)
	if err := WriteJSON(testScene(), Options{ID: "x", Dataset: "ds", Stats: stats}, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"export_id", "generated_at", "dataset", "query", "canvas", "counts", "nodes", "edges", "stats"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	node := got["nodes"].([]any)[0].(map[string]any)
	for _, key := range []string{"x", "y", "size", "color", "opacity", "isolated", "node_type"} {
		if _, ok := node[key]; !ok {
			t.Errorf("node missing key %q", key)
		}
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  \"export_id\"")) {
		t.Error("output should be indented")
	}
}

func TestExportJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := ExportJSON(testScene(), Options{Dataset: "demo"}, dir)
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	if filepath.Base(path) != "knowledge-graph-demo.json" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Dataset != "demo" || len(doc.Nodes) != 3 {
		t.Errorf("doc = %+v", doc)
	}
}
