package graph

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
)

const sampleJSON = `{
	"nodes": [
		{"id": "a", "label": "Alice", "node_type": "author", "properties": {"confidence": 0.9, "verified": true}},
		{"id": "b", "label": "Acme", "nodeType": "brand"},
		{"id": 7, "label": "Seven", "type": "hashtag"}
	],
	"edges": [
		{"id": "e1", "source_node_id": "a", "target_node_id": "b", "edge_type": "mentions", "weight": 2},
		{"sourceNodeId": "b", "targetNodeId": "7", "edgeType": "discusses"},
		{"source": "a", "target": "7", "type": "follows", "weight": "0.5"}
	],
	"stats": {"total_nodes": 3}
}`

func TestUnmarshal(t *testing.T) {
	d, err := Unmarshal([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if d.NodeCount() != 3 {
		t.Fatalf("NodeCount() = %d, want 3", d.NodeCount())
	}
	if d.EdgeCount() != 3 {
		t.Fatalf("EdgeCount() = %d, want 3", d.EdgeCount())
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"snake node type", d.Nodes[0].Type, NodeTypeAuthor},
		{"camel node type", d.Nodes[1].Type, NodeTypeBrand},
		{"short node type", d.Nodes[2].Type, NodeTypeHashtag},
		{"numeric id", d.Nodes[2].ID, "7"},
		{"snake endpoints", d.Edges[0].Source + ">" + d.Edges[0].Target, "a>b"},
		{"camel endpoints", d.Edges[1].Source + ">" + d.Edges[1].Target, "b>7"},
		{"short endpoints", d.Edges[2].Source + ">" + d.Edges[2].Target, "a>7"},
		{"explicit weight", d.Edges[0].Weight, 2.0},
		{"default weight", d.Edges[1].Weight, DefaultEdgeWeight},
		{"string weight", d.Edges[2].Weight, 0.5},
		{"synthesized edge id", d.Edges[1].ID, "b->7#1"},
		{"camel edge type", d.Edges[1].Type, EdgeTypeDiscusses},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if !strings.Contains(string(d.Stats), "total_nodes") {
		t.Errorf("Stats not preserved: %s", d.Stats)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	_, err := Unmarshal([]byte(`{"nodes": [`))
	if err == nil {
		t.Fatal("Unmarshal() expected error for truncated JSON")
	}
	if !kerrors.Is(err, kerrors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", kerrors.GetCode(err), kerrors.ErrCodeInvalidInput)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	d, err := Unmarshal([]byte(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}

	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal(Marshal()) error: %v", err)
	}
	if back.NodeCount() != d.NodeCount() || back.EdgeCount() != d.EdgeCount() {
		t.Fatalf("round trip changed counts: %d/%d", back.NodeCount(), back.EdgeCount())
	}
	if Confidence(back.Nodes[0].Properties) != 0.9 {
		t.Errorf("confidence lost in round trip")
	}
	if back.Edges[1].ID != d.Edges[1].ID {
		t.Errorf("edge id changed: %q vs %q", back.Edges[1].ID, d.Edges[1].ID)
	}
}

func TestMarshal_EmptyUsesArrays(t *testing.T) {
	data, err := Marshal(Data{})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["nodes"]) != "[]" || string(raw["edges"]) != "[]" {
		t.Errorf("empty data should encode empty arrays, got %s", data)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	d, _ := Unmarshal([]byte(sampleJSON))
	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got.NodeCount() != 3 {
		t.Errorf("ReadFile() nodes = %d, want 3", got.NodeCount())
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	if !kerrors.Is(err, kerrors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) code = %v, want %v", kerrors.GetCode(err), kerrors.ErrCodeFileNotFound)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	d := Data{Nodes: []Node{{ID: "x", Type: NodeTypeTopic}}}
	if err := Write(d, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"node_type": "topic"`) {
		t.Errorf("Write() output missing node_type: %s", buf.String())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    Data
		wantErr bool
	}{
		{
			name:    "Empty",
			data:    Data{},
			wantErr: false,
		},
		{
			name: "Valid",
			data: Data{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Edges: []Edge{{ID: "e", Source: "a", Target: "b", Weight: 1}},
			},
			wantErr: false,
		},
		{
			name:    "DuplicateNode",
			data:    Data{Nodes: []Node{{ID: "a"}, {ID: "a"}}},
			wantErr: true,
		},
		{
			name:    "EmptyID",
			data:    Data{Nodes: []Node{{ID: ""}}},
			wantErr: true,
		},
		{
			name: "DanglingEdge",
			data: Data{
				Nodes: []Node{{ID: "a"}},
				Edges: []Edge{{ID: "e", Source: "a", Target: "ghost"}},
			},
			wantErr: true,
		},
		{
			name: "NegativeWeight",
			data: Data{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Edges: []Edge{{ID: "e", Source: "a", Target: "b", Weight: -1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !kerrors.Is(err, kerrors.ErrCodeInvalidGraph) {
				t.Errorf("Validate() code = %v, want %v", kerrors.GetCode(err), kerrors.ErrCodeInvalidGraph)
			}
		})
	}
}

func TestTypeCategory(t *testing.T) {
	if NodeType("celebrity").Category() != NodeTypeDefault {
		t.Error("unknown node type should map to default category")
	}
	if NodeTypeEvent.Category() != NodeTypeEvent {
		t.Error("known node type should map to itself")
	}
	if EdgeType("likes").Category() != EdgeTypeDefault {
		t.Error("unknown edge type should map to default category")
	}
	if len(NodeTypes) != 9 || len(EdgeTypes) != 12 {
		t.Errorf("enumerations: %d node types, %d edge types", len(NodeTypes), len(EdgeTypes))
	}
}

func TestWeight(t *testing.T) {
	if Weight(Edge{Weight: -3}) != 0 {
		t.Error("negative weight should read as 0")
	}
	if Weight(Edge{Weight: 2.5}) != 2.5 {
		t.Error("positive weight should be preserved")
	}
}

func TestDisplayLabel(t *testing.T) {
	n := Node{ID: "id-1"}
	if n.DisplayLabel() != "id-1" {
		t.Errorf("DisplayLabel() = %q, want id fallback", n.DisplayLabel())
	}
	n.Label = "Nice"
	if n.DisplayLabel() != "Nice" {
		t.Errorf("DisplayLabel() = %q, want label", n.DisplayLabel())
	}
}
