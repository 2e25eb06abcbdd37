package graph

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// Node and Edge Types
// =============================================================================

// NodeType tags a node with one of the fixed entity categories. Values outside
// the enumeration are kept verbatim (filters match on the raw string) but
// resolve to [NodeTypeDefault] for coloring.
type NodeType string

// Known node types.
const (
	NodeTypeAuthor       NodeType = "author"
	NodeTypeBrand        NodeType = "brand"
	NodeTypeTopic        NodeType = "topic"
	NodeTypeHashtag      NodeType = "hashtag"
	NodeTypeInfluencer   NodeType = "influencer"
	NodeTypeLocation     NodeType = "location"
	NodeTypeOrganization NodeType = "organization"
	NodeTypeProduct      NodeType = "product"
	NodeTypeEvent        NodeType = "event"

	NodeTypeDefault NodeType = "default"
)

// NodeTypes lists the known node types in palette order.
var NodeTypes = []NodeType{
	NodeTypeAuthor, NodeTypeBrand, NodeTypeTopic, NodeTypeHashtag, NodeTypeInfluencer,
	NodeTypeLocation, NodeTypeOrganization, NodeTypeProduct, NodeTypeEvent,
}

// Known reports whether t is one of the enumerated node types.
func (t NodeType) Known() bool {
	for _, k := range NodeTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Category returns t for known types and [NodeTypeDefault] otherwise.
func (t NodeType) Category() NodeType {
	if t.Known() {
		return t
	}
	return NodeTypeDefault
}

// EdgeType tags an edge with one of the fixed relation categories.
type EdgeType string

// Known edge types.
const (
	EdgeTypeMentions      EdgeType = "mentions"
	EdgeTypeSentiment     EdgeType = "sentiment"
	EdgeTypeInteractsWith EdgeType = "interacts_with"
	EdgeTypeCompetesWith  EdgeType = "competes_with"
	EdgeTypeDiscusses     EdgeType = "discusses"
	EdgeTypeSharesTopic   EdgeType = "shares_topic"
	EdgeTypeFollows       EdgeType = "follows"
	EdgeTypeCollaborates  EdgeType = "collaborates"
	EdgeTypeInfluences    EdgeType = "influences"
	EdgeTypeLocatedIn     EdgeType = "located_in"
	EdgeTypePartOf        EdgeType = "part_of"
	EdgeTypeRelatedTo     EdgeType = "related_to"

	EdgeTypeDefault EdgeType = "default"
)

// EdgeTypes lists the known edge types in palette order.
var EdgeTypes = []EdgeType{
	EdgeTypeMentions, EdgeTypeSentiment, EdgeTypeInteractsWith, EdgeTypeCompetesWith,
	EdgeTypeDiscusses, EdgeTypeSharesTopic, EdgeTypeFollows, EdgeTypeCollaborates,
	EdgeTypeInfluences, EdgeTypeLocatedIn, EdgeTypePartOf, EdgeTypeRelatedTo,
}

// Known reports whether t is one of the enumerated edge types.
func (t EdgeType) Known() bool {
	for _, k := range EdgeTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Category returns t for known types and [EdgeTypeDefault] otherwise.
func (t EdgeType) Category() EdgeType {
	if t.Known() {
		return t
	}
	return EdgeTypeDefault
}

// =============================================================================
// Data - Graph Snapshot
// =============================================================================

// Data is an immutable snapshot of the knowledge graph as delivered by the
// data source. Stats is opaque to the visualization core and carried through
// untouched.
type Data struct {
	Nodes []Node          `json:"nodes"`
	Edges []Edge          `json:"edges"`
	Stats json.RawMessage `json:"stats,omitempty"`
}

// NodeCount returns the number of nodes in the snapshot.
func (d Data) NodeCount() int { return len(d.Nodes) }

// EdgeCount returns the number of edges in the snapshot.
func (d Data) EdgeCount() int { return len(d.Edges) }

// NodeIDs returns the set of node IDs present in the snapshot.
func (d Data) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}

// =============================================================================
// Node
// =============================================================================

// Node is a typed entity of the knowledge graph.
type Node struct {
	ID         string     `json:"id"`
	Label      string     `json:"label,omitempty"`
	Type       NodeType   `json:"node_type"`
	Properties Properties `json:"properties"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// UnmarshalJSON accepts both snake_case and camelCase keys for the node type
// ("node_type", "nodeType", "type").
func (n *Node) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID         json.RawMessage `json:"id"`
		Label      string          `json:"label"`
		NodeType   string          `json:"node_type"`
		NodeTypeCC string          `json:"nodeType"`
		Type       string          `json:"type"`
		Properties Properties      `json:"properties"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Node{
		ID:         rawID(aux.ID),
		Label:      aux.Label,
		Type:       NodeType(firstNonEmpty(aux.NodeType, aux.NodeTypeCC, aux.Type)),
		Properties: aux.Properties,
	}
	return nil
}

// =============================================================================
// Edge
// =============================================================================

// DefaultEdgeWeight is assumed when an edge arrives without a weight.
const DefaultEdgeWeight = 1.0

// Edge is a directed, typed, weighted relation between two nodes.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source_node_id"`
	Target string   `json:"target_node_id"`
	Type   EdgeType `json:"edge_type"`
	Weight float64  `json:"weight"`
}

// UnmarshalJSON accepts snake_case, camelCase, and short ("source"/"target")
// endpoint keys. A missing weight reads as [DefaultEdgeWeight].
func (e *Edge) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID           json.RawMessage `json:"id"`
		SourceNodeID json.RawMessage `json:"source_node_id"`
		SourceCC     json.RawMessage `json:"sourceNodeId"`
		Source       json.RawMessage `json:"source"`
		TargetNodeID json.RawMessage `json:"target_node_id"`
		TargetCC     json.RawMessage `json:"targetNodeId"`
		Target       json.RawMessage `json:"target"`
		EdgeType     string          `json:"edge_type"`
		EdgeTypeCC   string          `json:"edgeType"`
		Type         string          `json:"type"`
		Weight       any             `json:"weight"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	weight := DefaultEdgeWeight
	if w, ok := asFloat(aux.Weight); ok {
		weight = w
	}
	*e = Edge{
		ID:     rawID(aux.ID),
		Source: firstNonEmpty(rawID(aux.SourceNodeID), rawID(aux.SourceCC), rawID(aux.Source)),
		Target: firstNonEmpty(rawID(aux.TargetNodeID), rawID(aux.TargetCC), rawID(aux.Target)),
		Type:   EdgeType(firstNonEmpty(aux.EdgeType, aux.EdgeTypeCC, aux.Type)),
		Weight: weight,
	}
	return nil
}

// Weight returns the edge weight with negative or non-finite values read as 0.
func Weight(e Edge) float64 {
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
		return 0
	}
	return e.Weight
}

// =============================================================================
// Helpers
// =============================================================================

// rawID renders a JSON string or number as an identifier. IDs produced by
// upstream services are sometimes numeric.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// asFloat reads a loosely typed numeric value. Strings holding numbers are
// accepted; anything else reports false.
func asFloat(v any) (float64, bool) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asBool reads a loosely typed boolean value.
func asBool(v any) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}
