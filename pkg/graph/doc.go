// Package graph defines the knowledge-graph snapshot consumed by the
// visualization core and its JSON wire format.
//
// # Core Types
//
//   - [Data]: immutable snapshot of nodes, edges, and opaque stats
//   - [Node], [Edge]: typed entities and directed, weighted relations
//   - [Properties]: typed optional record for the node property bag
//   - [NodeType], [EdgeType]: fixed enumerations with a default category
//
// # Serialization
//
// Snapshots use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "label": "Alice", "node_type": "author",
//	             "properties": {"confidence": 0.9}}],
//	  "edges": [{"id": "e1", "source_node_id": "a", "target_node_id": "b",
//	             "edge_type": "mentions", "weight": 1.5}],
//	  "stats": {}
//	}
//
// Decoding also accepts camelCase keys ("nodeType", "sourceNodeId") and the
// short "source"/"target"/"type" forms, since upstream producers vary.
//
//	d, _ := graph.ReadFile("graph.json")   // File → Data
//	graph.WriteFile(d, "copy.json")        // Data → File
//
// # Property Access
//
// Property bags are untyped upstream. Every consumer reads signals through
// the accessor functions, which embed the fallbacks:
//
//	graph.Confidence(n.Properties)     // 0.5 when absent
//	graph.Verified(n.Properties)       // false when absent
//	graph.MentionCount(n.Properties)   // temporal_data.mention_count, 0 when absent
//
// # Concurrency
//
// Data values are treated as immutable once decoded; all functions are safe
// for concurrent reads.
package graph
