// Package export serializes a laid-out scene as a downloadable JSON document.
//
// The document contains the post-filter, post-layout graph: every node with
// its position and visual encodings, every edge with its color and width,
// plus the filter query and canvas size that produced it.
//
//	{
//	  "export_id": "5f0c…",
//	  "generated_at": "2026-01-02T15:04:05Z",
//	  "dataset": "campaign-42",
//	  "query": {"search": "acme"},
//	  "canvas": {"width": 1200, "height": 600},
//	  "counts": {"nodes": 2, "edges": 1, "isolated": 0},
//	  "nodes": [{"id": "a", "x": 42.4, "y": 0, "size": 8, ...}],
//	  "edges": [{"id": "ab", "source_node_id": "a", ...}],
//	  "stats": {...}
//	}
//
// [Filename] derives the conventional file name from the dataset id.
package export
