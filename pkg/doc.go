// Package pkg provides the core libraries for kgviz knowledge-graph
// visualization.
//
// # Overview
//
// kgviz turns knowledge-graph snapshots (typed entities such as authors,
// brands, topics and locations, joined by typed, weighted relations) into
// interactive node-link drawings. Nodes are sized by confidence,
// engagement and reach, colored by entity type, and arranged by a
// deterministic placement that puts isolated nodes on an outer ring.
//
// # Architecture
//
// The typical data flow:
//
//	GraphData JSON
//	     ↓
//	[graph] package (decode, validate)
//	     ↓
//	[filter] package (search text, entity and relation types)
//	     ↓
//	[layout] package (scene: sizes, colors, placement, spread, focus shapes)
//	     ↓
//	[render] package (draw commands onto SVG, PNG or a recorder)
//	     ↓
//	SVG/PNG/PDF/JSON/DOT output
//
// [interact] wires the same stages into an event-driven session: debounced
// search, immediate type filters and resizes, click selection with
// neighborhood expansion, zoom, spread and export.
//
// # Quick Start
//
//	data, _ := graph.ReadFile("graph.json")
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, data, pipeline.Options{
//	    Search:    "acme",
//	    NodeTypes: []string{"author", "brand"},
//	    Formats:   []string{"svg", "json"},
//	})
//	os.WriteFile("acme.svg", result.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// [graph] - Snapshot types (Data, Node, Edge, Properties) with tolerant JSON
// decoding of snake_case and camelCase keys.
//
// [filter] - Query application with closure: an edge survives only when
// both endpoints do.
//
// [layout] - Scene construction, node sizing and opacity, edge widths,
// circular placement, spread-all and focus expansion shapes.
//
// [render] - Pure drawing over a [render.Canvas], the viewport, themes and
// SVG to PDF conversion. [render/sink] holds the SVG, PNG and recording
// canvases; [render/nodelink] exports DOT and Graphviz SVG.
//
// [interact] - The interaction controller.
//
// [export] - The JSON export document and its file naming.
//
// ## Infrastructure
//
// [pipeline] - filter → layout → render orchestration used by the CLI, with
// per-format artifact caching.
//
// [cache] - Cache interface with file, Redis and null implementations.
//
// [config] - TOML configuration for layout, theme, canvas and cache.
//
// [observability] - Hook registry for pipeline, cache and interaction
// events, with a Prometheus implementation.
//
// [errors] - Structured error codes.
//
// # Testing
//
//	go test ./pkg/...
//	KGVIZ_TEST_REDIS_URL=redis://localhost:6379/15 go test ./pkg/cache/
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/graph
// [filter]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/filter
// [layout]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/render/nodelink
// [interact]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/interact
// [export]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/kgviz/pkg/errors
package pkg
