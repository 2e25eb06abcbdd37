package pipeline

import (
	"time"

	"github.com/matzehuels/kgviz/pkg/cache"
	"github.com/matzehuels/kgviz/pkg/export"
	"github.com/matzehuels/kgviz/pkg/filter"
	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
)

// ComputeScene filters data and lays out the result. Spread centers the
// scene on the world origin, which is where a fresh viewport looks. A focus
// node must survive the filter.
func ComputeScene(data graph.Data, opts Options) (*layout.Scene, filter.Stats, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, filter.Stats{}, err
	}

	filtered, st := filter.ApplyWithStats(data, opts.Query())
	scene := layout.Build(filtered, *opts.Layout)

	if opts.Spread {
		scene.Spread(0, 0, opts.Width, opts.Height)
	}
	if opts.Focus != "" {
		moved, err := scene.Expand(opts.Focus, layout.Shape(opts.Shape))
		if err != nil {
			return nil, st, err
		}
		opts.Logger.Debug("expanded focus node",
			"node", opts.Focus, "shape", opts.Shape, "neighbors", len(moved))
	}
	return scene, st, nil
}

// SceneHash returns a content hash of the laid-out scene. Positions are
// rounded as in the JSON export, so float noise does not change the hash.
func SceneHash(s *layout.Scene) string {
	doc := export.Build(s, export.Options{ID: "scene", GeneratedAt: time.Unix(0, 0).UTC()})
	return cache.HashJSON(struct {
		Nodes []export.Node `json:"nodes"`
		Edges []export.Edge `json:"edges"`
	}{doc.Nodes, doc.Edges})
}
