package graph

import (
	"fmt"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
)

// Validate checks the raw-data invariants of a snapshot: node IDs are
// non-empty and unique, and every edge references nodes of the same snapshot.
//
// The visualization core does not depend on a valid snapshot (the filter's
// closure pass drops dangling edges regardless); Validate exists so hosts can
// surface upstream data problems. All problems are reported together in a
// single error with code INVALID_GRAPH.
func Validate(d Data) error {
	var problems []error
	seen := make(map[string]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			problems = append(problems, fmt.Errorf("node %d: empty id", i))
			continue
		}
		if _, dup := seen[n.ID]; dup {
			problems = append(problems, fmt.Errorf("node %q: duplicate id", n.ID))
			continue
		}
		seen[n.ID] = struct{}{}
	}

	for _, e := range d.Edges {
		if _, ok := seen[e.Source]; !ok {
			problems = append(problems, fmt.Errorf("edge %q: unknown source node %q", e.ID, e.Source))
		}
		if _, ok := seen[e.Target]; !ok {
			problems = append(problems, fmt.Errorf("edge %q: unknown target node %q", e.ID, e.Target))
		}
		if e.Weight < 0 {
			problems = append(problems, fmt.Errorf("edge %q: negative weight %g", e.ID, e.Weight))
		}
	}

	return kerrors.Join(kerrors.ErrCodeInvalidGraph, "invalid graph data", problems...)
}
