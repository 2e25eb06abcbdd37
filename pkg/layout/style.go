package layout

import (
	"math"

	"github.com/matzehuels/kgviz/pkg/graph"
)

// NodeSize computes the drawn radius of a node from its properties.
// The result always lies within [cfg.Size.Min, cfg.Size.Max].
func NodeSize(p graph.Properties, cfg SizeConfig) float64 {
	base := clamp(cfg.BaseMin, cfg.BaseMax, graph.Confidence(p)*cfg.ConfidenceScale+cfg.ConfidenceOffset)

	if graph.EngagementRate(p) > cfg.EngagementThreshold {
		base *= cfg.EngagementBoost
	}
	if graph.Verified(p) {
		base *= cfg.VerifiedBoost
	}
	if graph.FollowerCount(p) > cfg.FollowerThreshold {
		base *= cfg.FollowerBoost
	}
	if graph.MentionCount(p) > cfg.MentionThreshold {
		base *= cfg.MentionBoost
	}
	if math.Abs(graph.SentimentScore(p)) > cfg.SentimentThreshold {
		base *= cfg.SentimentBoost
	}

	return clamp(cfg.Min, cfg.Max, base)
}

// NodeOpacity returns 1 for high-confidence nodes and cfg.DimOpacity otherwise.
func NodeOpacity(p graph.Properties, cfg SizeConfig) float64 {
	if graph.Confidence(p) > cfg.OpaqueConfidence {
		return 1
	}
	return cfg.DimOpacity
}

// EdgeWidth maps an edge weight to a stroke width.
func EdgeWidth(e graph.Edge, cfg EdgeConfig) float64 {
	return clamp(cfg.WidthMin, cfg.WidthMax, graph.Weight(e)*cfg.WeightScale+cfg.WeightOffset)
}

// clamp bounds v to [lo, hi]. NaN collapses to lo.
func clamp(lo, hi, v float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
