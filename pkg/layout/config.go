package layout

import "github.com/matzehuels/kgviz/pkg/graph"

// Config holds every tunable constant of the layout engine. The values are
// aesthetic (tuned by eye) rather than derived; they are reproduced exactly
// by [DefaultConfig] for visual parity and may be overridden from a TOML file
// (see pkg/config).
type Config struct {
	Size      SizeConfig      `toml:"size" json:"size"`
	Edge      EdgeConfig      `toml:"edge" json:"edge"`
	Placement PlacementConfig `toml:"placement" json:"placement"`
	Focus     FocusConfig     `toml:"focus" json:"focus"`
	Spread    SpreadConfig    `toml:"spread" json:"spread"`

	// NodeColors maps node types (and "default") to fill colors.
	NodeColors map[string]string `toml:"node_colors" json:"node_colors"`
	// EdgeColors maps edge types (and "default") to stroke colors.
	EdgeColors map[string]string `toml:"edge_colors" json:"edge_colors"`
	// IsolatedColor overrides the type color of nodes without visible edges.
	IsolatedColor string `toml:"isolated_color" json:"isolated_color"`
}

// SizeConfig controls the node size formula:
//
//	base = clamp(BaseMin, BaseMax, confidence*ConfidenceScale + ConfidenceOffset)
//	base *= EngagementBoost  if engagement_rate > EngagementThreshold
//	base *= VerifiedBoost    if verified
//	base *= FollowerBoost    if follower_count > FollowerThreshold
//	base *= MentionBoost     if temporal_data.mention_count > MentionThreshold
//	base *= SentimentBoost   if |sentiment_score| > SentimentThreshold
//	size = clamp(Min, Max, base)
//
// Boosts are applied in the order listed. Multiplication commutes, so the
// order does not change the result; it is fixed for reproducibility.
type SizeConfig struct {
	BaseMin          float64 `toml:"base_min" json:"base_min"`
	BaseMax          float64 `toml:"base_max" json:"base_max"`
	ConfidenceScale  float64 `toml:"confidence_scale" json:"confidence_scale"`
	ConfidenceOffset float64 `toml:"confidence_offset" json:"confidence_offset"`
	Min              float64 `toml:"min" json:"min"`
	Max              float64 `toml:"max" json:"max"`

	EngagementThreshold float64 `toml:"engagement_threshold" json:"engagement_threshold"`
	EngagementBoost     float64 `toml:"engagement_boost" json:"engagement_boost"`
	VerifiedBoost       float64 `toml:"verified_boost" json:"verified_boost"`
	FollowerThreshold   float64 `toml:"follower_threshold" json:"follower_threshold"`
	FollowerBoost       float64 `toml:"follower_boost" json:"follower_boost"`
	MentionThreshold    float64 `toml:"mention_threshold" json:"mention_threshold"`
	MentionBoost        float64 `toml:"mention_boost" json:"mention_boost"`
	SentimentThreshold  float64 `toml:"sentiment_threshold" json:"sentiment_threshold"`
	SentimentBoost      float64 `toml:"sentiment_boost" json:"sentiment_boost"`

	// Nodes with confidence above OpaqueConfidence draw fully opaque,
	// everything else at DimOpacity.
	OpaqueConfidence float64 `toml:"opaque_confidence" json:"opaque_confidence"`
	DimOpacity       float64 `toml:"dim_opacity" json:"dim_opacity"`
}

// EdgeConfig controls edge width: clamp(WidthMin, WidthMax, weight*WeightScale + WeightOffset).
type EdgeConfig struct {
	WidthMin     float64 `toml:"width_min" json:"width_min"`
	WidthMax     float64 `toml:"width_max" json:"width_max"`
	WeightScale  float64 `toml:"weight_scale" json:"weight_scale"`
	WeightOffset float64 `toml:"weight_offset" json:"weight_offset"`
}

// PlacementConfig controls the initial placement run on every full rebuild.
// Coordinates are world units with the canvas origin at (0, 0).
type PlacementConfig struct {
	IsolatedCenterX    float64 `toml:"isolated_center_x" json:"isolated_center_x"`
	IsolatedCenterY    float64 `toml:"isolated_center_y" json:"isolated_center_y"`
	IsolatedRadius     float64 `toml:"isolated_radius" json:"isolated_radius"`
	ConnectedCapRadius float64 `toml:"connected_cap_radius" json:"connected_cap_radius"`
	ConnectedScale     float64 `toml:"connected_scale" json:"connected_scale"`
}

// FocusConfig controls neighbor distances for focus expansion.
type FocusConfig struct {
	ArrowBase    float64 `toml:"arrow_base" json:"arrow_base"`
	ArrowStep    float64 `toml:"arrow_step" json:"arrow_step"`
	LineBase     float64 `toml:"line_base" json:"line_base"`
	LineStep     float64 `toml:"line_step" json:"line_step"`
	CircleRadius float64 `toml:"circle_radius" json:"circle_radius"`
}

// SpreadConfig controls spread-all, which scales placement to the actual
// canvas size. Fractions are relative to the canvas width/height.
type SpreadConfig struct {
	ConnectedRadiusFrac float64 `toml:"connected_radius_frac" json:"connected_radius_frac"`
	ConnectedScale      float64 `toml:"connected_scale" json:"connected_scale"`
	ReferenceSize       float64 `toml:"reference_size" json:"reference_size"`
	IsolatedOffsetFrac  float64 `toml:"isolated_offset_frac" json:"isolated_offset_frac"`
	IsolatedRadiusFrac  float64 `toml:"isolated_radius_frac" json:"isolated_radius_frac"`
}

// DefaultNodeSize is the radius used for a node whose size was never computed.
const DefaultNodeSize = 5.0

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Size: SizeConfig{
			BaseMin:          4,
			BaseMax:          12,
			ConfidenceScale:  8,
			ConfidenceOffset: 4,
			Min:              3,
			Max:              15,

			EngagementThreshold: 0.1,
			EngagementBoost:     1.2,
			VerifiedBoost:       1.1,
			FollowerThreshold:   10000,
			FollowerBoost:       1.3,
			MentionThreshold:    5,
			MentionBoost:        1.1,
			SentimentThreshold:  0.7,
			SentimentBoost:      1.05,

			OpaqueConfidence: 0.8,
			DimOpacity:       0.8,
		},
		Edge: EdgeConfig{
			WidthMin:     0.5,
			WidthMax:     2,
			WeightScale:  0.5,
			WeightOffset: 0.5,
		},
		Placement: PlacementConfig{
			IsolatedCenterX:    -200,
			IsolatedCenterY:    -150,
			IsolatedRadius:     8,
			ConnectedCapRadius: 200,
			ConnectedScale:     30,
		},
		Focus: FocusConfig{
			ArrowBase:    100,
			ArrowStep:    20,
			LineBase:     80,
			LineStep:     30,
			CircleRadius: 120,
		},
		Spread: SpreadConfig{
			ConnectedRadiusFrac: 0.35,
			ConnectedScale:      30,
			ReferenceSize:       600,
			IsolatedOffsetFrac:  0.4,
			IsolatedRadiusFrac:  0.02,
		},
		NodeColors: map[string]string{
			string(graph.NodeTypeAuthor):       "#4f46e5",
			string(graph.NodeTypeBrand):        "#059669",
			string(graph.NodeTypeTopic):        "#d97706",
			string(graph.NodeTypeHashtag):      "#7c3aed",
			string(graph.NodeTypeInfluencer):   "#db2777",
			string(graph.NodeTypeLocation):     "#0891b2",
			string(graph.NodeTypeOrganization): "#2563eb",
			string(graph.NodeTypeProduct):      "#65a30d",
			string(graph.NodeTypeEvent):        "#ea580c",
			string(graph.NodeTypeDefault):      "#6b7280",
		},
		EdgeColors: map[string]string{
			string(graph.EdgeTypeMentions):      "#60a5fa",
			string(graph.EdgeTypeSentiment):     "#f472b6",
			string(graph.EdgeTypeInteractsWith): "#34d399",
			string(graph.EdgeTypeCompetesWith):  "#f87171",
			string(graph.EdgeTypeDiscusses):     "#fbbf24",
			string(graph.EdgeTypeSharesTopic):   "#a78bfa",
			string(graph.EdgeTypeFollows):       "#38bdf8",
			string(graph.EdgeTypeCollaborates):  "#4ade80",
			string(graph.EdgeTypeInfluences):    "#fb923c",
			string(graph.EdgeTypeLocatedIn):     "#22d3ee",
			string(graph.EdgeTypePartOf):        "#818cf8",
			string(graph.EdgeTypeRelatedTo):     "#a3a3a3",
			string(graph.EdgeTypeDefault):       "#94a3b8",
		},
		IsolatedColor: "#dc2626",
	}
}

// NodeColor returns the palette color for a node type. Unknown types, and
// known types missing from an overridden palette, fall back to the default entry.
func (c Config) NodeColor(t graph.NodeType) string {
	if col, ok := c.NodeColors[string(t.Category())]; ok {
		return col
	}
	if col, ok := c.NodeColors[string(graph.NodeTypeDefault)]; ok {
		return col
	}
	return "#6b7280"
}

// EdgeColor returns the palette color for an edge type.
func (c Config) EdgeColor(t graph.EdgeType) string {
	if col, ok := c.EdgeColors[string(t.Category())]; ok {
		return col
	}
	if col, ok := c.EdgeColors[string(graph.EdgeTypeDefault)]; ok {
		return col
	}
	return "#94a3b8"
}
