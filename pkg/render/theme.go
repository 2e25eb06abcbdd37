package render

// Theme holds the colors and pixel sizes used by [Draw] that do not come
// from the scene itself. Pixel sizes are divided by the zoom scale.
type Theme struct {
	Background string `toml:"background" json:"background"`

	NodeBorder     string  `toml:"node_border" json:"node_border"`
	BorderWidth    float64 `toml:"border_width" json:"border_width"`         // px
	BigBorderWidth float64 `toml:"big_border_width" json:"big_border_width"` // px, for nodes larger than GlowSize
	GlowSize       float64 `toml:"glow_size" json:"glow_size"`               // nodes larger than this glow and get the big border
	HighlightSize  float64 `toml:"highlight_size" json:"highlight_size"`     // nodes larger than this get an inner highlight
	HighlightColor string  `toml:"highlight_color" json:"highlight_color"`
	HighlightAlpha float64 `toml:"highlight_alpha" json:"highlight_alpha"`

	EdgeAlpha     float64 `toml:"edge_alpha" json:"edge_alpha"`
	HaloWidth     float64 `toml:"halo_width" json:"halo_width"` // px added to the edge width
	HaloAlpha     float64 `toml:"halo_alpha" json:"halo_alpha"`
	ArrowLength   float64 `toml:"arrow_length" json:"arrow_length"`       // world units, plus twice the edge width
	ArrowHalfSpan float64 `toml:"arrow_half_span" json:"arrow_half_span"` // radians

	MinLabelScale   float64 `toml:"min_label_scale" json:"min_label_scale"`
	LabelSize       float64 `toml:"label_size" json:"label_size"` // px
	LabelColor      string  `toml:"label_color" json:"label_color"`
	LabelBackground string  `toml:"label_background" json:"label_background"`
	LabelAlpha      float64 `toml:"label_alpha" json:"label_alpha"`
	LabelPadding    float64 `toml:"label_padding" json:"label_padding"` // px
	LabelRadius     float64 `toml:"label_radius" json:"label_radius"`   // px

	Accent      string  `toml:"accent" json:"accent"`
	AccentWidth float64 `toml:"accent_width" json:"accent_width"` // px
}

// DefaultTheme returns the reference theme.
func DefaultTheme() Theme {
	return Theme{
		Background: "#0f172a",

		NodeBorder:     "#f8fafc",
		BorderWidth:    2,
		BigBorderWidth: 3,
		GlowSize:       15,
		HighlightSize:  12,
		HighlightColor: "#ffffff",
		HighlightAlpha: 0.3,

		EdgeAlpha:     0.8,
		HaloWidth:     3,
		HaloAlpha:     0.2,
		ArrowLength:   6,
		ArrowHalfSpan: 0.5235987755982988, // π/6

		MinLabelScale:   0.6,
		LabelSize:       12,
		LabelColor:      "#f8fafc",
		LabelBackground: "#0f172a",
		LabelAlpha:      0.8,
		LabelPadding:    3,
		LabelRadius:     3,

		Accent:      "#facc15",
		AccentWidth: 3,
	}
}
