// Package pipeline provides the filter → layout → render pipeline shared
// by every kgviz command.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Filter: select the subgraph matching the search text and type filters
//  2. Layout: size, color and place the surviving nodes, then optionally
//     spread them over the canvas and expand one node's neighborhood
//  3. Render: draw the scene into the requested formats (SVG, PNG, PDF,
//     JSON export, DOT, Graphviz SVG)
//
// Rendered artifacts are cached by scene hash; filtering and layout are
// cheap and always recomputed.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	data, _ := graph.ReadFile("graph.json")
//	result, err := runner.Execute(ctx, data, pipeline.Options{
//	    Search:  "acme",
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgviz/pkg/cache"
	kerrors "github.com/matzehuels/kgviz/pkg/errors"
	"github.com/matzehuels/kgviz/pkg/filter"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultScale is the default PNG pixel ratio.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz" // SVG laid out by Graphviz neato
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// Extension returns the file extension used when writing format.
func Extension(format string) string {
	if format == FormatGraphviz {
		return ".graphviz.svg"
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	Dataset string `json:"dataset,omitempty"`

	// Filter options
	Search    string   `json:"search,omitempty"`
	NodeTypes []string `json:"node_types,omitempty"`
	EdgeTypes []string `json:"edge_types,omitempty"`

	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Focus  string  `json:"focus,omitempty"` // node whose neighborhood is expanded
	Shape  string  `json:"shape,omitempty"`
	Spread bool    `json:"spread,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Scale    float64  `json:"scale,omitempty"`    // PNG pixel ratio
	Detailed bool     `json:"detailed,omitempty"` // edge labels in DOT output
	Refresh  bool     `json:"refresh,omitempty"`  // bypass cached artifacts

	// Runtime options (not serialized)
	Layout *layout.Config `json:"-"`
	Theme  *render.Theme  `json:"-"`
	Logger *log.Logger    `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the laid-out, filtered graph.
	Scene *layout.Scene

	// SceneHash is the content hash of the scene, used for cache keys.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodesIn    int
	EdgesIn    int
	Filter     filter.Stats
	Isolated   int
	FilterTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool     // every artifact came from cache
	Cached    []string // formats served from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return kerrors.New(kerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot, graphviz)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for filtering and layout.
func (o *Options) SetLayoutDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Layout == nil {
		cfg := layout.DefaultConfig()
		o.Layout = &cfg
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and normalizes the shape name.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	shape, err := layout.ParseShape(o.Shape)
	if err != nil {
		return err
	}
	o.Shape = string(shape)
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Theme == nil {
		th := render.DefaultTheme()
		o.Theme = &th
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Query returns the filter query described by the options.
func (o *Options) Query() filter.Query {
	return filter.Query{
		Search:    o.Search,
		NodeTypes: o.NodeTypes,
		EdgeTypes: o.EdgeTypes,
	}.Normalize()
}

// ArtifactKeyOpts returns cache key options for rendering format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		Labels:  o.Labels,
		Dataset: o.Dataset,
	}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatDOT, FormatGraphviz:
		k.Detailed = o.Detailed
	}
	if o.Theme != nil {
		k.Theme = cache.HashJSON(o.Theme)
	}
	return k
}

// Cacheable reports whether a format is stored in the artifact cache. JSON
// exports carry a fresh id and timestamp, so they are always regenerated.
func Cacheable(format string) bool {
	return format != FormatJSON
}

// statsOrNil keeps empty source stats out of exports.
func statsOrNil(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
