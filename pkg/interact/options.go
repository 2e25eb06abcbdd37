package interact

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/render"
)

// Timing and zoom constants.
const (
	ZoomInFactor   = 1.2
	ZoomOutFactor  = 0.8
	ZoomDuration   = 1000 * time.Millisecond
	FitDuration    = 400 * time.Millisecond
	SearchDebounce = 300 * time.Millisecond
	SpreadFitDelay = 500 * time.Millisecond

	// MaxCanvasWidth caps the width taken from the container.
	MaxCanvasWidth = 1200.0
	// EdgeHitTolerance is the extra screen distance, in pixels, within
	// which a click still hits an edge.
	EdgeHitTolerance = 4.0
)

// Callbacks are invoked on selection changes. Any of them may be nil.
// Selecting a node always reports OnEdgeSelect(nil) and vice versa.
type Callbacks struct {
	OnNodeClick  func(n graph.Node)
	OnEdgeClick  func(e graph.Edge)
	OnNodeSelect func(n *layout.NodeView)
	OnEdgeSelect func(e *layout.EdgeView)
	// OnRebuild runs after every full rebuild of the scene.
	OnRebuild func(s *layout.Scene)
}

// Option configures a [Controller].
type Option func(*Controller)

// WithConfig sets the layout configuration.
func WithConfig(cfg layout.Config) Option { return func(c *Controller) { c.cfg = cfg } }

// WithCallbacks sets the host callbacks.
func WithCallbacks(cb Callbacks) Option { return func(c *Controller) { c.cb = cb } }

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSize sets the initial canvas size.
func WithSize(width, height float64) Option {
	return func(c *Controller) { c.width, c.height = width, height }
}

// WithMaxWidth overrides [MaxCanvasWidth].
func WithMaxWidth(w float64) Option { return func(c *Controller) { c.maxWidth = w } }

// WithDebounce overrides [SearchDebounce].
func WithDebounce(d time.Duration) Option { return func(c *Controller) { c.search.delay = d } }

// WithSpreadDelay overrides [SpreadFitDelay].
func WithSpreadDelay(d time.Duration) Option { return func(c *Controller) { c.fit.delay = d } }

// WithShape sets the initial focus shape.
func WithShape(s layout.Shape) Option { return func(c *Controller) { c.shape = s } }

// WithShowLabels toggles labels.
func WithShowLabels(on bool) Option { return func(c *Controller) { c.showLabels = on } }

// WithTheme overrides the default drawing theme.
func WithTheme(t render.Theme) Option { return func(c *Controller) { c.theme = &t } }

// WithoutSpreadOnLoad skips the spread-all that normally follows the first
// build.
func WithoutSpreadOnLoad() Option { return func(c *Controller) { c.spreadOnLoad = false } }
