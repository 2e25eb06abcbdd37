package interact

import (
	"time"

	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/render"
)

// Surface is the rendering and relaxation handle the controller drives.
// [render.Viewport] is the in-process implementation.
type Surface interface {
	// Zoom returns the current zoom scale.
	Zoom() float64
	// ZoomTo animates to scale k over d.
	ZoomTo(k float64, d time.Duration)
	// FitToView frames the whole scene over d.
	FitToView(d time.Duration)
	// Reheat seeds the relaxation step with a rebuilt or respread scene.
	Reheat(s *layout.Scene)
	// Resize updates the screen size.
	Resize(width, height float64)
	// Transform maps world coordinates to the screen.
	Transform() render.Transform
}

var _ Surface = (*render.Viewport)(nil)
