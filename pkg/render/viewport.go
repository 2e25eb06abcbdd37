package render

import (
	"math"
	"sync"
	"time"

	"github.com/matzehuels/kgviz/pkg/layout"
)

// Zoom limits applied by [Viewport].
const (
	MinZoom = 0.1
	MaxZoom = 8.0
)

// FitPadding is the screen margin kept around the scene by FitToView.
const FitPadding = 40.0

// Viewport is the world-to-screen camera for one canvas.
//
// It stands in for the rendering surface of an interactive host: zoom and
// fit requests take effect immediately and the requested transition
// duration is only recorded, since there is no animation loop to drive.
// Reheat stores the scene that FitToView frames and counts how often the
// relaxation step was seeded.
type Viewport struct {
	mu sync.Mutex

	width, height float64
	scale         float64
	cx, cy        float64 // world point at the screen center

	scene      *layout.Scene
	reheats    int
	transition time.Duration
}

// NewViewport creates a viewport for a screen of the given size centered on
// the world origin at scale 1.
func NewViewport(width, height float64) *Viewport {
	v := &Viewport{scale: 1}
	v.Resize(width, height)
	return v
}

// Resize sets the screen size. Non-positive sizes fall back to the layout
// defaults.
func (v *Viewport) Resize(width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width <= 0 {
		width = layout.DefaultWidth
	}
	if height <= 0 {
		height = layout.DefaultHeight
	}
	v.width, v.height = width, height
}

// Size returns the screen size.
func (v *Viewport) Size() (width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Zoom returns the current scale.
func (v *Viewport) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale
}

// ZoomTo sets the scale, clamped to [MinZoom, MaxZoom], keeping the screen
// center fixed.
func (v *Viewport) ZoomTo(k float64, d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scale = clampZoom(k)
	v.transition = d
}

// CenterOn moves the camera so the world point (x, y) is at the screen center.
func (v *Viewport) CenterOn(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cx, v.cy = x, y
}

// Pan shifts the camera by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cx -= dx / v.scale
	v.cy -= dy / v.scale
}

// FitToView frames the bounds of the last reheated scene. An empty or
// missing scene resets to scale 1 at the origin.
func (v *Viewport) FitToView(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transition = d

	b, ok := v.scene.Bounds()
	if !ok {
		v.scale, v.cx, v.cy = 1, 0, 0
		return
	}
	v.cx, v.cy = b.Center()

	availW := math.Max(1, v.width-2*FitPadding)
	availH := math.Max(1, v.height-2*FitPadding)
	bw, bh := math.Max(b.Width(), 1), math.Max(b.Height(), 1)
	v.scale = clampZoom(math.Min(availW/bw, availH/bh))
}

// Reheat seeds the relaxation step with a freshly built scene.
func (v *Viewport) Reheat(s *layout.Scene) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scene = s
	v.reheats++
}

// Reheats returns how many times Reheat was called.
func (v *Viewport) Reheats() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reheats
}

// Transition returns the duration of the last zoom or fit request.
func (v *Viewport) Transition() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transition
}

// Transform returns the current world-to-screen transform.
func (v *Viewport) Transform() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Transform{
		Scale: v.scale,
		TX:    v.width/2 - v.cx*v.scale,
		TY:    v.height/2 - v.cy*v.scale,
	}
}

func clampZoom(k float64) float64 {
	if math.IsNaN(k) || k < MinZoom {
		return MinZoom
	}
	if k > MaxZoom {
		return MaxZoom
	}
	return k
}
