package viewport

import (
	"math"

	"github.com/matzehuels/argmap/pkg/layout"
)

// Zoom limits for one drag, relative to the viewport at drag start.
const (
	MinZoom = 0.05
	MaxZoom = 20.0
)

// Mode is the interaction chosen at drag start.
type Mode int

const (
	ModePan Mode = iota
	ModeZoom
)

func (m Mode) String() string {
	if m == ModeZoom {
		return "zoom"
	}
	return "pan"
}

// ParseMode maps "zoom" to [ModeZoom] and anything else to [ModePan].
func ParseMode(s string) Mode {
	if s == "zoom" {
		return ModeZoom
	}
	return ModePan
}

type drag struct {
	mode      Mode
	start     Point
	last      Point
	startView Viewport
}

// Controller owns one viewport and applies pointer events to it
// synchronously. It is not safe for concurrent use.
type Controller struct {
	canvas      Canvas
	zoomOut     float64
	sensitivity float64
	view        Viewport
	drag        *drag
}

// Option configures a [Controller].
type Option func(*Controller)

// WithZoomOut sets the factor applied by [Controller.Reset].
func WithZoomOut(f float64) Option {
	return func(c *Controller) {
		if f > 0 {
			c.zoomOut = f
		}
	}
}

// WithSensitivity sets how fast vertical drags zoom.
func WithSensitivity(s float64) Option {
	return func(c *Controller) {
		if s > 0 {
			c.sensitivity = s
		}
	}
}

// NewController returns a controller whose viewport initially matches the
// canvas. An invalid canvas is replaced by [DefaultCanvas].
func NewController(canvas Canvas, opts ...Option) *Controller {
	if !canvas.Valid() {
		canvas = DefaultCanvas()
	}
	c := &Controller{
		canvas:      canvas,
		zoomOut:     DefaultZoomOut,
		sensitivity: DefaultSensitivity,
		view:        Viewport{Width: canvas.Width, Height: canvas.Height},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Viewport returns the current viewport.
func (c *Controller) Viewport() Viewport { return c.view }

// Canvas returns the drawing surface.
func (c *Controller) Canvas() Canvas { return c.canvas }

// Dragging reports whether a pointer is down.
func (c *Controller) Dragging() bool { return c.drag != nil }

// PointerDown starts a drag at screen point p. The mode is fixed until
// [Controller.PointerUp].
func (c *Controller) PointerDown(p Point, m Mode) {
	c.drag = &drag{mode: m, start: p, last: p, startView: c.view}
}

// PointerMove applies the drag to the viewport and returns the result.
// Without an active drag it does nothing.
func (c *Controller) PointerMove(p Point) Viewport {
	d := c.drag
	if d == nil {
		return c.view
	}
	switch d.mode {
	case ModePan:
		c.view = Pan(c.view, c.canvas, p.Sub(d.last))
	case ModeZoom:
		f := clamp(ZoomFactor(p.Y-d.start.Y, c.sensitivity), MinZoom, MaxZoom)
		// The anchor is the world point under the pointer at drag start,
		// mapped through the drag-start transform.
		c.view = Zoom(d.startView, c.canvas, d.start, f)
	}
	d.last = p
	return c.view
}

// PointerUp ends the current drag.
func (c *Controller) PointerUp() { c.drag = nil }

// Reset fits the viewport to bounds with the configured zoom-out factor and
// cancels any drag.
func (c *Controller) Reset(bounds layout.Rect) Viewport {
	c.drag = nil
	c.view = Fit(bounds, c.canvas, c.zoomOut)
	return c.view
}

// PanBy pans by a screen delta outside of a drag.
func (c *Controller) PanBy(delta Point) Viewport {
	c.view = Pan(c.view, c.canvas, delta)
	return c.view
}

// ZoomAt zooms by factor around a screen anchor outside of a drag.
func (c *Controller) ZoomAt(anchor Point, factor float64) Viewport {
	c.view = Zoom(c.view, c.canvas, anchor, clamp(factor, MinZoom, MaxZoom))
	return c.view
}

// Wheel zooms around a screen anchor by a wheel delta. Positive dy zooms
// out.
func (c *Controller) Wheel(anchor Point, dy float64) Viewport {
	return c.ZoomAt(anchor, ZoomFactor(dy, c.sensitivity))
}

// ScreenCenter returns the middle of the canvas in screen pixels.
func (c *Controller) ScreenCenter() Point {
	return Point{X: c.canvas.Width / 2, Y: c.canvas.Height / 2}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
