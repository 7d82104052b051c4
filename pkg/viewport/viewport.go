// Package viewport maps a world-space window onto a fixed-size canvas.
//
// The transforms are pure functions over [Viewport] values. [Controller]
// adds the pointer-drag state machine on top of them.
package viewport

import (
	"math"

	"github.com/matzehuels/argmap/pkg/layout"
)

// Defaults for a new diagram.
const (
	DefaultZoomOut     = 2.0
	DefaultSensitivity = 0.01
	DefaultCanvasW     = 1200.0
	DefaultCanvasH     = 800.0
)

// Point is a coordinate, either on screen (canvas pixels) or in the world.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Canvas is the drawing surface in pixels.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultCanvas returns a 1200x800 canvas.
func DefaultCanvas() Canvas { return Canvas{Width: DefaultCanvasW, Height: DefaultCanvasH} }

// Aspect returns width over height.
func (c Canvas) Aspect() float64 { return c.Width / c.Height }

// Valid reports whether both dimensions are positive.
func (c Canvas) Valid() bool { return c.Width > 0 && c.Height > 0 }

// Viewport is the visible world-space rectangle. X and Y are the top-left
// corner.
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the world point at the middle of the viewport.
func (v Viewport) Center() Point { return Point{X: v.X + v.Width/2, Y: v.Y + v.Height/2} }

// Rect returns the viewport as a layout rectangle.
func (v Viewport) Rect() layout.Rect {
	return layout.Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}

// ToScreen maps a world point to canvas pixels.
func ToScreen(v Viewport, c Canvas, p Point) Point {
	return Point{
		X: (p.X - v.X) * c.Width / v.Width,
		Y: (p.Y - v.Y) * c.Height / v.Height,
	}
}

// ToWorld maps canvas pixels to a world point. It is the inverse of
// [ToScreen].
func ToWorld(v Viewport, c Canvas, s Point) Point {
	return Point{
		X: v.X + s.X*v.Width/c.Width,
		Y: v.Y + s.Y*v.Height/c.Height,
	}
}

// Pan moves the viewport so the content follows a pointer that moved by
// delta screen pixels.
func Pan(v Viewport, c Canvas, delta Point) Viewport {
	v.X -= delta.X * v.Width / c.Width
	v.Y -= delta.Y * v.Height / c.Height
	return v
}

// Zoom scales the viewport by 1/factor around a screen anchor. The world
// point under anchor before the call stays under anchor afterwards. A
// factor above 1 zooms in.
func Zoom(v Viewport, c Canvas, anchor Point, factor float64) Viewport {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return v
	}
	w := ToWorld(v, c, anchor)
	width, height := v.Width/factor, v.Height/factor
	return Viewport{
		X:      w.X - anchor.X*width/c.Width,
		Y:      w.Y - anchor.Y*height/c.Height,
		Width:  width,
		Height: height,
	}
}

// ZoomFactor maps a vertical drag distance to a multiplicative factor.
// Dragging up (negative dy) zooms in.
func ZoomFactor(dy, sensitivity float64) float64 {
	return math.Exp(-dy * sensitivity)
}

// Fit returns the viewport centered on bounds, enlarged by zoomOut and then
// widened along one axis to match the canvas aspect ratio. The result always
// contains bounds scaled by zoomOut around its center. Empty bounds yield a
// canvas-sized window.
func Fit(bounds layout.Rect, c Canvas, zoomOut float64) Viewport {
	if zoomOut <= 0 {
		zoomOut = DefaultZoomOut
	}
	center := bounds.Center()
	w, h := bounds.Width*zoomOut, bounds.Height*zoomOut

	switch {
	case w <= 0 && h <= 0:
		w, h = c.Width, c.Height
	case w/h < c.Aspect():
		w = h * c.Aspect()
	default:
		h = w / c.Aspect()
	}
	return Viewport{X: center.X - w/2, Y: center.Y - h/2, Width: w, Height: h}
}
