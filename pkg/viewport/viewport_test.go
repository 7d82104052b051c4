package viewport

import (
	"math"
	"testing"

	"github.com/matzehuels/argmap/pkg/layout"
)

const eps = 1e-9

func nearPoint(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestToScreenToWorldRoundTrip(t *testing.T) {
	v := Viewport{X: -300, Y: 50, Width: 900, Height: 400}
	c := Canvas{Width: 1200, Height: 800}
	for _, s := range []Point{{0, 0}, {600, 400}, {1200, 800}, {17.5, 733}} {
		if got := ToScreen(v, c, ToWorld(v, c, s)); !nearPoint(got, s) {
			t.Errorf("round trip of %+v = %+v", s, got)
		}
	}
}

func TestPan(t *testing.T) {
	c := Canvas{Width: 1000, Height: 500}
	v := Viewport{X: 0, Y: 0, Width: 2000, Height: 1000}

	got := Pan(v, c, Point{X: 100, Y: -50})
	// Viewport is twice the canvas, so one pixel is two world units.
	want := Viewport{X: -200, Y: 100, Width: 2000, Height: 1000}
	if got != want {
		t.Errorf("Pan = %+v, want %+v", got, want)
	}

	// The world point under the pointer moves with it.
	p := Point{X: 300, Y: 300}
	w := ToWorld(v, c, p)
	if s := ToScreen(got, c, w); !nearPoint(s, Point{X: 400, Y: 250}) {
		t.Errorf("content did not follow pointer: %+v", s)
	}
}

func TestZoomKeepsAnchor(t *testing.T) {
	c := DefaultCanvas()
	views := []Viewport{
		{X: 0, Y: 0, Width: 1200, Height: 800},
		{X: -1234.5, Y: 99, Width: 3000, Height: 2000},
	}
	anchors := []Point{{0, 0}, {600, 400}, {1199, 1}, {321.7, 654.3}}
	factors := []float64{0.1, 0.5, 1, 1.7, 12}

	for _, v := range views {
		for _, a := range anchors {
			world := ToWorld(v, c, a)
			for _, f := range factors {
				z := Zoom(v, c, a, f)
				if got := ToScreen(z, c, world); !nearPoint(got, a) {
					t.Errorf("Zoom(%+v, %+v, %v): anchor moved to %+v", v, a, f, got)
				}
				if math.Abs(z.Width-v.Width/f) > eps {
					t.Errorf("width = %v, want %v", z.Width, v.Width/f)
				}
			}
		}
	}
}

func TestZoomIgnoresInvalidFactor(t *testing.T) {
	v := Viewport{Width: 10, Height: 10}
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := Zoom(v, DefaultCanvas(), Point{}, f); got != v {
			t.Errorf("Zoom with factor %v changed viewport", f)
		}
	}
}

func TestZoomFactor(t *testing.T) {
	if f := ZoomFactor(0, DefaultSensitivity); f != 1 {
		t.Errorf("ZoomFactor(0) = %v, want 1", f)
	}
	if ZoomFactor(-100, DefaultSensitivity) <= 1 {
		t.Error("dragging up should zoom in")
	}
	if ZoomFactor(100, DefaultSensitivity) >= 1 {
		t.Error("dragging down should zoom out")
	}
	if up, down := ZoomFactor(-50, 0.01), ZoomFactor(50, 0.01); math.Abs(up*down-1) > eps {
		t.Error("opposite drags should cancel")
	}
}

func TestFitContainsScaledBounds(t *testing.T) {
	canvases := []Canvas{{1200, 800}, {800, 1200}, {500, 500}}
	bounds := []layout.Rect{
		{X: 0, Y: 0, Width: 400, Height: 100},
		{X: -90, Y: 300, Width: 180, Height: 900},
		{X: 10, Y: 10, Width: 0, Height: 60},
		{X: 10, Y: 10, Width: 180, Height: 0},
	}
	for _, c := range canvases {
		for _, b := range bounds {
			for _, zoomOut := range []float64{1, 2, 3.5} {
				v := Fit(b, c, zoomOut)
				center := b.Center()
				scaled := layout.Rect{
					X:      center.X - b.Width*zoomOut/2,
					Y:      center.Y - b.Height*zoomOut/2,
					Width:  b.Width * zoomOut,
					Height: b.Height * zoomOut,
				}
				if !v.Rect().Contains(scaled) {
					t.Errorf("Fit(%+v, %+v, %v) = %+v does not contain %+v", b, c, zoomOut, v, scaled)
				}
				if vc := v.Center(); math.Abs(vc.X-center.X) > eps || math.Abs(vc.Y-center.Y) > eps {
					t.Errorf("Fit not centered: %+v vs %+v", vc, center)
				}
				if math.Abs(v.Width/v.Height-c.Aspect()) > 1e-9 {
					t.Errorf("Fit aspect = %v, want %v", v.Width/v.Height, c.Aspect())
				}
			}
		}
	}
}

func TestFitEmptyBounds(t *testing.T) {
	v := Fit(layout.Rect{}, DefaultCanvas(), 2)
	if v.Width != DefaultCanvasW || v.Height != DefaultCanvasH {
		t.Errorf("Fit(empty) = %+v, want canvas-sized window", v)
	}
}
