package piste

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func newSizedCamera(w, h float64) *Camera {
	c := newCamera()
	c.width, c.height = w, h
	return c
}

func TestCameraDefaults(t *testing.T) {
	c := newCamera()
	if c.Zoom() != 1 {
		t.Errorf("Zoom = %v, want 1", c.Zoom())
	}
	if x, y := c.Position(); x != 0 || y != 0 {
		t.Errorf("Position = (%v,%v), want (0,0)", x, y)
	}
	if c.Animating() {
		t.Error("new camera should not be animating")
	}
}

func TestCameraAnimateViewportConverges(t *testing.T) {
	c := newSizedCamera(640, 480)
	c.AnimateViewport(100, -40)

	c.update(1.0 / 60)
	if x, y := c.Position(); x != 25 || y != -10 {
		t.Fatalf("after one step Position = (%v,%v), want (25,-10)", x, y)
	}

	for i := 0; i < 100 && c.Animating(); i++ {
		c.update(1.0 / 60)
	}
	if x, y := c.Position(); x != 100 || y != -40 {
		t.Errorf("Position = (%v,%v), want exactly (100,-40)", x, y)
	}
	if _, _, ok := c.Target(); ok {
		t.Error("target should be cleared once reached")
	}
}

func TestCameraSetViewportCancelsEasing(t *testing.T) {
	c := newSizedCamera(640, 480)
	c.AnimateViewport(100, 100)
	c.SetViewport(5, 6)
	c.update(1.0 / 60)
	if x, y := c.Position(); x != 5 || y != 6 {
		t.Errorf("Position = (%v,%v), want (5,6)", x, y)
	}
	if c.Animating() {
		t.Error("SetViewport should cancel the easing target")
	}
}

func TestCameraAnimateZoom(t *testing.T) {
	c := newSizedCamera(640, 480)
	c.AnimateZoom(2)
	c.update(1.0 / 60)
	if !approxEqual(c.Zoom(), 1.05, epsilon) {
		t.Fatalf("Zoom after one step = %v, want 1.05", c.Zoom())
	}
	for i := 0; i < 500 && c.Animating(); i++ {
		c.update(1.0 / 60)
	}
	if c.Zoom() != 2 {
		t.Errorf("Zoom = %v, want exactly 2", c.Zoom())
	}
}

func TestCameraScrollTo(t *testing.T) {
	c := newSizedCamera(640, 480)
	c.ScrollTo(200, 100, 1, ease.Linear)
	c.update(0.5)
	if x, y := c.Position(); !approxEqual(x, 100, 0.01) || !approxEqual(y, 50, 0.01) {
		t.Errorf("halfway Position = (%v,%v), want (100,50)", x, y)
	}
	c.update(0.5)
	if x, y := c.Position(); !approxEqual(x, 200, 0.01) || !approxEqual(y, 100, 0.01) {
		t.Errorf("final Position = (%v,%v), want (200,100)", x, y)
	}
	if c.Animating() {
		t.Error("scroll should be finished")
	}
}

func TestCameraEdges(t *testing.T) {
	c := newSizedCamera(640, 480)
	c.SetViewport(100, 50)

	want := map[Edge]float64{
		EdgeLeft:   -220,
		EdgeRight:  420,
		EdgeTop:    -190,
		EdgeBottom: 290,
	}
	for e, w := range want {
		if got := c.Edge(e); got != w {
			t.Errorf("Edge(%v) = %v, want %v", e, got, w)
		}
	}

	c.SetZoom(2)
	if got := c.Edge(EdgeLeft); got != -60 {
		t.Errorf("Edge(left) at zoom 2 = %v, want -60", got)
	}
	if got := c.Edge(EdgeBottom); got != 170 {
		t.Errorf("Edge(bottom) at zoom 2 = %v, want 170", got)
	}
}

func TestCameraDistanceOutside(t *testing.T) {
	c := newSizedCamera(640, 480)
	tests := []struct {
		edge  Edge
		coord float64
		want  float64
	}{
		{EdgeLeft, -400, 80},
		{EdgeLeft, 0, -320},
		{EdgeRight, 330, 10},
		{EdgeTop, -250, 10},
		{EdgeBottom, 250, 10},
		{EdgeBottom, 0, -240},
	}
	for _, tt := range tests {
		if got := c.DistanceOutside(tt.edge, tt.coord); got != tt.want {
			t.Errorf("DistanceOutside(%v, %v) = %v, want %v", tt.edge, tt.coord, got, tt.want)
		}
	}
}

func TestCameraVisibleBounds(t *testing.T) {
	c := newSizedCamera(200, 100)
	c.SetViewport(0, 0)
	if b := c.VisibleBounds(); b != (Box{-100, -50, 100, 50}) {
		t.Errorf("VisibleBounds = %v, want {-100 -50 100 50}", b)
	}
}

func TestCameraApplyCentersViewport(t *testing.T) {
	c := newSizedCamera(640, 480)
	c.SetViewport(100, 50)
	s := newRecordingSurface(640, 480)
	c.apply(s)
	if x, y := s.apply(100, 50); !approxEqual(x, 320, epsilon) || !approxEqual(y, 240, epsilon) {
		t.Errorf("camera center maps to (%v,%v), want (320,240)", x, y)
	}
}

func TestCameraApplyRoundsOffsets(t *testing.T) {
	c := newSizedCamera(640, 480)
	c.SetViewport(10.4, 20.6)
	s := newRecordingSurface(640, 480)
	c.apply(s)
	x, y := s.apply(0, 0)
	if x != 310 || y != 219 {
		t.Errorf("origin maps to (%v,%v), want (310,219)", x, y)
	}
}

func TestCameraApplyZoomScales(t *testing.T) {
	c := newSizedCamera(640, 480)
	c.SetZoom(2)
	s := newRecordingSurface(640, 480)
	c.apply(s)
	x0, y0 := s.apply(0, 0)
	x1, y1 := s.apply(1, 1)
	if !approxEqual(x1-x0, 2, epsilon) || !approxEqual(y1-y0, 2, epsilon) {
		t.Errorf("unit step at zoom 2 = (%v,%v), want (2,2)", x1-x0, y1-y0)
	}
}

func TestEdgeString(t *testing.T) {
	if EdgeLeft.String() != "left" || EdgeBottom.String() != "bottom" {
		t.Errorf("Edge names = %q, %q", EdgeLeft.String(), EdgeBottom.String())
	}
}
