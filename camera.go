package piste

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Easing constants, tuned for one step per display refresh.
const (
	viewportEasingStrength = 0.25
	viewportEasingEpsilon  = 0.1
	zoomEasingStrength     = 0.05
	zoomEasingEpsilon      = 0.005
)

// Edge names one side of the viewport.
type Edge uint8

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	default:
		return "unknown"
	}
}

// scrollAnim holds active scroll tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the stage viewport: the world point drawn at the surface center
// and a zoom factor. Position and zoom each either jump immediately or ease
// toward a target over the following frames.
type Camera struct {
	x, y float64
	zoom float64

	// Surface size seen at the last render, used for edge queries.
	width, height float64

	hasTarget        bool
	targetX, targetY float64

	hasTargetZoom bool
	targetZoom    float64

	scroll *scrollAnim
}

func newCamera() *Camera {
	return &Camera{zoom: 1}
}

// Position returns the world point at the center of the viewport.
func (c *Camera) Position() (x, y float64) { return c.x, c.y }

// Zoom returns the current zoom factor.
func (c *Camera) Zoom() float64 { return c.zoom }

// Target returns the easing target and whether one is active.
func (c *Camera) Target() (x, y float64, ok bool) {
	return c.targetX, c.targetY, c.hasTarget
}

// Animating reports whether position or zoom is still moving.
func (c *Camera) Animating() bool {
	return c.hasTarget || c.hasTargetZoom || c.scroll != nil
}

// SetViewport moves the camera immediately and cancels any easing or scroll.
func (c *Camera) SetViewport(x, y float64) {
	c.x, c.y = x, y
	c.hasTarget = false
	c.scroll = nil
}

// AnimateViewport eases the camera toward (x, y) over the following frames.
func (c *Camera) AnimateViewport(x, y float64) {
	c.targetX, c.targetY = x, y
	c.hasTarget = true
	c.scroll = nil
}

// ScrollTo moves the camera to (x, y) over duration seconds with easeFn.
// Unlike AnimateViewport the motion is time-based.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.hasTarget = false
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.x), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.y), float32(y), duration, easeFn),
	}
}

// SetZoom sets the zoom immediately and cancels any zoom easing.
func (c *Camera) SetZoom(z float64) {
	c.zoom = z
	c.hasTargetZoom = false
}

// AnimateZoom eases the zoom toward z over the following frames.
func (c *Camera) AnimateZoom(z float64) {
	c.targetZoom = z
	c.hasTargetZoom = true
}

// update advances scroll and easing. Called once per render.
func (c *Camera) update(dt float32) {
	if c.scroll != nil {
		if !c.scroll.doneX {
			val, done := c.scroll.tweenX.Update(dt)
			c.x = float64(val)
			c.scroll.doneX = done
		}
		if !c.scroll.doneY {
			val, done := c.scroll.tweenY.Update(dt)
			c.y = float64(val)
			c.scroll.doneY = done
		}
		if c.scroll.doneX && c.scroll.doneY {
			c.scroll = nil
		}
	}

	if c.hasTarget {
		c.x = EaseTowards(c.x, c.targetX, viewportEasingStrength, viewportEasingEpsilon)
		c.y = EaseTowards(c.y, c.targetY, viewportEasingStrength, viewportEasingEpsilon)
		if c.x == c.targetX && c.y == c.targetY {
			c.hasTarget = false
		}
	}

	if c.hasTargetZoom {
		c.zoom = EaseTowards(c.zoom, c.targetZoom, zoomEasingStrength, zoomEasingEpsilon)
		if c.zoom == c.targetZoom {
			c.hasTargetZoom = false
		}
	}
}

// apply composes the world-to-surface transform onto s: the horizontal
// centering happens before the zoom, the vertical one after it.
func (c *Camera) apply(s Surface) {
	s.Translate(math.Round(-c.x+c.width/2), 0)
	s.Scale(c.zoom, c.zoom)
	s.Translate(0, math.Round(-c.y+c.height/2))
}

// Edge returns the world coordinate of one side of the viewport.
func (c *Camera) Edge(e Edge) float64 {
	hw := c.width / c.zoom / 2
	hh := c.height / c.zoom / 2
	switch e {
	case EdgeTop:
		return c.y - hh
	case EdgeRight:
		return c.x + hw
	case EdgeBottom:
		return c.y + hh
	default:
		return c.x - hw
	}
}

// DistanceOutside returns how far coord lies beyond edge e. Positive values
// are outside the viewport on that side; negative values are on the inner
// side of that edge, though possibly beyond the opposite one.
func (c *Camera) DistanceOutside(e Edge, coord float64) float64 {
	edge := c.Edge(e)
	switch e {
	case EdgeLeft, EdgeTop:
		return edge - coord
	default:
		return coord - edge
	}
}

// VisibleBounds returns the world-space box between the four edges.
func (c *Camera) VisibleBounds() Box {
	return Box{
		Left:   c.Edge(EdgeLeft),
		Top:    c.Edge(EdgeTop),
		Right:  c.Edge(EdgeRight),
		Bottom: c.Edge(EdgeBottom),
	}
}
