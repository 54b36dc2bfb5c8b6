package piste

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is the immediate-mode 2D drawing target sprites render into.
// Transform calls compose onto the current transform the way a canvas does:
// each call applies in the sprite's local space, before everything already
// on the stack. Save and Restore push and pop the transform and alpha.
type Surface interface {
	// Size returns the surface size in pixels.
	Size() (w, h float64)

	Save()
	Restore()
	Translate(x, y float64)
	Scale(sx, sy float64)
	Rotate(theta float64)
	// SetAlpha sets the opacity applied to subsequent draws until Restore.
	SetAlpha(a float64)

	// Clear erases the whole surface to transparent, ignoring the transform.
	Clear()
	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h float64, c Color)
	FillEllipse(cx, cy, rx, ry float64, c Color)

	// DrawImage copies the src rectangle of img into the destination box
	// (dx, dy, dw, dh). A nil img draws nothing.
	DrawImage(img *ebiten.Image, src image.Rectangle, dx, dy, dw, dh float64)

	// FillText draws s with its baseline at y. Lines are not wrapped.
	FillText(s string, x, y, size float64, c Color)
	// MeasureText returns the advance width of s at the given size.
	MeasureText(s string, size float64) float64
}

// drawState is one entry of a surface's save/restore stack.
type drawState struct {
	geom  ebiten.GeoM
	alpha float64
}

// transformStack implements the transform half of Surface. It is shared by
// the Ebitengine surface and the recording surface used in tests.
type transformStack struct {
	cur   drawState
	saved []drawState
}

func (t *transformStack) reset() {
	t.cur = drawState{alpha: 1}
	t.saved = t.saved[:0]
}

func (t *transformStack) Save() {
	t.saved = append(t.saved, t.cur)
}

func (t *transformStack) Restore() {
	if len(t.saved) == 0 {
		return
	}
	t.cur = t.saved[len(t.saved)-1]
	t.saved = t.saved[:len(t.saved)-1]
}

// local composes m in local space: cur = cur * m.
func (t *transformStack) local(m ebiten.GeoM) {
	m.Concat(t.cur.geom)
	t.cur.geom = m
}

func (t *transformStack) Translate(x, y float64) {
	var m ebiten.GeoM
	m.Translate(x, y)
	t.local(m)
}

func (t *transformStack) Scale(sx, sy float64) {
	var m ebiten.GeoM
	m.Scale(sx, sy)
	t.local(m)
}

func (t *transformStack) Rotate(theta float64) {
	if theta == 0 {
		return
	}
	var m ebiten.GeoM
	m.Rotate(theta)
	t.local(m)
}

func (t *transformStack) SetAlpha(a float64) {
	t.cur.alpha = a
}

// apply maps a local point to surface pixels.
func (t *transformStack) apply(x, y float64) (float64, float64) {
	return t.cur.geom.Apply(x, y)
}
