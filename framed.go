package piste

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"
)

// FramedSprite draws named regions of one sheet image and can play timed
// animations over them. Embed it in concrete sprites:
//
//	r := &Robot{FramedSprite: piste.MakeFramedSprite(asset)}
//	r.SetFrames(robotFrames)
type FramedSprite struct {
	Entity

	asset   *Asset
	frames  *FrameTable
	current string

	animations map[string]Animation
	anim       string
	animStart  time.Time
	clock      Clock
}

// MakeFramedSprite returns a framed sprite backed by asset with no frames.
// Until frames are set the whole image is drawn with its top-left corner at
// the origin.
func MakeFramedSprite(asset *Asset) FramedSprite {
	return FramedSprite{
		Entity: MakeEntity(),
		asset:  asset,
		clock:  SystemClock{},
	}
}

// SetClock replaces the clock used to time animations.
func (f *FramedSprite) SetClock(c Clock) {
	f.clock = c
}

// Asset returns the backing image asset.
func (f *FramedSprite) Asset() *Asset { return f.asset }

// SetAsset swaps the backing image, e.g. after a sheet reload.
func (f *FramedSprite) SetAsset(a *Asset) { f.asset = a }

// Ready waits for the backing image and returns its load error.
func (f *FramedSprite) Ready(ctx context.Context) error {
	if f.asset == nil {
		return nil
	}
	return f.asset.Wait(ctx)
}

// Frames returns the current frame table.
func (f *FramedSprite) Frames() *FrameTable { return f.frames }

// CurrentFrame returns the name of the frame being drawn, or "".
func (f *FramedSprite) CurrentFrame() string { return f.current }

// SetFrames replaces the frame table and switches to its first frame.
// An empty or nil table clears the current frame.
func (f *FramedSprite) SetFrames(t *FrameTable) {
	f.current = ""
	if t.Len() == 0 {
		f.frames = nil
		return
	}
	f.frames = t
	// The first name is always present, so this cannot fail.
	_ = f.SetFrame(t.Names()[0])
}

// SetFrame switches to the named frame, updating size and hitbox together.
// Switching to the current frame is a no-op.
func (f *FramedSprite) SetFrame(name string) error {
	if name == f.current && name != "" {
		return nil
	}
	fr, ok := f.frames.Get(name)
	if !ok {
		return fmt.Errorf("piste: set frame %q: %w", name, ErrUnknownFrame)
	}
	f.current = name
	w, h := fr.Size()
	f.SetSize(w, h)
	f.SetHitbox(fr.Hitbox)
	return nil
}

// PickRandomFrame switches to a uniformly chosen frame among names, or among
// all frames when names is empty. It does nothing without a frame table.
func (f *FramedSprite) PickRandomFrame(names ...string) error {
	if f.frames.Len() == 0 {
		return nil
	}
	if len(names) == 0 {
		names = f.frames.Names()
	}
	return f.SetFrame(names[RandomInt(0, len(names))])
}

// SetAnimations registers the animation table. Every animation must have
// frames, a positive rate, and only name frames in the current table.
// On error the previous table is kept.
func (f *FramedSprite) SetAnimations(anims map[string]Animation) error {
	for name, a := range anims {
		if err := a.validate(name, f.frames); err != nil {
			return err
		}
	}
	f.animations = anims
	if _, ok := anims[f.anim]; !ok {
		f.anim = ""
	}
	return nil
}

// CurrentAnimation returns the playing animation's name, or "".
func (f *FramedSprite) CurrentAnimation() string { return f.anim }

// StartAnimation starts the named animation from its first frame.
// Starting the animation that is already playing does not restart it.
func (f *FramedSprite) StartAnimation(name string) error {
	if name == f.anim && name != "" {
		return nil
	}
	a, ok := f.animations[name]
	if !ok {
		return fmt.Errorf("piste: start animation %q: %w", name, ErrUnknownAnimation)
	}
	f.anim = name
	f.animStart = f.clock.Now()
	f.showAnimationFrame(a, 0)
	return nil
}

// StopAnimation leaves the current frame showing and stops advancing it.
func (f *FramedSprite) StopAnimation() {
	f.anim = ""
}

// BeforeRender advances the playing animation.
func (f *FramedSprite) BeforeRender(FrameEvent) {
	if f.anim == "" {
		return
	}
	a := f.animations[f.anim]
	elapsed := f.clock.Now().Sub(f.animStart).Seconds()
	f.showAnimationFrame(a, AnimationFrameIndex(elapsed, a.FrameRate, len(a.Frames), a.Repeat))
}

func (f *FramedSprite) showAnimationFrame(a Animation, i int) {
	if err := f.SetFrame(a.Frames[i]); err != nil {
		// Animations are validated against the table, so the table was
		// swapped underneath a playing animation.
		panic(fmt.Sprintf("piste: animation %q: %v", f.anim, err))
	}
}

// DrawInner blits the current frame centered on the origin. Reversed source
// corners and Flip both mirror the image.
func (f *FramedSprite) DrawInner(s Surface) {
	img := f.asset.Image()
	if img == nil {
		return
	}
	fr, ok := f.frames.Get(f.current)
	if !ok {
		b := img.Bounds()
		s.DrawImage(img, b, 0, 0, float64(b.Dx()), float64(b.Dy()))
		return
	}

	sx := sign(fr.Src.Right - fr.Src.Left)
	sy := sign(fr.Src.Bottom - fr.Src.Top)
	if f.Flip {
		sx = -sx
	}
	n := fr.Src.Normalize()
	src := image.Rect(int(n.Left), int(n.Top), int(n.Right), int(n.Bottom))
	w, h := n.Width(), n.Height()

	s.Save()
	s.Scale(sx, sy)
	s.Translate(math.Round(-f.width/2), math.Round(-f.height/2))
	s.DrawImage(img, src, 0, 0, w, h)
	s.Restore()
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
