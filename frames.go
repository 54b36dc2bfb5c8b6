package piste

import (
	"errors"
	"fmt"
)

// ErrUnknownFrame is returned when a frame name is not in the frame table.
var ErrUnknownFrame = errors.New("unknown frame")

// ErrUnknownAnimation is returned when an animation name is not registered.
var ErrUnknownAnimation = errors.New("unknown animation")

// Frame is a named sub-rectangle of a sprite sheet.
type Frame struct {
	// Src is the source rectangle in image pixels. Its corners may be given
	// in either order; a reversed axis draws the region mirrored.
	Src Box
	// Hitbox optionally overrides the size-derived hitbox, in local space.
	Hitbox *Box
}

// Size returns the absolute width and height of the source rectangle.
func (f Frame) Size() (w, h float64) {
	n := f.Src.Normalize()
	return n.Width(), n.Height()
}

// FrameTable is an ordered set of named frames. The first frame added is the
// default frame of a sprite using the table.
type FrameTable struct {
	names  []string
	frames map[string]Frame
}

// NewFrameTable creates an empty table.
func NewFrameTable() *FrameTable {
	return &FrameTable{frames: make(map[string]Frame)}
}

// Add inserts or replaces a frame. Replacing keeps the original position.
func (t *FrameTable) Add(name string, f Frame) *FrameTable {
	if _, ok := t.frames[name]; !ok {
		t.names = append(t.names, name)
	}
	t.frames[name] = f
	return t
}

// Get returns the frame for name.
func (t *FrameTable) Get(name string) (Frame, bool) {
	if t == nil {
		return Frame{}, false
	}
	f, ok := t.frames[name]
	return f, ok
}

// Names returns frame names in insertion order. The slice must not be modified.
func (t *FrameTable) Names() []string {
	if t == nil {
		return nil
	}
	return t.names
}

// Len returns the number of frames.
func (t *FrameTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Animation is a timed sequence of frame names.
type Animation struct {
	Frames []string
	// FrameRate is in frames per second.
	FrameRate float64
	// Repeat wraps around at the end instead of holding the last frame.
	Repeat bool
}

// Duration returns the nominal length of one pass in seconds.
func (a Animation) Duration() float64 {
	return float64(len(a.Frames)) / a.FrameRate
}

// validate checks a against frames.
func (a Animation) validate(name string, frames *FrameTable) error {
	if len(a.Frames) == 0 {
		return fmt.Errorf("piste: animation %q has no frames", name)
	}
	if a.FrameRate <= 0 {
		return fmt.Errorf("piste: animation %q: frame rate %v must be positive", name, a.FrameRate)
	}
	for _, f := range a.Frames {
		if _, ok := frames.Get(f); !ok {
			return fmt.Errorf("piste: animation %q: %w: %s", name, ErrUnknownFrame, f)
		}
	}
	return nil
}

// Repeated returns n copies of the frame sequence, for building holds like
// "eat-1 eat-1 eat-1" or alternations like "a b a b".
func Repeated(n int, frames ...string) []string {
	out := make([]string, 0, n*len(frames))
	for range n {
		out = append(out, frames...)
	}
	return out
}

// AnimationFrameIndex returns which frame of an n-frame animation shows after
// elapsed seconds at rate frames per second.
func AnimationFrameIndex(elapsed, rate float64, n int, repeat bool) int {
	if n <= 0 {
		return 0
	}
	i := int(elapsed * rate)
	if i < 0 {
		i = 0
	}
	if repeat {
		return i % n
	}
	return min(i, n-1)
}
