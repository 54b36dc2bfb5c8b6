package piste

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Sprite is anything the stage can hold, update and draw. Concrete sprites
// embed Entity, which supplies every method except DrawInner.
type Sprite interface {
	// Base returns the embedded entity state.
	Base() *Entity
	// DrawInner draws the sprite's own visual centered on its local origin.
	// Position, scale, rotation, elevation and children are handled by Draw.
	DrawInner(s Surface)
	// DebugText is drawn next to the sprite when its Debug flag is set.
	DebugText() string
	// Ready blocks until the sprite's visual asset is available.
	Ready(ctx context.Context) error
}

// FrameUpdater is implemented by sprites that change every frame. The stage
// calls BeforeRender on every live sprite before any drawing happens.
type FrameUpdater interface {
	BeforeRender(ev FrameEvent)
}

// KeyHandler is implemented by sprites that react to key presses.
// Returning true asks the input source to suppress the key's default action.
type KeyHandler interface {
	KeyDown(ev KeyEvent) bool
}

// FrameEvent carries frame timing to per-frame hooks.
type FrameEvent struct {
	// Delta is the time since the previous frame.
	Delta time.Duration
	// SinceStart is the time since the stage was started.
	SinceStart time.Duration
	// Now is the clock reading the frame was computed from.
	Now time.Time
}

// Seconds returns Delta in seconds.
func (e FrameEvent) Seconds() float64 {
	return e.Delta.Seconds()
}

// KeyEvent is a key press in the input source's naming, e.g. "ArrowLeft",
// "a", " " or "Enter".
type KeyEvent struct {
	Key string
}

// Default entity size before any frame is set.
const (
	defaultEntityWidth  = 2
	defaultEntityHeight = 2
)

var (
	debugColor    = MustHexColor("#f0f")
	debugBoxColor = MustHexColor("#f008")
)

// Entity is the state shared by every sprite: ground position, elevation,
// visual transform, natural size, hitbox and children.
//
// Position and size are set through methods so the world hitbox cache stays
// valid. Everything else is a plain field.
type Entity struct {
	x, y, z float64

	// Layer is the primary paint-order key. Negative layers draw behind
	// the ground plane.
	Layer int
	// Scale is a uniform scale about the origin. 1 means natural size.
	Scale float64
	// Rotation in radians, clockwise.
	Rotation float64
	// Flip mirrors the visual horizontally.
	Flip bool
	// NoClip exempts the entity from overlap tests.
	NoClip bool
	// Debug draws the debug text and hitbox outlines.
	Debug bool

	width, height float64

	localHitbox    *Box // explicit override
	derivedHitbox  *Box // memoized size-derived box
	worldHitbox    Box
	worldHitboxSet bool

	children []Sprite

	// hitboxComputes counts world hitbox recomputations.
	hitboxComputes int
}

// MakeEntity returns an entity at the origin with unit scale and the default
// 2x2 size. Concrete sprites start from it:
//
//	t := &Tree{Entity: piste.MakeEntity()}
func MakeEntity() Entity {
	return Entity{
		Scale:  1,
		width:  defaultEntityWidth,
		height: defaultEntityHeight,
	}
}

// Base returns e. It lets any struct embedding Entity satisfy Sprite.
func (e *Entity) Base() *Entity { return e }

// X returns the horizontal ground position.
func (e *Entity) X() float64 { return e.x }

// Y returns the depth position on the ground plane.
func (e *Entity) Y() float64 { return e.y }

// Z returns the elevation above the ground plane.
func (e *Entity) Z() float64 { return e.z }

// Pos returns the ground position as a point.
func (e *Entity) Pos() Point { return Point{e.x, e.y} }

// Width returns the natural width of the current visual.
func (e *Entity) Width() float64 { return e.width }

// Height returns the natural height of the current visual.
func (e *Entity) Height() float64 { return e.height }

// SetPosition moves the entity. Negative z is clamped to 0.
func (e *Entity) SetPosition(x, y, z float64) {
	e.x = x
	e.y = y
	e.z = math.Max(0, z)
	e.worldHitboxSet = false
}

// SetXY moves the entity on the ground plane and keeps its elevation.
func (e *Entity) SetXY(x, y float64) {
	e.SetPosition(x, y, e.z)
}

// SetZ changes only the elevation. Negative z is clamped to 0.
func (e *Entity) SetZ(z float64) {
	e.z = math.Max(0, z)
}

// SetSize sets the natural size of the visual.
func (e *Entity) SetSize(w, h float64) {
	e.width = w
	e.height = h
	e.derivedHitbox = nil
	e.worldHitboxSet = false
}

// SetScale sets the uniform scale.
func (e *Entity) SetScale(scale float64) {
	e.Scale = scale
}

// SetHitbox overrides the local hitbox. nil reverts to the box derived from
// the natural size.
func (e *Entity) SetHitbox(b *Box) {
	if b != nil {
		cp := *b
		b = &cp
	}
	e.localHitbox = b
	e.worldHitboxSet = false
}

// LocalHitbox returns the hitbox relative to the entity's position.
func (e *Entity) LocalHitbox() Box {
	if e.localHitbox != nil {
		return *e.localHitbox
	}
	if e.derivedHitbox == nil {
		e.derivedHitbox = &Box{
			Left:   -e.width / 2,
			Top:    -e.height / 2,
			Right:  e.width / 2,
			Bottom: e.height / 2,
		}
	}
	return *e.derivedHitbox
}

// WorldHitbox returns the hitbox in world coordinates. The result is cached
// until the position, size or local hitbox changes.
func (e *Entity) WorldHitbox() Box {
	if !e.worldHitboxSet {
		e.worldHitbox = e.LocalHitbox().Offset(e.x, e.y)
		e.worldHitboxSet = true
		e.hitboxComputes++
	}
	return e.worldHitbox
}

// Overlaps reports whether the world hitboxes of e and other intersect.
// It is always false when either entity is NoClip.
func (e *Entity) Overlaps(other *Entity) bool {
	if e.NoClip || other.NoClip {
		return false
	}
	return Intersects(e.WorldHitbox(), other.WorldHitbox())
}

// AddChild appends a child drawn in this entity's local space. Children with
// negative y draw behind the entity's own visual, the rest in front.
func (e *Entity) AddChild(child Sprite) {
	e.children = append(e.children, child)
}

// RemoveChild removes child by identity.
func (e *Entity) RemoveChild(child Sprite) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

// Children returns the child list. The slice is owned by the entity and is
// reordered by depth during Draw.
func (e *Entity) Children() []Sprite {
	return e.children
}

// DebugText returns the position summary shown in debug mode.
func (e *Entity) DebugText() string {
	return fmt.Sprintf("x: %.1f, y: %.1f", e.x, e.y)
}

// Ready returns immediately. Sprites with asynchronous assets override it.
func (e *Entity) Ready(ctx context.Context) error {
	return nil
}

// Draw paints sp onto s: its ground shadow when elevated, children behind,
// its own visual, children in front and the debug overlay.
func Draw(s Surface, sp Sprite) {
	e := sp.Base()
	x := math.Round(e.x)
	y := math.Round(e.y)
	z := math.Round(e.z)

	s.Save()
	s.Translate(x, y)
	s.Scale(e.Scale, e.Scale)
	s.Rotate(e.Rotation)

	if z > 0 {
		lh := e.LocalHitbox()
		c := lh.Center()
		k := shadowScale(z)
		s.Save()
		s.SetAlpha(ShadowAlpha(z))
		s.FillEllipse(c.X, c.Y, lh.Width()/2*k, lh.Height()/2*k, ColorBlack)
		s.Restore()
		s.Translate(0, -z)
	}

	i := 0
	if len(e.children) > 0 {
		SortByDepth(e.children)
		for ; i < len(e.children) && e.children[i].Base().y < 0; i++ {
			Draw(s, e.children[i])
		}
	}
	sp.DrawInner(s)
	for ; i < len(e.children); i++ {
		Draw(s, e.children[i])
	}

	if e.Debug {
		drawDebugOverlay(s, sp, x, y)
	}
	s.Restore()
}

const debugTextSize = 10

func drawDebugOverlay(s Surface, sp Sprite, x, y float64) {
	e := sp.Base()
	s.Save()
	s.Translate(0.5, 0.5)
	s.FillText(sp.DebugText(), e.width/2, e.height/2, debugTextSize, debugColor)
	wh := e.WorldHitbox()
	s.StrokeRect(wh.Left-x, wh.Top-y, wh.Width(), wh.Height(), debugColor)
	s.StrokeRect(-e.width/2, -e.height/2, e.width, e.height, debugBoxColor)
	s.Restore()
}
