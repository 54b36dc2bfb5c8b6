package piste

import (
	"time"

	"github.com/tanema/gween/ease"
)

// EventSink is an optional observer of stage input and frames, used to
// bridge the stage into an ECS world.
type EventSink interface {
	EmitKey(ev KeyEvent)
	EmitFrame(ev FrameEvent)
}

// Stage owns the live sprites and the chrome overlay, runs the per-frame
// update/render sequence, eases the camera and dispatches key presses.
//
// A stage is single-threaded: every method must be called from the frame
// loop goroutine, which is also where hooks, timeouts and key dispatch run.
type Stage struct {
	surface Surface
	keys    KeySource
	frames  FrameScheduler
	clock   Clock
	camera  *Camera

	// sprites is ordered by y. chrome keeps insertion order.
	sprites []Sprite
	chrome  []Sprite
	drawBuf []Sprite
	hookBuf []Sprite
	keyBuf  []Sprite

	background    Color
	hasBackground bool

	running     bool
	startTime   time.Time
	lastFrame   time.Time
	cancelKeys  func()
	cancelFrame func()

	timers      []*timer
	nextTimerID TimerID

	sink  EventSink
	debug bool
	stats debugStats

	// OnPrepareFrame runs first in every frame, before sprite hooks.
	OnPrepareFrame func(ev FrameEvent)
	// OnBeforeRender runs after every sprite's BeforeRender.
	OnBeforeRender func(ev FrameEvent)
	// OnBeforeRenderChrome runs after the world is drawn, before chrome.
	OnBeforeRenderChrome func(ev FrameEvent)
	// AdjustChrome may transform the surface before chrome sprites draw.
	// The transform is discarded after the chrome pass.
	AdjustChrome func(s Surface, ev FrameEvent)
	// OnKeyDown runs after every sprite's KeyDown. Returning true suppresses
	// the key's default action.
	OnKeyDown func(ev KeyEvent) bool
}

// NewStage creates an idle stage drawing to surface, listening to keys and
// driven by frames. keys may be nil for a stage without input.
func NewStage(surface Surface, keys KeySource, frames FrameScheduler) *Stage {
	s := &Stage{
		surface: surface,
		keys:    keys,
		frames:  frames,
		clock:   SystemClock{},
		camera:  newCamera(),
	}
	s.syncCameraSize()
	return s
}

// SetClock replaces the clock used for frame timing and timeouts.
// Call before Start.
func (s *Stage) SetClock(c Clock) {
	s.clock = c
}

// Clock returns the stage clock.
func (s *Stage) Clock() Clock { return s.clock }

// Surface returns the drawing surface.
func (s *Stage) Surface() Surface { return s.surface }

// Size returns the surface size.
func (s *Stage) Size() (w, h float64) { return s.surface.Size() }

// Running reports whether the stage is between Start and Stop.
func (s *Stage) Running() bool { return s.running }

// SetEventSink sets the optional ECS bridge.
func (s *Stage) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetBackground fills the surface with c before each world render.
func (s *Stage) SetBackground(c Color) {
	s.background = c
	s.hasBackground = true
}

// ClearBackground disables the background fill.
func (s *Stage) ClearBackground() {
	s.hasBackground = false
}

// --- Lifecycle ---

// Start subscribes to key input and requests the first frame. Starting a
// running stage is a programming error and panics.
func (s *Stage) Start() {
	if s.running {
		panic("piste: Start called on a running stage")
	}
	s.running = true
	s.startTime = s.clock.Now()
	s.lastFrame = s.startTime
	if s.keys != nil {
		s.cancelKeys = s.keys.Listen(s.dispatchKey)
	}
	s.requestFrame()
}

// Stop unsubscribes from key input, cancels the pending frame and discards
// every pending timeout. No frame, key or timeout callback is observed after
// Stop returns. Stopping an idle stage is a no-op.
func (s *Stage) Stop() {
	if !s.running {
		return
	}
	s.running = false
	if s.cancelKeys != nil {
		s.cancelKeys()
		s.cancelKeys = nil
	}
	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}
	clear(s.timers)
	s.timers = s.timers[:0]
}

func (s *Stage) requestFrame() {
	s.cancelFrame = s.frames.RequestFrame(s.frame)
}

// frame runs one iteration of the loop.
func (s *Stage) frame() {
	if !s.running {
		return
	}
	s.cancelFrame = nil
	now := s.clock.Now()
	s.fireTimers(now)
	if !s.running {
		return
	}

	ev := FrameEvent{
		Delta:      now.Sub(s.lastFrame),
		SinceStart: now.Sub(s.startTime),
		Now:        now,
	}

	t0 := time.Now()
	if s.OnPrepareFrame != nil {
		s.OnPrepareFrame(ev)
	}
	if s.sink != nil {
		s.sink.EmitFrame(ev)
	}
	s.hookBuf = append(s.hookBuf[:0], s.sprites...)
	for _, sp := range s.hookBuf {
		if u, ok := sp.(FrameUpdater); ok {
			u.BeforeRender(ev)
		}
	}
	clear(s.hookBuf)
	if s.OnBeforeRender != nil {
		s.OnBeforeRender(ev)
	}

	t1 := time.Now()
	s.render(ev)

	t2 := time.Now()
	if s.OnBeforeRenderChrome != nil {
		s.OnBeforeRenderChrome(ev)
	}
	s.renderChrome(ev)
	t3 := time.Now()

	if s.debug {
		s.stats = debugStats{
			hookTime:    t1.Sub(t0),
			renderTime:  t2.Sub(t1),
			chromeTime:  t3.Sub(t2),
			spriteCount: len(s.sprites),
			chromeCount: len(s.chrome),
			timerCount:  len(s.timers),
		}
		s.debugLog(s.stats)
	}

	s.lastFrame = now
	if s.running {
		s.requestFrame()
	}
}

// --- Rendering ---

func (s *Stage) syncCameraSize() {
	s.camera.width, s.camera.height = s.surface.Size()
}

// render draws the world: camera easing, clear, background, camera
// transform, then every sprite in depth order.
func (s *Stage) render(ev FrameEvent) {
	s.syncCameraSize()
	s.camera.update(float32(ev.Delta.Seconds()))

	// Sprites move during hooks; restore y order before it is relied on by
	// the next AddSprite or RemoveSprite.
	sortByY(s.sprites)

	surf := s.surface
	w, h := surf.Size()
	surf.Clear()
	if s.hasBackground {
		surf.Save()
		surf.FillRect(0, 0, w, h, s.background)
		surf.Restore()
	}

	surf.Save()
	s.camera.apply(surf)
	s.drawBuf = append(s.drawBuf[:0], s.sprites...)
	SortByDepth(s.drawBuf)
	for _, sp := range s.drawBuf {
		Draw(surf, sp)
	}
	clear(s.drawBuf)
	surf.Restore()
}

func (s *Stage) renderChrome(ev FrameEvent) {
	surf := s.surface
	if s.AdjustChrome != nil {
		surf.Save()
		defer surf.Restore()
		s.AdjustChrome(surf, ev)
	}
	s.drawBuf = append(s.drawBuf[:0], s.chrome...)
	for _, sp := range s.drawBuf {
		Draw(surf, sp)
	}
	clear(s.drawBuf)
}

// sortByY restores ascending y order with a stable insertion sort. The
// slice is nearly sorted between frames, so this is usually O(n).
func sortByY(sprites []Sprite) {
	for i := 1; i < len(sprites); i++ {
		cur := sprites[i]
		y := cur.Base().y
		j := i - 1
		for j >= 0 && sprites[j].Base().y > y {
			sprites[j+1] = sprites[j]
			j--
		}
		sprites[j+1] = cur
	}
}

// --- Membership ---

// AddSprite adds sp to the live collection, keeping it ordered by y.
func (s *Stage) AddSprite(sp Sprite) {
	s.sprites = InsertSorted(s.sprites, sp, spriteY)
}

// RemoveSprite removes sp by identity. Removing an absent sprite is a no-op.
func (s *Stage) RemoveSprite(sp Sprite) {
	if i := IndexSorted(s.sprites, sp, spriteY); i >= 0 {
		s.removeSpriteAt(i)
		return
	}
	// sp moved since the last frame and is out of y order.
	for i, other := range s.sprites {
		if other == sp {
			s.removeSpriteAt(i)
			return
		}
	}
}

func (s *Stage) removeSpriteAt(i int) {
	copy(s.sprites[i:], s.sprites[i+1:])
	s.sprites[len(s.sprites)-1] = nil
	s.sprites = s.sprites[:len(s.sprites)-1]
}

// HasSprite reports whether sp is in the live collection.
func (s *Stage) HasSprite(sp Sprite) bool {
	for _, other := range s.sprites {
		if other == sp {
			return true
		}
	}
	return false
}

// Sprites returns the live collection in y order. The slice is owned by the
// stage and must not be modified.
func (s *Stage) Sprites() []Sprite {
	return s.sprites
}

// AddChrome appends sp to the overlay drawn after the world, outside the
// camera transform.
func (s *Stage) AddChrome(sp Sprite) {
	s.chrome = append(s.chrome, sp)
}

// RemoveChrome removes sp from the overlay.
func (s *Stage) RemoveChrome(sp Sprite) {
	for i, other := range s.chrome {
		if other == sp {
			copy(s.chrome[i:], s.chrome[i+1:])
			s.chrome[len(s.chrome)-1] = nil
			s.chrome = s.chrome[:len(s.chrome)-1]
			return
		}
	}
}

// Chrome returns the overlay in draw order. The slice must not be modified.
func (s *Stage) Chrome() []Sprite {
	return s.chrome
}

// --- Input ---

// dispatchKey delivers a key to every live sprite, then to OnKeyDown. Every
// handler runs even after one has asked for suppression.
func (s *Stage) dispatchKey(key string) bool {
	if !s.running {
		return false
	}
	ev := KeyEvent{Key: key}
	prevent := false
	s.keyBuf = append(s.keyBuf[:0], s.sprites...)
	for _, sp := range s.keyBuf {
		if kh, ok := sp.(KeyHandler); ok {
			prevent = kh.KeyDown(ev) || prevent
		}
	}
	clear(s.keyBuf)
	if s.OnKeyDown != nil {
		prevent = s.OnKeyDown(ev) || prevent
	}
	if s.sink != nil {
		s.sink.EmitKey(ev)
	}
	return prevent
}

// --- Camera ---

// Camera returns the stage camera.
func (s *Stage) Camera() *Camera { return s.camera }

// SetViewport centers the camera on (x, y) immediately.
func (s *Stage) SetViewport(x, y float64) { s.camera.SetViewport(x, y) }

// AnimateViewport eases the camera toward (x, y).
func (s *Stage) AnimateViewport(x, y float64) { s.camera.AnimateViewport(x, y) }

// ScrollViewport moves the camera to (x, y) over duration seconds.
func (s *Stage) ScrollViewport(x, y float64, duration float32, easeFn ease.TweenFunc) {
	s.camera.ScrollTo(x, y, duration, easeFn)
}

// SetZoom sets the zoom immediately.
func (s *Stage) SetZoom(z float64) { s.camera.SetZoom(z) }

// AnimateZoom eases the zoom toward z.
func (s *Stage) AnimateZoom(z float64) { s.camera.AnimateZoom(z) }

// ViewportEdge returns the world coordinate of one side of the viewport.
func (s *Stage) ViewportEdge(e Edge) float64 {
	s.syncCameraSize()
	return s.camera.Edge(e)
}

// DistanceOutsideViewportEdge returns how far coord lies beyond edge e.
func (s *Stage) DistanceOutsideViewportEdge(e Edge, coord float64) float64 {
	s.syncCameraSize()
	return s.camera.DistanceOutside(e, coord)
}
