package piste

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Recording surface ---

// drawCall is one recorded draw with its resolved surface-space origin.
type drawCall struct {
	op     string
	x, y   float64 // local arguments
	w, h   float64
	sx, sy float64 // (x, y) mapped through the transform
	alpha  float64
	text   string
	color  Color
	depth  int // save stack depth at the time of the call
}

func (d drawCall) String() string {
	if d.text != "" {
		return fmt.Sprintf("%s(%q @ %.1f,%.1f)", d.op, d.text, d.sx, d.sy)
	}
	return fmt.Sprintf("%s(%.1f,%.1f %.1fx%.1f)", d.op, d.sx, d.sy, d.w, d.h)
}

// recordingSurface implements Surface by recording every draw call.
type recordingSurface struct {
	transformStack
	width, height float64
	calls         []drawCall
	clears        int
	// charWidth is the advance per rune reported by MeasureText.
	charWidth float64
}

func newRecordingSurface(w, h float64) *recordingSurface {
	s := &recordingSurface{width: w, height: h, charWidth: 6}
	s.reset()
	return s
}

func (s *recordingSurface) Size() (float64, float64) { return s.width, s.height }

func (s *recordingSurface) record(op string, x, y, w, h float64, text string, c Color) {
	sx, sy := s.apply(x, y)
	s.calls = append(s.calls, drawCall{
		op: op, x: x, y: y, w: w, h: h, sx: sx, sy: sy,
		alpha: s.cur.alpha, text: text, color: c, depth: len(s.saved),
	})
}

func (s *recordingSurface) Clear() {
	s.clears++
	s.calls = append(s.calls, drawCall{op: "Clear", depth: len(s.saved)})
}

func (s *recordingSurface) FillRect(x, y, w, h float64, c Color) {
	s.record("FillRect", x, y, w, h, "", c)
}

func (s *recordingSurface) StrokeRect(x, y, w, h float64, c Color) {
	s.record("StrokeRect", x, y, w, h, "", c)
}

func (s *recordingSurface) FillEllipse(cx, cy, rx, ry float64, c Color) {
	s.record("FillEllipse", cx, cy, rx, ry, "", c)
}

func (s *recordingSurface) DrawImage(img *ebiten.Image, src image.Rectangle, dx, dy, dw, dh float64) {
	if img == nil {
		return
	}
	s.record("DrawImage", dx, dy, dw, dh, "", ColorWhite)
}

func (s *recordingSurface) FillText(text string, x, y, size float64, c Color) {
	s.record("FillText", x, y, size, 0, text, c)
}

func (s *recordingSurface) MeasureText(text string, size float64) float64 {
	return float64(len([]rune(text))) * s.charWidth
}

// scale returns the x scale of the current transform.
func (s *recordingSurface) scale() float64 {
	return s.cur.geom.Element(0, 0)
}

// ops returns the op names of recorded calls, skipping Clear.
func (s *recordingSurface) ops() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.op)
	}
	return out
}

// textCalls returns the text of every FillText call in order.
func (s *recordingSurface) textCalls() []string {
	var out []string
	for _, c := range s.calls {
		if c.op == "FillText" {
			out = append(out, c.text)
		}
	}
	return out
}

func (s *recordingSurface) resetCalls() {
	s.calls = s.calls[:0]
	s.clears = 0
}

// --- Manual clock and scheduler ---

type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// manualScheduler holds the requested frame until Tick runs it.
type manualScheduler struct {
	pending  func()
	requests int
	cancels  int
}

func (m *manualScheduler) RequestFrame(fn func()) func() {
	m.requests++
	m.pending = fn
	return func() {
		m.cancels++
		m.pending = nil
	}
}

// Tick runs the pending frame, if any, and reports whether one ran.
func (m *manualScheduler) Tick() bool {
	fn := m.pending
	if fn == nil {
		return false
	}
	m.pending = nil
	fn()
	return true
}

// --- Fake key source ---

type fakeKeys struct {
	listeners map[int]KeyListener
	next      int
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{listeners: make(map[int]KeyListener)}
}

func (k *fakeKeys) Listen(fn KeyListener) func() {
	k.next++
	id := k.next
	k.listeners[id] = fn
	return func() { delete(k.listeners, id) }
}

// Press delivers key to every listener and OR-combines their results.
func (k *fakeKeys) Press(key string) bool {
	prevent := false
	for _, fn := range k.listeners {
		prevent = fn(key) || prevent
	}
	return prevent
}

// --- Test sprites ---

// boxSprite draws a filled rectangle of its size and records hook calls.
type boxSprite struct {
	Entity
	name     string
	log      *[]string
	keyReply bool
	keys     []string
	updates  int
}

func newBoxSprite(name string, x, y float64) *boxSprite {
	b := &boxSprite{Entity: MakeEntity(), name: name}
	b.SetSize(10, 10)
	b.SetXY(x, y)
	return b
}

func (b *boxSprite) DrawInner(s Surface) {
	s.FillText(b.name, 0, 0, 10, ColorBlack)
}

func (b *boxSprite) BeforeRender(FrameEvent) {
	b.updates++
	if b.log != nil {
		*b.log = append(*b.log, "sprite:"+b.name)
	}
}

func (b *boxSprite) KeyDown(ev KeyEvent) bool {
	b.keys = append(b.keys, ev.Key)
	return b.keyReply
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}
