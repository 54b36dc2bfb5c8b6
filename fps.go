package piste

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// fpsRefresh is how often the counter text is regenerated.
const fpsRefresh = 500 * time.Millisecond

var fpsBackground = Color{0, 0, 0, 0.5}

// FPSCounter is a chrome sprite showing Ebitengine's measured FPS and TPS.
// The text is refreshed about every half second.
type FPSCounter struct {
	Entity
	label   *TextSprite
	last    time.Time
	readFPS func() (fps, tps float64)
	clock   Clock
}

// NewFPSCounter creates a counter whose origin is its top-left corner.
func NewFPSCounter() *FPSCounter {
	f := &FPSCounter{
		Entity: MakeEntity(),
		label:  NewTextSprite("", TextStyle{Color: ColorWhite, FontSize: 12}),
		readFPS: func() (float64, float64) {
			return ebiten.ActualFPS(), ebiten.ActualTPS()
		},
		clock: SystemClock{},
	}
	f.NoClip = true
	f.Layer = 255
	f.SetSize(100, 32)
	f.label.SetXY(4, 13)
	f.AddChild(f.label)
	return f
}

// Text returns the last rendered counter text.
func (f *FPSCounter) Text() string {
	return f.label.Text()
}

// BeforeRender refreshes the text when the counter is used as chrome.
func (f *FPSCounter) BeforeRender(FrameEvent) {
	f.refresh()
}

func (f *FPSCounter) refresh() {
	now := f.clock.Now()
	if !f.last.IsZero() && now.Sub(f.last) < fpsRefresh {
		return
	}
	f.last = now
	fps, tps := f.readFPS()
	f.label.SetText(fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps))
}

func (f *FPSCounter) DrawInner(s Surface) {
	s.FillRect(0, 0, f.width, f.height, fpsBackground)
}
