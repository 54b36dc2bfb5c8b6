package piste

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds window configuration for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// TPS sets the update rate. Zero keeps Ebitengine's default of 60.
	TPS int
	// ShowFPS draws an FPS counter over every frame.
	ShowFPS bool
	// ScreenshotDir is where screenshot PNGs are written. Defaults to
	// "screenshots".
	ScreenshotDir string
}

// Host adapts a Stage to Ebitengine. It implements ebiten.Game and
// FrameScheduler: the stage's frame callback runs inside Draw, and key
// input is polled in Update.
type Host struct {
	surface *EbitenSurface
	keys    *KeyboardSource
	width   int
	height  int

	pending   func()
	pendingID uint64

	runner          *TestRunner
	screenshotQueue []string
	// ScreenshotDir is the directory screenshot PNGs are written to.
	ScreenshotDir string

	fps  *FPSCounter
	quit bool

	// OnUpdate, if set, runs every tick after input is polled. A non-nil
	// error ends the run loop.
	OnUpdate func() error
}

// NewHost creates a host with a fixed logical screen size.
func NewHost(width, height int) *Host {
	return &Host{
		surface:       NewEbitenSurface(width, height),
		keys:          NewKeyboardSource(),
		width:         width,
		height:        height,
		ScreenshotDir: "screenshots",
	}
}

// Surface returns the surface bound to the screen during Draw.
func (h *Host) Surface() *EbitenSurface { return h.surface }

// Keys returns the keyboard source polled during Update.
func (h *Host) Keys() *KeyboardSource { return h.keys }

// RequestFrame schedules fn for the next Draw. A later request replaces an
// earlier one that has not run.
func (h *Host) RequestFrame(fn func()) (cancel func()) {
	h.pendingID++
	id := h.pendingID
	h.pending = fn
	return func() {
		if h.pendingID == id {
			h.pending = nil
		}
	}
}

// FramePending reports whether a frame callback is waiting for Draw.
func (h *Host) FramePending() bool { return h.pending != nil }

// Quit ends the run loop at the next Update.
func (h *Host) Quit() { h.quit = true }

// ShowFPS toggles the FPS overlay.
func (h *Host) ShowFPS(on bool) {
	if on && h.fps == nil {
		h.fps = NewFPSCounter()
	} else if !on {
		h.fps = nil
	}
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if h.quit {
		return ebiten.Termination
	}
	if h.runner != nil {
		h.runner.step(h)
	}
	h.keys.Poll()
	if h.OnUpdate != nil {
		if err := h.OnUpdate(); err != nil {
			return err
		}
	}
	if h.quit {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game. It runs the pending frame callback, then the
// FPS overlay, then captures queued screenshots.
func (h *Host) Draw(screen *ebiten.Image) {
	h.surface.Bind(screen)
	if fn := h.pending; fn != nil {
		h.pending = nil
		fn()
	}
	if h.fps != nil {
		h.surface.Bind(screen)
		h.fps.refresh()
		Draw(h.surface, h.fps)
	}
	h.flushScreenshots(screen)
}

// Layout implements ebiten.Game with a fixed logical size.
func (h *Host) Layout(_, _ int) (int, int) {
	return h.width, h.height
}

// Run opens a window and drives host until the window closes or Quit is
// called. Closing normally returns nil.
func Run(h *Host, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	} else {
		ebiten.SetWindowSize(h.width, h.height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	if cfg.ScreenshotDir != "" {
		h.ScreenshotDir = cfg.ScreenshotDir
	}
	h.ShowFPS(cfg.ShowFPS)
	if err := ebiten.RunGame(h); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("piste: run: %w", err)
	}
	return nil
}
