package piste

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and collection sizes.
// Only populated when the stage is in debug mode.
type debugStats struct {
	hookTime    time.Duration
	renderTime  time.Duration
	chromeTime  time.Duration
	spriteCount int
	chromeCount int
	timerCount  int
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame timing
// and collection sizes are logged to stderr and crowded stages are reported.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// DebugMode reports whether debug mode is on.
func (s *Stage) DebugMode() bool {
	return s.debug
}

// debugLog prints timing stats to stderr.
func (s *Stage) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.hookTime + stats.renderTime + stats.chromeTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[piste] hooks: %v | render: %v | chrome: %v | total: %v\n",
		stats.hookTime, stats.renderTime, stats.chromeTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[piste] sprites: %d | chrome: %d | timeouts: %d\n",
		stats.spriteCount, stats.chromeCount, stats.timerCount)
	debugCheckSpriteCount(stats.spriteCount)
}

// debugMaxSprites is the live sprite count above which a warning is printed.
// Key dispatch and hooks are linear in the sprite count.
const debugMaxSprites = 1000

func debugCheckSpriteCount(n int) {
	if n > debugMaxSprites {
		_, _ = fmt.Fprintf(os.Stderr, "[piste] warning: %d live sprites (threshold %d)\n",
			n, debugMaxSprites)
	}
}
