package piste

import "time"

// Clock supplies monotonic time readings.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. time.Now carries a monotonic reading,
// so differences between its values are safe for frame timing.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FrameScheduler runs a callback on the next display refresh.
// The returned cancel func stops a callback that has not run yet.
type FrameScheduler interface {
	RequestFrame(fn func()) (cancel func())
}
