package piste

import "time"

// TimerID identifies a timeout registered with SetTimeout.
type TimerID uint32

type timer struct {
	id  TimerID
	due time.Time
	fn  func()
}

func timerDue(t *timer) float64 {
	return float64(t.due.UnixNano())
}

// SetTimeout runs fn once, on the frame loop, the first frame at least delay
// after now. Timeouts belong to the stage: Stop discards every pending one
// without running it.
func (s *Stage) SetTimeout(fn func(), delay time.Duration) TimerID {
	s.nextTimerID++
	t := &timer{
		id:  s.nextTimerID,
		due: s.clock.Now().Add(delay),
		fn:  fn,
	}
	s.timers = InsertSorted(s.timers, t, timerDue)
	return t.id
}

// ClearTimeout cancels a pending timeout. Unknown or fired ids are ignored.
func (s *Stage) ClearTimeout(id TimerID) {
	for i, t := range s.timers {
		if t.id == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// PendingTimeouts returns the number of timeouts that have not fired.
func (s *Stage) PendingTimeouts() int {
	return len(s.timers)
}

// fireTimers runs every timeout due at now, earliest first. A timeout is
// unregistered before its callback runs, and a callback that stops the stage
// prevents the rest from firing. Timeouts registered by a callback wait for
// the next frame.
func (s *Stage) fireTimers(now time.Time) {
	limit := s.nextTimerID
	for len(s.timers) > 0 && s.running {
		t := s.timers[0]
		if t.due.After(now) || t.id > limit {
			return
		}
		copy(s.timers, s.timers[1:])
		s.timers[len(s.timers)-1] = nil
		s.timers = s.timers[:len(s.timers)-1]
		t.fn()
	}
}
