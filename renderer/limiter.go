package renderer

import "time"

// Clock is the time source of the frame loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// frameLimiter caps the loop at a fixed rate. Each Wait returns no earlier
// than one period after the previous one, so n frames never take less than
// n periods. It does not catch up after a slow frame.
type frameLimiter struct {
	clock  Clock
	period time.Duration
	last   time.Time
}

func newFrameLimiter(clock Clock, fps int) *frameLimiter {
	// Round up so that fps periods are never shorter than a second.
	period := (time.Second + time.Duration(fps) - 1) / time.Duration(fps)
	return &frameLimiter{
		clock:  clock,
		period: period,
		last:   clock.Now(),
	}
}

// Wait blocks until a full period has passed since the previous Wait.
func (l *frameLimiter) Wait() {
	now := l.clock.Now()
	if d := l.last.Add(l.period).Sub(now); d > 0 {
		l.clock.Sleep(d)
		now = l.clock.Now()
	}
	l.last = now
}
