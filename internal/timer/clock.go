package timer

import (
	"sync"
	"time"
)

// Clock is the time source used by the timer and the session.
// Implementations must be monotonic for the duration of a question.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. time.Now carries a monotonic reading,
// so differences between two calls are safe against wall-clock jumps.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to. Used in tests and
// replays.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a ManualClock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *ManualClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// AdvanceSeconds is a convenience wrapper around Advance.
func (c *ManualClock) AdvanceSeconds(secs float64) {
	c.Advance(time.Duration(secs * float64(time.Second)))
}
