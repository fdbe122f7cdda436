// Package clock provides an abstraction for time operations to improve testability.
// Build logs and manifests take their timestamps from a Clock so tests can pin them.
package clock

import (
	"sync"
	"time"
)

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time in UTC.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// SteppingClock returns a fixed start time, advanced by Step on every call.
// It gives log entries distinct, ordered timestamps in tests.
type SteppingClock struct {
	mu      sync.Mutex
	current time.Time
	Step    time.Duration
}

// NewSteppingClock creates a SteppingClock starting at start.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{current: start, Step: step}
}

// Now returns the current fixed time and advances it.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.Step)
	return now
}

// Ensure implementations satisfy Clock.
var (
	_ Clock = RealClock{}
	_ Clock = (*SteppingClock)(nil)
)
