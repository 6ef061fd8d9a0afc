package clock

import "time"

// Clock provides the current time and can be replaced in tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current UTC time at millisecond precision.
// Timestamps are persisted as JSON, so the monotonic reading and
// sub-millisecond digits are dropped up front to keep round trips exact.
func (c *RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
