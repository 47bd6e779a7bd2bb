package engine

import (
	"sync/atomic"
	"time"
)

// Clock is the monotonic logical clock stamping persistence writes.
//
// Every scheduled write gets a strictly increasing seq so logs and flush
// barriers can be correlated with the mutation that caused them.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// TimeSource supplies wall-clock time for order dates.
type TimeSource func() time.Time

// stamp normalizes a wall-clock reading for storage: UTC, millisecond
// precision, no monotonic component. Persisted dates then round-trip exactly.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
