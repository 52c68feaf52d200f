package app

import "time"

// Clock tracks a countdown towards a deadline and tells the front ends when
// to switch between counting and celebrating.
type Clock struct {
	Deadline  time.Time
	Reference time.Duration

	celebrating bool
}

// NewClock returns a clock counting from now to deadline.
func NewClock(now, deadline time.Time) *Clock {
	return &Clock{Deadline: deadline, Reference: deadline.Sub(now)}
}

// Remaining returns the time left, never negative.
func (c *Clock) Remaining(now time.Time) time.Duration {
	return max(c.Deadline.Sub(now), 0)
}

// Event is a countdown transition reported by Tick.
type Event int

const (
	NoEvent Event = iota
	Celebrate
	Count
)

// Tick reports Celebrate once the deadline passes and Count when the
// deadline moves back into the future.
func (c *Clock) Tick(now time.Time) Event {
	done := !now.Before(c.Deadline)
	switch {
	case done && !c.celebrating:
		c.celebrating = true
		return Celebrate
	case !done && c.celebrating:
		c.celebrating = false
		return Count
	}
	return NoEvent
}

// Restart moves the deadline to now + d.
func (c *Clock) Restart(now time.Time, d time.Duration) {
	c.Deadline = now.Add(d)
	c.Reference = d
}
