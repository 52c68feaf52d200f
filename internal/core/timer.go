package core

import (
	"sort"
	"time"
)

// Throttle gates a host frame callback down to a steady frames-per-second
// rate. Callers pass the host timestamp so tests can drive it with a
// synthetic clock.
type Throttle struct {
	interval time.Duration
	last     time.Time
}

// NewThrottle constructs a Throttle targeting the given FPS.
func NewThrottle(fps int) *Throttle {
	t := &Throttle{}
	t.SetFPS(fps)
	return t
}

// SetFPS changes the target rate. It is safe to call from the frame loop.
func (t *Throttle) SetFPS(fps int) {
	if fps <= 0 {
		fps = 30
	}
	t.interval = time.Second / time.Duration(fps)
}

// Interval reports the minimum spacing between accepted frames.
func (t *Throttle) Interval() time.Duration { return t.interval }

// Accept reports whether the frame at now should do work. The first call
// always accepts.
func (t *Throttle) Accept(now time.Time) bool {
	if t.last.IsZero() || now.Sub(t.last) >= t.interval {
		t.last = now
		return true
	}
	return false
}

// Reset forgets the last accepted frame.
func (t *Throttle) Reset() { t.last = time.Time{} }

// TimerID identifies a callback scheduled on Timers.
type TimerID uint64

type pendingTimer struct {
	id  TimerID
	due time.Time
	fn  func(now time.Time)
}

// Timers is a cooperative timer queue. Callbacks never run on their own
// goroutine: the frame loop calls Run, so every callback executes on the
// single writer that owns the grid.
type Timers struct {
	next    TimerID
	pending []pendingTimer
}

// NewTimers returns an empty queue.
func NewTimers() *Timers { return &Timers{} }

// After schedules fn to run on the first Run call at or after now+d.
func (t *Timers) After(now time.Time, d time.Duration, fn func(now time.Time)) TimerID {
	t.next++
	t.pending = append(t.pending, pendingTimer{id: t.next, due: now.Add(d), fn: fn})
	return t.next
}

// Cancel drops a pending callback. Unknown ids are ignored.
func (t *Timers) Cancel(id TimerID) {
	for i := range t.pending {
		if t.pending[i].id == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return
		}
	}
}

// CancelAll drops every pending callback.
func (t *Timers) CancelAll() { t.pending = t.pending[:0] }

// Len reports the number of pending callbacks.
func (t *Timers) Len() int { return len(t.pending) }

// Run executes every callback due at now in due order. Callbacks scheduled
// while running wait for the next Run.
func (t *Timers) Run(now time.Time) int {
	if len(t.pending) == 0 {
		return 0
	}
	var due []pendingTimer
	kept := t.pending[:0]
	for _, p := range t.pending {
		if !p.due.After(now) {
			due = append(due, p)
			continue
		}
		kept = append(kept, p)
	}
	t.pending = kept
	sort.SliceStable(due, func(i, j int) bool { return due[i].due.Before(due[j].due) })
	for _, p := range due {
		p.fn(now)
	}
	return len(due)
}
