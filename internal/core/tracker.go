package core

import "sort"

// Tracker collects cancel functions for timers, frame handles and observers
// so a caller can tear everything down in one call.
type Tracker struct {
	next    int
	cancels map[int]trackedCancel
}

type trackedCancel struct {
	name string
	fn   func()
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{cancels: map[int]trackedCancel{}}
}

// Track registers cancel under a descriptive name and returns a handle that
// can be passed to Release once the resource ended on its own.
func (t *Tracker) Track(name string, cancel func()) int {
	if cancel == nil {
		return 0
	}
	t.next++
	t.cancels[t.next] = trackedCancel{name: name, fn: cancel}
	return t.next
}

// Release forgets a handle without calling its cancel function.
func (t *Tracker) Release(handle int) { delete(t.cancels, handle) }

// Len reports the number of live registrations.
func (t *Tracker) Len() int { return len(t.cancels) }

// Names lists the live registrations, oldest first.
func (t *Tracker) Names() []string {
	ids := t.ids()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, t.cancels[id].name)
	}
	return names
}

// CancelAll invokes every registered cancel function, newest first, and
// empties the tracker.
func (t *Tracker) CancelAll() {
	ids := t.ids()
	for i := len(ids) - 1; i >= 0; i-- {
		c := t.cancels[ids[i]]
		delete(t.cancels, ids[i])
		c.fn()
	}
}

func (t *Tracker) ids() []int {
	ids := make([]int, 0, len(t.cancels))
	for id := range t.cancels {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
