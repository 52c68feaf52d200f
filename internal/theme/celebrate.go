package theme

import (
	"context"
	"time"
)

// OnCelebrating starts the wall transition: ambient stops, digits clear, the
// wall builds, the message is laid out underneath and the wall comes down
// revealing it. ctx aborts the sequence, leaving the static message.
func (t *Theme) OnCelebrating(ctx context.Context, message string, now time.Time) {
	if !t.mounted {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	t.endCelebration()
	t.wall.ClearWall(t.grid)

	t.ambient.Stop(t.grid)
	t.text.ClearDigits(t.grid)
	t.text.ClearMessage(t.grid)
	t.textBox = nil
	t.updateExclusion()

	t.message = message
	t.celebCtx, t.cancel = context.WithCancel(ctx)
	t.celebTok = t.tracker.Track("celebration", t.cancel)

	if err := t.wall.BuildWall(t.celebCtx, t.grid, now); err != nil {
		t.abort(err, now)
		return
	}
	t.state = building
	t.log.Info("celebrating", "message", message, "cells", t.grid.Len())
}

// OnCelebrated shows message statically. A running transition for the same
// message is left to finish on its own.
func (t *Theme) OnCelebrated(message string, now time.Time) {
	if !t.mounted {
		return
	}
	if (t.state == building || t.state == unbuilding) && message == t.message {
		return
	}
	t.endCelebration()
	t.wall.ClearWall(t.grid)
	t.ambient.Stop(t.grid)
	t.text.ClearDigits(t.grid)
	t.message = message
	t.showStatic(now)
}

// OnCounting returns to the countdown: message and wall clear, ambient
// restarts and the last digit lines come back.
func (t *Theme) OnCounting(now time.Time) {
	if !t.mounted {
		return
	}
	t.endCelebration()
	t.wall.ClearWall(t.grid)
	t.text.ClearMessage(t.grid)
	t.message = ""
	t.state = counting
	t.textBox = nil
	if len(t.lines) > 0 {
		t.text.LayoutDigits(t.grid, t.lines, now)
		t.syncTextBox()
	}
	t.updateExclusion()
	t.ambient.Start()
	t.log.Debug("counting")
}

// advanceCelebration moves the wall one step and sequences build → message
// → unbuild.
func (t *Theme) advanceCelebration(now time.Time) {
	switch t.state {
	case building:
		done, err := t.wall.Advance(t.grid, now)
		if err != nil {
			t.abort(err, now)
			return
		}
		if !done {
			return
		}
		res := t.text.LayoutMessage(t.grid, t.message)
		if res.OK {
			box := res.Box
			t.textBox = &box
		}
		if err := t.wall.UnbuildWall(t.celebCtx, t.grid, now); err != nil {
			t.abort(err, now)
			return
		}
		t.state = unbuilding
		t.log.Debug("wall built", "message_cells", len(res.CellIndices))
	case unbuilding:
		done, err := t.wall.Advance(t.grid, now)
		if err != nil {
			t.abort(err, now)
			return
		}
		if !done {
			return
		}
		t.endCelebration()
		t.state = celebrated
		t.updateExclusion()
		t.ambient.Start()
		t.log.Info("celebrated", "message", t.message)
	}
}

// abort rolls back a failed or cancelled transition and falls back to the
// static message.
func (t *Theme) abort(err error, now time.Time) {
	t.log.Warn("celebration aborted", "err", err)
	t.endCelebration()
	t.wall.ClearWall(t.grid)
	t.showStatic(now)
}

// showStatic lays the message out without a wall and starts its pulse.
func (t *Theme) showStatic(now time.Time) {
	res := t.text.LayoutMessage(t.grid, t.message)
	for _, idx := range res.CellIndices {
		if c := t.grid.Cell(idx); c != nil {
			c.PulseStart = now
		}
	}
	t.textBox = nil
	if res.OK {
		box := res.Box
		t.textBox = &box
	}
	t.state = celebrated
	t.updateExclusion()
	t.ambient.Start()
}

// endCelebration releases the celebration context without touching the
// grid.
func (t *Theme) endCelebration() {
	if t.cancel != nil {
		t.tracker.Release(t.celebTok)
		t.cancel()
	}
	t.cancel = nil
	t.celebCtx = nil
	t.celebTok = 0
}
