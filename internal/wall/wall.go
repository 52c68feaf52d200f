// Package wall animates the celebration transition: cells are covered one
// batch at a time in a gravity-constrained order, then uncovered in reverse.
package wall

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"countdown-grid/internal/core"
)

// State is the position of the animator in its build/unbuild cycle.
type State int

const (
	Idle State = iota
	Building
	Built
	Unbuilding
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Building:
		return "building"
	case Built:
		return "built"
	case Unbuilding:
		return "unbuilding"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrAborted is returned by Advance once the context of the running
	// build or unbuild is done. The animator does not roll back; callers
	// follow up with ClearWall.
	ErrAborted = errors.New("wall animation aborted")
	// ErrBusy is returned when an operation is requested in the wrong state.
	ErrBusy = errors.New("wall animator busy")
)

// Config holds the animation tunables.
type Config struct {
	FrameDelay     time.Duration
	TargetDuration time.Duration
	MaxPerFrame    int
	HoldDelay      time.Duration
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		FrameDelay:     100 * time.Millisecond,
		TargetDuration: 1800 * time.Millisecond,
		MaxPerFrame:    400,
		HoldDelay:      600 * time.Millisecond,
	}
}

// BatchSize returns how many cells one frame flips so that total cells take
// about TargetDuration: ⌈total / ⌈TargetDuration / FrameDelay⌉⌉, capped at
// MaxPerFrame.
func (c Config) BatchSize(total int) int {
	if total <= 0 {
		return 0
	}
	frames := 1
	if c.FrameDelay > 0 && c.TargetDuration > 0 {
		frames = int(math.Ceil(float64(c.TargetDuration) / float64(c.FrameDelay)))
	}
	batch := int(math.Ceil(float64(total) / float64(frames)))
	if c.MaxPerFrame > 0 && batch > c.MaxPerFrame {
		batch = c.MaxPerFrame
	}
	return max(batch, 1)
}

// PlacementOrder returns every cell index ordered bottom row first. Within a
// row the columns are shuffled, and a column only receives a cell while its
// stack is still below the row being placed, so bricks land on top of
// existing ones.
func PlacementOrder(g *core.Grid, rng *core.RNG) []int {
	heights := make([]int, g.Cols)
	for i := range heights {
		heights[i] = g.Rows
	}
	cols := make([]int, g.Cols)
	order := make([]int, 0, g.Len())
	for row := g.Rows - 1; row >= 0; row-- {
		for i := range cols {
			cols[i] = i
		}
		rng.Shuffle(cols)
		for _, col := range cols {
			if heights[col] <= row {
				continue
			}
			order = append(order, g.Index(col, row))
			heights[col] = row
		}
	}
	return order
}

// Animator drives wall build and unbuild. Advance must be called from the
// frame loop; nothing happens between calls.
type Animator struct {
	cfg Config
	rng *core.RNG

	state   State
	ctx     context.Context
	order   []int
	pos     int
	batch   int
	nextAt  time.Time
	holding bool
	holdEnd time.Time

	revealed []int
}

// New returns an idle animator.
func New(cfg Config, rng *core.RNG) *Animator {
	if rng == nil {
		rng = core.NewRNG(time.Now().UnixNano())
	}
	return &Animator{cfg: cfg, rng: rng}
}

// State reports the current state.
func (a *Animator) State() State { return a.state }

// Order returns a copy of the stored placement sequence.
func (a *Animator) Order() []int { return append([]int(nil), a.order...) }

// Revealed returns the cells uncovered by the last unbuild, in reveal order.
func (a *Animator) Revealed() []int { return append([]int(nil), a.revealed...) }

// Progress returns the fraction of the current sequence already applied.
func (a *Animator) Progress() float64 {
	if len(a.order) == 0 {
		return 0
	}
	switch a.state {
	case Building:
		return float64(a.pos) / float64(len(a.order))
	case Built:
		return 1
	case Unbuilding:
		return 1 - float64(a.pos)/float64(len(a.order))
	}
	return 0
}

// BuildWall starts covering g. The placement sequence is computed once and
// kept for UnbuildWall. Progress happens in Advance.
func (a *Animator) BuildWall(ctx context.Context, g *core.Grid, now time.Time) error {
	if a.state != Idle {
		return fmt.Errorf("build wall in state %s: %w", a.state, ErrBusy)
	}
	a.order = PlacementOrder(g, a.rng)
	a.pos = 0
	a.batch = a.cfg.BatchSize(len(a.order))
	a.ctx = ctx
	a.nextAt = now
	a.holding = false
	a.revealed = a.revealed[:0]
	a.state = Building
	return nil
}

// UnbuildWall starts uncovering g in the reverse of the build order.
func (a *Animator) UnbuildWall(ctx context.Context, g *core.Grid, now time.Time) error {
	if a.state != Built || a.holding {
		return fmt.Errorf("unbuild wall in state %s: %w", a.state, ErrBusy)
	}
	a.pos = len(a.order)
	a.batch = a.cfg.BatchSize(len(a.order))
	a.ctx = ctx
	a.nextAt = now
	a.revealed = make([]int, 0, len(a.order))
	a.state = Unbuilding
	return nil
}

// Advance applies every batch that is due at now. It reports done once the
// running operation finished: a build after its hold delay, an unbuild once
// every cell is uncovered. A cancelled context yields ErrAborted and leaves
// the partially applied wall in place.
func (a *Animator) Advance(g *core.Grid, now time.Time) (bool, error) {
	switch a.state {
	case Idle:
		return true, nil
	case Built:
		if !a.holding {
			return true, nil
		}
		if err := a.checkCtx(); err != nil {
			return false, err
		}
		if now.Before(a.holdEnd) {
			return false, nil
		}
		a.holding = false
		return true, nil
	}

	if err := a.checkCtx(); err != nil {
		return false, err
	}
	if now.Before(a.nextAt) {
		return false, nil
	}
	a.nextAt = now.Add(a.cfg.FrameDelay)

	if a.state == Building {
		end := min(a.pos+a.batch, len(a.order))
		for _, idx := range a.order[a.pos:end] {
			if c := g.Cell(idx); c != nil {
				c.IsWall = true
				g.MarkDirty(idx)
			}
		}
		a.pos = end
		if a.pos >= len(a.order) {
			a.state = Built
			a.holding = true
			a.holdEnd = now.Add(a.cfg.HoldDelay)
		}
		return false, nil
	}

	start := max(a.pos-a.batch, 0)
	for i := a.pos - 1; i >= start; i-- {
		idx := a.order[i]
		a.reveal(g, idx, now)
	}
	a.pos = start
	if a.pos == 0 {
		a.state = Idle
		a.order = nil
		a.ctx = nil
		return true, nil
	}
	return false, nil
}

func (a *Animator) reveal(g *core.Grid, idx int, now time.Time) {
	a.revealed = append(a.revealed, idx)
	c := g.Cell(idx)
	if c == nil {
		return
	}
	c.IsWall = false
	switch {
	case c.IsMessage:
		c.PulseStart = now
	case !c.IsDigit:
		c.Intensity = 0
		c.IsAmbient = false
		c.AmbientProgress = 0
		c.AmbientTarget = 0
	}
	g.MarkDirty(idx)
}

func (a *Animator) checkCtx() error {
	if a.ctx == nil {
		return nil
	}
	if err := a.ctx.Err(); err != nil {
		a.state = Idle
		a.holding = false
		a.ctx = nil
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	return nil
}

// ClearWall synchronously removes every wall cell and forgets the placement
// sequence. Used to recover from aborts and errors.
func (a *Animator) ClearWall(g *core.Grid) {
	for idx := range g.Cells {
		c := &g.Cells[idx]
		if !c.IsWall {
			continue
		}
		c.IsWall = false
		g.MarkDirty(idx)
	}
	a.state = Idle
	a.order = nil
	a.pos = 0
	a.holding = false
	a.ctx = nil
}
