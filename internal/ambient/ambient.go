// Package ambient keeps the background of the grid alive: it activates
// random eligible cells and fades them in, holds and fades them out according
// to the current stage.
package ambient

import (
	"math"
	"time"

	"countdown-grid/internal/core"
	"countdown-grid/internal/stage"
)

// Config holds the engine tunables.
type Config struct {
	// BatchFraction bounds one activation batch to ⌈target × BatchFraction⌉.
	BatchFraction float64
	// ConcurrencyMultiplier caps active animations at this many batches.
	ConcurrencyMultiplier int
	// DurationJitter randomizes each duration by ± this fraction.
	DurationJitter float64
	// MaxStaggerFraction delays each start by up to this share of its
	// duration so a batch never appears as a single wave.
	MaxStaggerFraction float64
	// CleanupBuffer pads the safety-net reset scheduled for every cell.
	CleanupBuffer time.Duration
	// IntensityWeights are the relative odds of levels 1..4.
	IntensityWeights [core.MaxIntensity]float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		BatchFraction:         0.2,
		ConcurrencyMultiplier: 3,
		DurationJitter:        0.2,
		MaxStaggerFraction:    0.5,
		CleanupBuffer:         250 * time.Millisecond,
		IntensityWeights:      [core.MaxIntensity]float64{0.5, 0.25, 0.15, 0.1},
	}
}

// Phase is the per-stage input of ManageActivity.
type Phase struct {
	Name         string
	Values       stage.Values
	Duration     time.Duration
	TickInterval time.Duration
}

// PhaseFor derives the engine input for a stage lookup result.
func PhaseFor(s *stage.Scheduler, res stage.Result) (Phase, error) {
	d, err := s.Duration(res.Name)
	if err != nil {
		return Phase{}, err
	}
	tick, err := s.TickInterval(res.Name)
	if err != nil {
		return Phase{}, err
	}
	return Phase{Name: res.Name, Values: res.Values, Duration: d, TickInterval: tick}, nil
}

// Animation tracks one animating cell.
type Animation struct {
	Index    int
	Target   uint8
	Start    time.Time
	Duration time.Duration
}

type poolCache struct {
	grid      *core.Grid
	excluded  bool
	exclusion core.Box
	indices   []int
}

func (p *poolCache) matches(g *core.Grid) bool {
	if p == nil || p.grid != g {
		return false
	}
	if g.Exclusion == nil {
		return !p.excluded
	}
	return p.excluded && p.exclusion == *g.Exclusion
}

// Engine drives ambient activity on a grid. It is not safe for concurrent
// use; the frame loop is its only caller.
type Engine struct {
	cfg    Config
	rng    *core.RNG
	timers *core.Timers

	anims   map[int]*Animation
	cleanup map[int]core.TimerID
	pool    *poolCache
	seen    map[int]struct{}

	running  bool
	nextTick time.Time
}

// New returns a stopped engine. timers may be nil, in which case no
// safety-net cleanup is scheduled.
func New(cfg Config, rng *core.RNG, timers *core.Timers) *Engine {
	if rng == nil {
		rng = core.NewRNG(time.Now().UnixNano())
	}
	return &Engine{
		cfg:     cfg,
		rng:     rng,
		timers:  timers,
		anims:   map[int]*Animation{},
		cleanup: map[int]core.TimerID{},
		seen:    map[int]struct{}{},
	}
}

// Start resets the tick clock and enables activation.
func (e *Engine) Start() {
	e.running = true
	e.nextTick = time.Time{}
}

// Running reports whether activation is enabled.
func (e *Engine) Running() bool { return e.running }

// Stop clears every active animation, restores the affected cells and marks
// them dirty.
func (e *Engine) Stop(g *core.Grid) {
	e.running = false
	for idx := range e.anims {
		if c := g.Cell(idx); c != nil {
			clearAmbient(c, !c.Claimed())
			g.MarkDirty(idx)
		}
		e.cancelCleanup(idx)
	}
	clear(e.anims)
}

// Forget drops all state without touching any grid. Used when the grid is
// discarded wholesale.
func (e *Engine) Forget() {
	for idx := range e.cleanup {
		e.cancelCleanup(idx)
	}
	clear(e.anims)
	e.pool = nil
}

// ActiveCount reports the number of animating cells.
func (e *Engine) ActiveCount() int { return len(e.anims) }

// Animation returns the animation on idx, if any.
func (e *Engine) Animation(idx int) (Animation, bool) {
	a, ok := e.anims[idx]
	if !ok {
		return Animation{}, false
	}
	return *a, true
}

// InvalidatePool drops the cached eligible pool.
func (e *Engine) InvalidatePool() { e.pool = nil }

// EligibleCount returns the size of the eligible pool for g.
func (e *Engine) EligibleCount(g *core.Grid) int { return len(e.eligible(g)) }

// Target returns the number of concurrent animations a phase aims for.
func (e *Engine) Target(g *core.Grid, phase Phase) int {
	return targetFor(len(e.eligible(g)), phase.Values.CoveragePerMille)
}

func targetFor(eligible int, perMille float64) int {
	if eligible <= 0 || perMille <= 0 {
		return 0
	}
	return int(math.Ceil(float64(eligible) * perMille / 1000))
}

// BatchSize is the most cells one tick may activate for target.
func (e *Engine) BatchSize(target int) int {
	if target <= 0 {
		return 0
	}
	return max(1, int(math.Ceil(float64(target)*e.cfg.BatchFraction)))
}

// ConcurrencyCap bounds the number of simultaneous animations: the target
// plus ConcurrencyMultiplier batches of headroom for overlap and turnover.
func (e *Engine) ConcurrencyCap(target int) int {
	mult := e.cfg.ConcurrencyMultiplier
	if mult <= 0 {
		mult = 3
	}
	return target + mult*e.BatchSize(target)
}

// ManageActivity activates new cells when the tick timer has elapsed. It
// returns the number of cells activated.
func (e *Engine) ManageActivity(g *core.Grid, phase Phase, now time.Time) int {
	if !e.running || g == nil {
		return 0
	}
	if !e.nextTick.IsZero() && now.Before(e.nextTick) {
		return 0
	}
	e.nextTick = now.Add(phase.TickInterval)

	pool := e.eligible(g)
	target := targetFor(len(pool), phase.Values.CoveragePerMille)
	if target == 0 {
		return 0
	}
	active := len(e.anims)
	batch := e.BatchSize(target)
	limit := e.ConcurrencyCap(target)

	want := 0
	if deficit := target - active; deficit > 0 {
		want = min(deficit, batch)
	} else if phase.Values.TurnoverRatio > 0 {
		want = min(batch, int(math.Ceil(float64(active)*phase.Values.TurnoverRatio)))
	}
	want = min(want, limit-active)
	if want <= 0 {
		return 0
	}

	picked := e.sample(g, pool, want)
	for _, idx := range picked {
		e.activate(g, idx, phase.Duration, now)
	}
	return len(picked)
}

// sample draws up to n distinct cells from pool that are still eligible and
// idle. Draws are uniform; stale entries are rejected and redrawn.
func (e *Engine) sample(g *core.Grid, pool []int, n int) []int {
	clear(e.seen)
	picked := make([]int, 0, n)
	attempts := 4*n + 16
	for len(picked) < n && attempts > 0 && len(e.seen) < len(pool) {
		attempts--
		idx := pool[e.rng.IntN(len(pool))]
		if _, dup := e.seen[idx]; dup {
			continue
		}
		e.seen[idx] = struct{}{}
		if _, busy := e.anims[idx]; busy || !g.AmbientEligible(idx) {
			continue
		}
		picked = append(picked, idx)
	}
	return picked
}

func (e *Engine) activate(g *core.Grid, idx int, base time.Duration, now time.Time) {
	c := g.Cell(idx)
	if c == nil {
		return
	}
	jitter := 1 + e.cfg.DurationJitter*(2*e.rng.Float64()-1)
	duration := time.Duration(float64(base) * jitter)
	if duration <= 0 {
		duration = time.Millisecond
	}
	stagger := time.Duration(e.rng.Float64() * e.cfg.MaxStaggerFraction * float64(duration))
	a := &Animation{
		Index:    idx,
		Target:   e.pickIntensity(),
		Start:    now.Add(stagger),
		Duration: duration,
	}
	e.anims[idx] = a
	c.IsAmbient = true
	c.AmbientTarget = a.Target
	c.AmbientProgress = 0
	g.MarkDirty(idx)

	if e.timers != nil {
		e.cancelCleanup(idx)
		wait := stagger + duration + e.cfg.CleanupBuffer
		e.cleanup[idx] = e.timers.After(now, wait, func(time.Time) {
			delete(e.cleanup, idx)
			e.safetyReset(g, idx)
		})
	}
}

// safetyReset runs when a cell's cleanup deadline passed. The per-frame
// update normally got there first, in which case this is a no-op.
func (e *Engine) safetyReset(g *core.Grid, idx int) {
	c := g.Cell(idx)
	if c == nil || !c.IsAmbient {
		return
	}
	delete(e.anims, idx)
	clearAmbient(c, !c.Claimed())
	g.MarkDirty(idx)
}

func (e *Engine) pickIntensity() uint8 {
	total := 0.0
	for _, w := range e.cfg.IntensityWeights {
		total += w
	}
	if total <= 0 {
		return 1
	}
	r := e.rng.Float64() * total
	for i, w := range e.cfg.IntensityWeights {
		if r < w {
			return uint8(i + 1)
		}
		r -= w
	}
	return core.MaxIntensity
}

// UpdateAnimations advances every active animation. Finished cells return to
// intensity 0. It reports whether any animation is still active.
func (e *Engine) UpdateAnimations(g *core.Grid, now time.Time) bool {
	for idx, a := range e.anims {
		c := g.Cell(idx)
		if c == nil {
			delete(e.anims, idx)
			e.cancelCleanup(idx)
			continue
		}
		if c.Claimed() {
			// Digit, wall or message took the cell over.
			clearAmbient(c, false)
			delete(e.anims, idx)
			e.cancelCleanup(idx)
			g.MarkDirty(idx)
			continue
		}
		if now.Before(a.Start) {
			continue
		}
		progress := 1.0
		if a.Duration > 0 {
			progress = math.Min(1, float64(now.Sub(a.Start))/float64(a.Duration))
		}
		if progress >= 1 {
			clearAmbient(c, true)
			delete(e.anims, idx)
			e.cancelCleanup(idx)
			g.MarkDirty(idx)
			continue
		}
		c.AmbientProgress = progress
		g.MarkDirty(idx)
	}
	return len(e.anims) > 0
}

// AmbientIntensity returns the fractional intensity of an animating cell.
func (e *Engine) AmbientIntensity(c *core.Cell) float64 {
	if c == nil || !c.IsAmbient {
		return 0
	}
	return Intensity(c.AmbientProgress, float64(c.AmbientTarget))
}

func (e *Engine) cancelCleanup(idx int) {
	id, ok := e.cleanup[idx]
	if !ok {
		return
	}
	delete(e.cleanup, idx)
	if e.timers != nil {
		e.timers.Cancel(id)
	}
}

func clearAmbient(c *core.Cell, resetIntensity bool) {
	c.IsAmbient = false
	c.AmbientProgress = 0
	c.AmbientTarget = 0
	if resetIntensity {
		c.Intensity = 0
	}
}

func (e *Engine) eligible(g *core.Grid) []int {
	if e.pool.matches(g) {
		return e.pool.indices
	}
	indices := make([]int, 0, g.Len())
	for idx := range g.Cells {
		if g.AmbientEligible(idx) {
			indices = append(indices, idx)
		}
	}
	e.pool = &poolCache{grid: g, indices: indices}
	if g.Exclusion != nil {
		e.pool.excluded, e.pool.exclusion = true, *g.Exclusion
	}
	return indices
}
