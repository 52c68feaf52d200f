// Package stage maps the time remaining on a countdown to a named activity
// phase and its tunables.
//
// Thresholds are absolute, not proportional to the countdown length, so the
// last minute looks the same whether the countdown started five minutes or
// five days ago.
package stage

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Stage names in the default table.
const (
	Calm     = "calm"
	Building = "building"
	Intense  = "intense"
	Final    = "final"
)

// Values are the tunables a stage hands to the ambient engine.
type Values struct {
	// CoveragePerMille is the target share (per thousand) of eligible cells
	// animated at once.
	CoveragePerMille float64
	// TurnoverRatio is the share of active cells replaced per tick.
	TurnoverRatio float64
	// TickInterval is the upper bound on the spacing between activation
	// batches.
	TickInterval time.Duration
}

// Definition names a stage, the minimum time remaining that selects it and
// its values.
type Definition struct {
	Name      string
	Threshold time.Duration
	Values    Values
	// DurationMultiplier scales Config.BaseDuration for this stage.
	DurationMultiplier float64
}

// Result is the outcome of a stage lookup.
type Result struct {
	Name   string
	Values Values
	// Progress is 0 at the stage's upper bound and approaches 1 at its
	// threshold.
	Progress float64
	Index    int
}

// DefaultTable returns the stage table ordered from longest to shortest
// threshold.
func DefaultTable() []Definition {
	return []Definition{
		{
			Name:               Calm,
			Threshold:          24 * time.Hour,
			Values:             Values{CoveragePerMille: 2, TurnoverRatio: 0.05, TickInterval: 2 * time.Second},
			DurationMultiplier: 1.5,
		},
		{
			Name:               Building,
			Threshold:          time.Hour,
			Values:             Values{CoveragePerMille: 6, TurnoverRatio: 0.1, TickInterval: 1200 * time.Millisecond},
			DurationMultiplier: 1.2,
		},
		{
			Name:               Intense,
			Threshold:          time.Minute,
			Values:             Values{CoveragePerMille: 15, TurnoverRatio: 0.2, TickInterval: 600 * time.Millisecond},
			DurationMultiplier: 1.0,
		},
		{
			Name:               Final,
			Threshold:          0,
			Values:             Values{CoveragePerMille: 30, TurnoverRatio: 0.35, TickInterval: 300 * time.Millisecond},
			DurationMultiplier: 0.7,
		},
	}
}

// ErrUnknownStage is matched by errors returned from StageByName.
var ErrUnknownStage = errors.New("unknown stage")

// UnknownStageError reports the name that was not found.
type UnknownStageError struct {
	Name string
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("unknown stage %q", e.Name)
}

// Is lets errors.Is match ErrUnknownStage.
func (e *UnknownStageError) Is(target error) bool { return target == ErrUnknownStage }

// Config holds the tunables of the derived helpers.
type Config struct {
	BaseDuration       time.Duration
	BatchOverlap       float64
	MaxStaggerFraction float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		BaseDuration:       3 * time.Second,
		BatchOverlap:       0.2,
		MaxStaggerFraction: 0.5,
	}
}

type cacheEntry struct {
	remaining time.Duration
	reference time.Duration
	result    Result
}

// Scheduler selects stages from a table and memoizes the last lookup.
type Scheduler struct {
	cfg   Config
	table []Definition
	cache *cacheEntry
}

// New returns a scheduler over the default table.
func New(cfg Config) *Scheduler {
	return NewWithTable(cfg, DefaultTable())
}

// NewWithTable returns a scheduler over a custom table. The table must be
// ordered from longest to shortest threshold.
func NewWithTable(cfg Config, table []Definition) *Scheduler {
	return &Scheduler{cfg: cfg, table: append([]Definition(nil), table...)}
}

// Config returns the helper tunables.
func (s *Scheduler) Config() Config { return s.cfg }

// Table returns a copy of the stage table.
func (s *Scheduler) Table() []Definition {
	return append([]Definition(nil), s.table...)
}

// SetTable replaces the stage table and clears the cache.
func (s *Scheduler) SetTable(table []Definition) {
	s.table = append([]Definition(nil), table...)
	s.ClearCache()
}

// ClearCache drops the memoized lookup.
func (s *Scheduler) ClearCache() { s.cache = nil }

// Stage returns the stage for the given time remaining. reference is the
// total countdown length and only bounds Progress for the topmost stage.
// Identical inputs hit a single-slot cache.
func (s *Scheduler) Stage(remaining, reference time.Duration) Result {
	if s.cache != nil && s.cache.remaining == remaining && s.cache.reference == reference {
		return s.cache.result
	}
	res := s.lookup(remaining, reference)
	s.cache = &cacheEntry{remaining: remaining, reference: reference, result: res}
	return res
}

func (s *Scheduler) lookup(remaining, reference time.Duration) Result {
	if len(s.table) == 0 {
		return Result{Index: -1}
	}
	idx := len(s.table) - 1
	for i, def := range s.table {
		if remaining >= def.Threshold {
			idx = i
			break
		}
	}
	def := s.table[idx]
	return Result{
		Name:     def.Name,
		Values:   def.Values,
		Progress: s.progress(idx, remaining, reference),
		Index:    idx,
	}
}

func (s *Scheduler) progress(idx int, remaining, reference time.Duration) float64 {
	lower := s.table[idx].Threshold
	var upper time.Duration
	if idx > 0 {
		upper = s.table[idx-1].Threshold
	} else {
		upper = reference
	}
	span := upper - lower
	if span <= 0 {
		if remaining <= lower {
			return 1
		}
		return 0
	}
	p := float64(upper-remaining) / float64(span)
	return math.Max(0, math.Min(1, p))
}

// StageByName returns the definition registered under name.
func (s *Scheduler) StageByName(name string) (Definition, error) {
	for _, def := range s.table {
		if def.Name == name {
			return def, nil
		}
	}
	return Definition{}, &UnknownStageError{Name: name}
}

// Duration returns the ambient animation length for the named stage:
// BaseDuration × the stage's multiplier.
func (s *Scheduler) Duration(name string) (time.Duration, error) {
	def, err := s.StageByName(name)
	if err != nil {
		return 0, fmt.Errorf("stage duration: %w", err)
	}
	mult := def.DurationMultiplier
	if mult <= 0 {
		mult = 1
	}
	return time.Duration(float64(s.cfg.BaseDuration) * mult), nil
}

// BatchLifetime is how long one activation batch stays visible once its
// start stagger is included: duration × (1 + MaxStaggerFraction).
func (s *Scheduler) BatchLifetime(name string) (time.Duration, error) {
	d, err := s.Duration(name)
	if err != nil {
		return 0, err
	}
	return time.Duration(float64(d) * (1 + s.cfg.MaxStaggerFraction)), nil
}

// TickInterval is the spacing between activation batches for the named
// stage. It never exceeds BatchLifetime × (1 − BatchOverlap) so successive
// batches always overlap.
func (s *Scheduler) TickInterval(name string) (time.Duration, error) {
	def, err := s.StageByName(name)
	if err != nil {
		return 0, err
	}
	lifetime, err := s.BatchLifetime(name)
	if err != nil {
		return 0, err
	}
	limit := time.Duration(float64(lifetime) * (1 - s.cfg.BatchOverlap))
	if def.Values.TickInterval <= 0 || def.Values.TickInterval > limit {
		return limit, nil
	}
	return def.Values.TickInterval, nil
}
