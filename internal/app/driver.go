package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"countdown-grid/internal/core"
	"countdown-grid/internal/textlayout"
)

// NewTheme builds the named theme from the registry.
func NewTheme(name string, surface core.Surface, cfg map[string]string) (core.Theme, error) {
	factory, ok := core.Themes()[name]
	if !ok {
		names := make([]string, 0, len(core.Themes()))
		for n := range core.Themes() {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown theme %q (available: %v)", name, names)
	}
	return factory(surface, cfg), nil
}

// Driver feeds a theme from a countdown clock. Every front end calls Step
// once per host frame.
type Driver struct {
	Theme   core.Theme
	Clock   *Clock
	Message string

	ctx context.Context
	log *log.Logger
}

// NewDriver returns a driver. ctx bounds every celebration it starts.
func NewDriver(ctx context.Context, th core.Theme, clock *Clock, message string, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{Theme: th, Clock: clock, Message: message, ctx: ctx, log: logger}
}

// Step handles countdown transitions, refreshes the digits and runs one
// theme frame. It reports whether the frame did work.
func (d *Driver) Step(now time.Time) bool {
	switch d.Clock.Tick(now) {
	case Celebrate:
		d.log.Info("deadline reached", "message", d.Message)
		d.Theme.OnCelebrating(d.ctx, d.Message, now)
	case Count:
		d.Theme.OnCounting(now)
	}
	remaining := d.Clock.Remaining(now)
	if remaining > 0 {
		d.Theme.UpdateDigits(textlayout.FormatCountdown(remaining), now)
	}
	return d.Theme.Frame(now, remaining)
}

// CelebrateNow moves the deadline to now so the next Step celebrates.
func (d *Driver) CelebrateNow(now time.Time) {
	d.Clock.Deadline = now
}
