// Package theme implements the contribution-graph countdown: a grid of
// GitHub-style squares with ambient activity, bitmap digits and a wall
// transition into the celebration message.
package theme

import (
	"context"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"countdown-grid/internal/ambient"
	"countdown-grid/internal/core"
	"countdown-grid/internal/render"
	"countdown-grid/internal/stage"
	"countdown-grid/internal/textlayout"
	"countdown-grid/internal/wall"
)

// Name is the registry key of the contribution theme.
const Name = "contributions"

func init() {
	core.Register(Name, func(surface core.Surface, cfg map[string]string) core.Theme {
		return New(surface, FromMap(cfg))
	})
}

type celebration int

const (
	counting celebration = iota
	building
	unbuilding
	celebrated
)

func (c celebration) String() string {
	switch c {
	case counting:
		return "counting"
	case building:
		return "building"
	case unbuilding:
		return "unbuilding"
	case celebrated:
		return "celebrated"
	}
	return "unknown"
}

// Option customizes a Theme.
type Option func(*Theme)

// WithLogger routes lifecycle logging to l.
func WithLogger(l *log.Logger) Option {
	return func(t *Theme) {
		if l != nil {
			t.log = l
		}
	}
}

// WithRNG overrides the seeded random source.
func WithRNG(rng *core.RNG) Option {
	return func(t *Theme) {
		if rng != nil {
			t.rng = rng
		}
	}
}

// WithPrefersDark installs the host colour-scheme preference used by system
// mode.
func WithPrefersDark(fn func() bool) Option {
	return func(t *Theme) { t.prefersDark = fn }
}

// WithTracker registers the theme's resources on a caller-owned tracker.
func WithTracker(tr *core.Tracker) Option {
	return func(t *Theme) {
		if tr != nil {
			t.tracker = tr
		}
	}
}

// Theme is the contribution-graph countdown. All methods must be called from
// the single goroutine that drives Frame.
type Theme struct {
	cfg         Config
	log         *log.Logger
	rng         *core.RNG
	prefersDark func() bool

	surface  core.Surface
	grid     *core.Grid
	size     core.Size
	timers   *core.Timers
	tracker  *core.Tracker
	throttle *core.Throttle

	stages   *stage.Scheduler
	ambient  *ambient.Engine
	text     *textlayout.Engine
	wall     *wall.Animator
	renderer *render.Renderer

	mounted     bool
	timersToken int

	lines    []string
	textBox  *core.Box
	uiRect   image.Rectangle
	state    celebration
	message  string
	celebCtx context.Context
	cancel   context.CancelFunc
	celebTok int

	lastStage stage.Result
	lastPhase ambient.Phase
	frames    int
}

var _ core.Theme = (*Theme)(nil)

// New builds an unmounted theme drawing onto surface.
func New(surface core.Surface, cfg Config, opts ...Option) *Theme {
	t := &Theme{
		cfg:     cfg,
		log:     log.Default(),
		surface: surface,
		timers:  core.NewTimers(),
		tracker: core.NewTracker(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = core.NewRNG(cfg.Seed)
	}
	t.throttle = core.NewThrottle(cfg.FPS)
	t.stages = stage.New(cfg.Stage)
	t.ambient = ambient.New(cfg.Ambient, t.rng, t.timers)
	t.text = textlayout.New()
	t.wall = wall.New(cfg.Wall, t.rng)
	t.renderer = render.New(surface, cfg.Render)
	t.renderer.SetPrefersDark(t.prefersDark)
	t.renderer.SetColorMode(cfg.ColorMode)
	return t
}

// Name returns the registry key.
func (t *Theme) Name() string { return Name }

// Grid exposes the current grid; nil before Mount.
func (t *Theme) Grid() *core.Grid { return t.grid }

// Tracker returns the resource tracker the theme registers on.
func (t *Theme) Tracker() *core.Tracker { return t.tracker }

// Renderer returns the renderer.
func (t *Theme) Renderer() *render.Renderer { return t.renderer }

// Mount creates the grid for size, starts ambient activity and forces a full
// repaint.
func (t *Theme) Mount(size core.Size, now time.Time) {
	if t.mounted {
		t.Resize(size, now)
		return
	}
	t.mounted = true
	t.timersToken = t.tracker.Track("timers", t.timers.CancelAll)
	t.throttle.Reset()
	t.buildGrid(size)
	t.ambient.Start()
	t.log.Debug("mounted", "cols", t.grid.Cols, "rows", t.grid.Rows, "square", t.grid.SquareSize)
}

func (t *Theme) buildGrid(size core.Size) {
	t.size = size
	t.grid = core.NewGridWithConfig(size.W, size.H, t.cfg.Grid)
	t.renderer.Resize(t.grid, t.cfg.DeviceScale)
}

// Resize stops everything, recreates the grid and restores the visible
// state. A celebration in flight degrades to the static message.
func (t *Theme) Resize(size core.Size, now time.Time) {
	if !t.mounted {
		return
	}
	t.timers.CancelAll()
	t.ambient.Forget()
	t.text.Forget()
	if t.grid != nil {
		t.wall.ClearWall(t.grid)
	}
	t.buildGrid(size)
	t.textBox = nil
	t.log.Debug("resized", "cols", t.grid.Cols, "rows", t.grid.Rows, "state", t.state)

	switch t.state {
	case building, unbuilding:
		t.endCelebration()
		t.showStatic(now)
	case celebrated:
		t.showStatic(now)
	default:
		if len(t.lines) > 0 {
			t.text.LayoutDigits(t.grid, t.lines, now)
			t.syncTextBox()
		}
		t.updateExclusion()
		t.ambient.Start()
	}
}

// Destroy cancels every tracked resource, releases the grid and forgets
// the laid-out text so a later Mount starts clean.
func (t *Theme) Destroy() {
	if !t.mounted {
		return
	}
	t.tracker.CancelAll()
	t.endCelebration()
	t.wall.ClearWall(t.grid)
	t.ambient.Forget()
	t.text.Forget()
	t.mounted = false
	t.grid = nil
	t.state = counting
	t.lines = nil
	t.textBox = nil
	t.message = ""
	t.timersToken = 0
	t.log.Debug("destroyed")
}

// Frame runs one throttled frame: due timers, stage lookup, ambient tick,
// wall progress, then render.
func (t *Theme) Frame(now time.Time, remaining time.Duration) bool {
	if !t.mounted || t.grid == nil {
		return false
	}
	if !t.throttle.Accept(now) {
		return false
	}
	t.timers.Run(now)

	res := t.stages.Stage(remaining, t.cfg.Reference)
	if res.Name != t.lastStage.Name {
		t.log.Info("stage", "name", res.Name, "remaining", remaining.Truncate(time.Second))
	}
	t.lastStage = res
	if t.ambient.Running() {
		phase, err := ambient.PhaseFor(t.stages, res)
		if err != nil {
			t.log.Error("stage lookup", "err", err)
		} else {
			t.lastPhase = phase
			t.ambient.ManageActivity(t.grid, phase, now)
		}
	}
	t.ambient.UpdateAnimations(t.grid, now)

	t.advanceCelebration(now)
	t.markPulses()
	t.renderer.Render(t.grid, t.ambient, now)
	t.frames++
	return true
}

// markPulses queues every visible pulsing text cell for repaint.
func (t *Theme) markPulses() {
	for idx := range t.grid.DigitIndices {
		t.markPulse(idx)
	}
	for _, idx := range t.text.MessageIndices() {
		t.markPulse(idx)
	}
}

func (t *Theme) markPulse(idx int) {
	c := t.grid.Cell(idx)
	if c == nil || c.IsWall || c.PulseStart.IsZero() {
		return
	}
	t.grid.MarkDirty(idx)
}

// UpdateDigits lays out the countdown text. Ignored while celebrating; the
// lines are kept for when counting resumes.
func (t *Theme) UpdateDigits(lines []string, now time.Time) {
	t.lines = append(t.lines[:0], lines...)
	if !t.mounted || t.state != counting {
		return
	}
	if t.text.LayoutDigits(t.grid, lines, now) {
		t.syncTextBox()
		t.updateExclusion()
	}
}

func (t *Theme) syncTextBox() {
	if box, ok := t.text.DigitBox(); ok {
		t.textBox = &box
		return
	}
	t.textBox = nil
}

// updateExclusion sets the grid's exclusion box to the union of the text box
// and the UI rectangle.
func (t *Theme) updateExclusion() {
	var box *core.Box
	if t.textBox != nil {
		b := *t.textBox
		box = &b
	}
	if !t.uiRect.Empty() && t.grid != nil {
		r := t.uiRect
		ui := core.BoxFromPixels(t.grid, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, t.cfg.UIMargin)
		if box == nil {
			box = &ui
		} else {
			u := box.Union(ui)
			box = &u
		}
	}
	t.grid.SetExclusion(box)
	t.ambient.InvalidatePool()
}

// SetUIExclusion keeps ambient activity away from a UI element given in
// viewport pixels. An empty rectangle clears it.
func (t *Theme) SetUIExclusion(rect image.Rectangle) {
	t.uiRect = rect
	if t.grid != nil {
		t.updateExclusion()
	}
}

// SetColorMode switches palettes and forces a full repaint.
func (t *Theme) SetColorMode(mode string) {
	t.cfg.ColorMode = mode
	t.renderer.SetColorMode(mode)
	if t.grid != nil {
		t.grid.MarkFullRepaint()
	}
}

// PointerMove hovers the cell under the pointer.
func (t *Theme) PointerMove(x, y float64) {
	if t.grid != nil {
		t.renderer.PointerMove(t.grid, x, y)
	}
}

// PointerLeave clears the hover.
func (t *Theme) PointerLeave() {
	if t.grid != nil {
		t.renderer.PointerLeave(t.grid)
	}
}

// ElementCount reports the number of cells and how many are animating:
// ambient cells plus visible pulsing text.
func (t *Theme) ElementCount() core.ElementCount {
	if t.grid == nil {
		return core.ElementCount{}
	}
	animated := 0
	for i := range t.grid.Cells {
		c := &t.grid.Cells[i]
		switch {
		case c.IsWall:
		case c.IsAmbient:
			animated++
		case (c.IsDigit || c.IsMessage) && !c.PulseStart.IsZero():
			animated++
		}
	}
	return core.ElementCount{Total: t.grid.Len(), Animated: animated}
}

// Celebration reports the celebration state for diagnostics.
func (t *Theme) Celebration() string { return t.state.String() }

// WallState reports the wall animator state.
func (t *Theme) WallState() wall.State { return t.wall.State() }
