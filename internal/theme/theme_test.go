package theme

import (
	"context"
	"image"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"countdown-grid/internal/core"
	"countdown-grid/internal/render"
	"countdown-grid/internal/textlayout"
	"countdown-grid/internal/wall"
)

const step = 34 * time.Millisecond

func newTestTheme(t *testing.T) (*Theme, time.Time) {
	t.Helper()
	th := New(render.NewImageSurface(1, 1), DefaultConfig(),
		WithLogger(log.New(io.Discard)),
		WithRNG(core.NewRNG(42)),
	)
	now := time.Unix(1_700_000_000, 0)
	th.Mount(core.Size{W: 800, H: 400}, now)
	return th, now
}

// run drives frames until cond holds or limit frames ran.
func run(th *Theme, now time.Time, remaining time.Duration, limit int, cond func() bool) (time.Time, bool) {
	for i := 0; i < limit; i++ {
		th.Frame(now, remaining)
		if cond != nil && cond() {
			return now, true
		}
		now = now.Add(step)
	}
	return now, cond == nil
}

func countCells(g *core.Grid, pred func(c *core.Cell) bool) int {
	n := 0
	for i := range g.Cells {
		if pred(&g.Cells[i]) {
			n++
		}
	}
	return n
}

func TestMountBuildsGridAndAnimates(t *testing.T) {
	th, now := newTestTheme(t)
	g := th.Grid()
	if g == nil || g.Len() != g.Cols*g.Rows {
		t.Fatal("mount should create the grid")
	}
	th.UpdateDigits(textlayout.FormatCountdown(90*time.Second), now)
	if len(g.DigitIndices) == 0 {
		t.Fatal("expected digits after UpdateDigits")
	}

	run(th, now, 90*time.Second, 90, nil)

	if g.DirtyCount() != 0 || g.NeedsFullRepaint() {
		t.Fatal("every frame ends with a clean grid")
	}
	counts := th.ElementCount()
	if counts.Total != g.Len() || counts.Animated == 0 {
		t.Fatalf("unexpected element count %+v", counts)
	}
	for idx := range g.DigitIndices {
		if g.Cells[idx].IsAmbient {
			t.Fatalf("digit cell %d picked for ambient activity", idx)
		}
	}
	if p, ok := th.Parameters().Lookup("stage"); !ok || p.Value != "intense" {
		t.Fatalf("expected intense stage in diagnostics, got %+v", p)
	}
}

func TestFrameIsThrottled(t *testing.T) {
	th, now := newTestTheme(t)
	if !th.Frame(now, time.Hour) {
		t.Fatal("first frame should run")
	}
	if th.Frame(now.Add(10*time.Millisecond), time.Hour) {
		t.Fatal("frames inside the interval are skipped")
	}
	if !th.Frame(now.Add(step), time.Hour) {
		t.Fatal("frame after the interval should run")
	}
}

func TestCelebrationSequence(t *testing.T) {
	th, now := newTestTheme(t)
	g := th.Grid()
	th.UpdateDigits([]string{"00:01"}, now)
	now, _ = run(th, now, time.Second, 10, nil)

	th.OnCelebrating(context.Background(), "Happy new year", now)
	if th.WallState() != wall.Building {
		t.Fatalf("expected wall building, got %s", th.WallState())
	}
	if len(g.DigitIndices) != 0 {
		t.Fatal("digits clear when the celebration starts")
	}

	covered := false
	now, ok := run(th, now, 0, 2000, func() bool {
		if countCells(g, func(c *core.Cell) bool { return c.IsWall }) == g.Len() {
			covered = true
		}
		return th.Celebration() == "celebrated"
	})
	if !ok {
		t.Fatalf("celebration never finished, state %s", th.Celebration())
	}
	if !covered {
		t.Fatal("the wall should cover the whole grid at some point")
	}
	if n := countCells(g, func(c *core.Cell) bool { return c.IsWall }); n != 0 {
		t.Fatalf("%d wall cells left after unbuild", n)
	}
	msg := countCells(g, func(c *core.Cell) bool { return c.IsMessage })
	pulsing := countCells(g, func(c *core.Cell) bool { return c.IsMessage && !c.PulseStart.IsZero() })
	if msg == 0 || pulsing != msg {
		t.Fatalf("expected every message cell to pulse, %d of %d", pulsing, msg)
	}
	if th.Tracker().Len() != 1 {
		t.Fatalf("only the timer queue should stay tracked, got %v", th.Tracker().Names())
	}

	th.OnCounting(now)
	th.UpdateDigits([]string{"59:59"}, now)
	if countCells(g, func(c *core.Cell) bool { return c.IsMessage }) != 0 || len(g.DigitIndices) == 0 {
		t.Fatal("counting should drop the message and show digits")
	}
}

func TestCelebrationAbortFallsBackToStaticMessage(t *testing.T) {
	th, now := newTestTheme(t)
	g := th.Grid()
	ctx, cancel := context.WithCancel(context.Background())
	th.OnCelebrating(ctx, "done", now)
	now, _ = run(th, now, 0, 5, nil)
	if countCells(g, func(c *core.Cell) bool { return c.IsWall }) == 0 {
		t.Fatal("expected a partial wall")
	}

	cancel()
	th.Frame(now.Add(step), 0)

	if th.Celebration() != "celebrated" || th.WallState() != wall.Idle {
		t.Fatalf("abort should settle on the static message, got %s/%s", th.Celebration(), th.WallState())
	}
	if n := countCells(g, func(c *core.Cell) bool { return c.IsWall }); n != 0 {
		t.Fatalf("%d wall cells left after abort", n)
	}
	if countCells(g, func(c *core.Cell) bool { return c.IsMessage && !c.PulseStart.IsZero() }) == 0 {
		t.Fatal("static message should pulse")
	}
}

func TestDestroyCancelsTrackedResources(t *testing.T) {
	th, now := newTestTheme(t)
	th.OnCelebrating(context.Background(), "bye", now)
	if th.Tracker().Len() != 2 {
		t.Fatalf("expected timers and celebration tracked, got %v", th.Tracker().Names())
	}
	th.Destroy()
	if th.Tracker().Len() != 0 {
		t.Fatal("destroy should cancel everything")
	}
	if th.Frame(now.Add(time.Second), 0) {
		t.Fatal("destroyed theme must not run frames")
	}
}

func TestRemountRedrawsUnchangedDigits(t *testing.T) {
	th, now := newTestTheme(t)
	th.UpdateDigits([]string{"01:30"}, now)
	before := len(th.Grid().DigitIndices)
	if before == 0 {
		t.Fatal("expected digits before destroy")
	}
	th.OnCelebrating(context.Background(), "bye", now)
	th.Destroy()
	if th.WallState() != wall.Idle {
		t.Fatalf("destroy should reset the wall, got %v", th.WallState())
	}

	th.Mount(core.Size{W: 800, H: 400}, now)
	th.UpdateDigits([]string{"01:30"}, now)
	if got := len(th.Grid().DigitIndices); got != before {
		t.Fatalf("remount drew %d digit cells, expected %d", got, before)
	}
	if th.Celebration() != "counting" {
		t.Fatalf("remount should count, got %s", th.Celebration())
	}
}

func TestUIExclusionUnionsWithText(t *testing.T) {
	th, now := newTestTheme(t)
	g := th.Grid()
	th.UpdateDigits([]string{"12:00"}, now)
	digits := *g.Exclusion

	th.SetUIExclusion(image.Rect(0, 0, 20, 20))
	ex := g.Exclusion
	if ex == nil || !ex.Contains(0, 0) {
		t.Fatal("UI rectangle should be excluded")
	}
	if !ex.Contains(digits.MinCol, digits.MinRow) || !ex.Contains(digits.MaxCol, digits.MaxRow) {
		t.Fatal("text box must stay excluded")
	}

	th.SetUIExclusion(image.Rectangle{})
	if *g.Exclusion != digits {
		t.Fatalf("clearing the UI rect should leave the text box, got %+v", *g.Exclusion)
	}
}

func TestResizeDuringCelebrationShowsMessage(t *testing.T) {
	th, now := newTestTheme(t)
	th.OnCelebrating(context.Background(), "ok", now)
	now, _ = run(th, now, 0, 5, nil)

	th.Resize(core.Size{W: 640, H: 360}, now)
	g := th.Grid()
	if th.Celebration() != "celebrated" {
		t.Fatalf("expected static message after resize, got %s", th.Celebration())
	}
	if countCells(g, func(c *core.Cell) bool { return c.IsWall }) != 0 {
		t.Fatal("new grid must not carry a wall")
	}
	if countCells(g, func(c *core.Cell) bool { return c.IsMessage }) == 0 {
		t.Fatal("message should be laid out on the new grid")
	}
	if !g.NeedsFullRepaint() {
		t.Fatal("resize forces a full repaint")
	}
}

func TestSetColorModeForcesRepaint(t *testing.T) {
	th, now := newTestTheme(t)
	th.Frame(now, time.Hour)
	th.SetColorMode(render.ModeLight)
	if !th.Grid().NeedsFullRepaint() || th.Renderer().Palette().Name != render.ModeLight {
		t.Fatal("colour mode change should swap palettes and repaint")
	}
}

func TestRegistered(t *testing.T) {
	f, ok := core.Themes()[Name]
	if !ok {
		t.Fatal("theme should be registered")
	}
	th := f(render.NewImageSurface(1, 1), map[string]string{"seed": "7", "fps": "60"})
	if th.Name() != Name {
		t.Fatalf("unexpected theme %q", th.Name())
	}
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"wall_hold_ms":    "250",
		"max_cells":       "900",
		"stagger":         "0.25",
		"fps":             "0",
		"color_mode":      "light",
		"pulse_period_ms": "800",
	})
	if c.Wall.HoldDelay != 250*time.Millisecond || c.Grid.MaxCells != 900 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.Stage.MaxStaggerFraction != 0.25 || c.Ambient.MaxStaggerFraction != 0.25 {
		t.Fatal("stagger feeds both stage and ambient")
	}
	if c.FPS != 30 {
		t.Fatal("invalid fps should be ignored")
	}
	if c.ColorMode != "light" || c.Render.PulsePeriod != 800*time.Millisecond {
		t.Fatal("render overrides not applied")
	}
}
