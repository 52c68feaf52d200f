package term

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"countdown-grid/internal/app"
	"countdown-grid/internal/core"
	"countdown-grid/internal/render"
)

var colorModes = []string{render.ModeDark, render.ModeLight, render.ModeSystem}

// Options configures Run.
type Options struct {
	Config *app.Config
	Logger *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run drives the configured theme on an initialized screen until ctx is
// done or the user quits with q, Esc or Ctrl-C. c celebrates immediately, r
// restarts the countdown and m cycles the colour mode. Run finalizes screen
// before returning.
func Run(ctx context.Context, screen tcell.Screen, opts Options) error {
	defer screen.Fini()
	cfg := opts.Config
	if cfg == nil {
		cfg = app.NewConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	clockNow := opts.Now
	if clockNow == nil {
		clockNow = time.Now
	}

	now := clockNow()
	deadline, err := cfg.Deadline(now)
	if err != nil {
		return err
	}
	clock := app.NewClock(now, deadline)

	cols, rows := screen.Size()
	surface := NewSurface(cols, rows)
	th, err := app.NewTheme(cfg.Theme, surface, cfg.ThemeConfig(clock.Reference))
	if err != nil {
		return err
	}
	w, h := Viewport(cols, rows)
	th.Mount(core.Size{W: w, H: h}, now)
	defer th.Destroy()

	driver := app.NewDriver(ctx, th, clock, cfg.Message, logger)
	screen.HideCursor()
	screen.EnableMouse()

	events := make(chan tcell.Event, 32)
	quit := make(chan struct{})
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	fps := cfg.TPS
	if fps <= 0 {
		fps = 30
	}
	tick := time.NewTicker(time.Second / time.Duration(fps))
	if tr, ok := th.(interface{ Tracker() *core.Tracker }); ok {
		tr.Tracker().Track("frame-ticker", tick.Stop)
		tr.Tracker().Track("input", func() { close(quit) })
	} else {
		defer tick.Stop()
		defer close(quit)
	}

	mode := 0
	for i, m := range colorModes {
		if m == cfg.ColorMode {
			mode = i
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				cols, rows = screen.Size()
				w, h := Viewport(cols, rows)
				th.Resize(core.Size{W: w, H: h}, clockNow())
				logger.Debug("terminal resized", "cols", cols, "rows", rows)
			case *tcell.EventKey:
				if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
					return nil
				}
				if e.Key() != tcell.KeyRune {
					continue
				}
				switch e.Rune() {
				case 'q':
					return nil
				case 'c':
					driver.CelebrateNow(clockNow())
				case 'r':
					clock.Restart(clockNow(), cfg.Duration)
				case 'm':
					mode = (mode + 1) % len(colorModes)
					th.SetColorMode(colorModes[mode])
				}
			case *tcell.EventMouse:
				x, y := e.Position()
				px, py := ToPixels(x, y)
				th.PointerMove(px, py)
			}
		case <-tick.C:
			if driver.Step(clockNow()) {
				surface.Blit(screen, render.PaletteFor(colorModes[mode], nil).Background)
				screen.Show()
			}
		}
	}
}
