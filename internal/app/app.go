//go:build ebiten

package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"countdown-grid/internal/core"
	"countdown-grid/internal/render"
	"countdown-grid/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var colorModes = []string{render.ModeDark, render.ModeLight, render.ModeSystem}

// Game adapts a countdown theme to the ebiten.Game interface.
type Game struct {
	cfg     *Config
	log     *log.Logger
	driver  *Driver
	theme   core.Theme
	surface *render.EbitenSurface
	hud     *ui.HUD
	overlay *ui.Overlay
	cancel  context.CancelFunc

	size    core.Size
	pending core.Size
	scale   float64
	mounted bool
	mode    int
	uiRect  image.Rectangle
	hovered bool
}

// New constructs a Game for the configured theme and countdown.
func New(cfg *Config, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.Default()
	}
	now := time.Now()
	deadline, err := cfg.Deadline(now)
	if err != nil {
		return nil, err
	}
	clock := NewClock(now, deadline)
	scale := ebiten.Monitor().DeviceScaleFactor()
	themeCfg := cfg.ThemeConfig(clock.Reference)
	themeCfg["device_scale"] = fmt.Sprintf("%g", scale)

	surface := render.NewEbitenSurface()
	th, err := NewTheme(cfg.Theme, surface, themeCfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:     cfg,
		log:     logger,
		driver:  NewDriver(ctx, th, clock, cfg.Message, logger),
		theme:   th,
		surface: surface,
		cancel:  cancel,
		scale:   scale,
	}
	for i, m := range colorModes {
		if m == cfg.ColorMode {
			g.mode = i
		}
	}
	if src, ok := th.(interface{ Grid() *core.Grid }); ok {
		g.overlay = ui.NewOverlay(src)
	}
	g.hud = ui.NewHUD(th, cfg.HUD)
	return g, nil
}

// Close cancels any celebration in flight and tears the theme down.
func (g *Game) Close() {
	g.cancel()
	g.theme.Destroy()
}

// Update handles input and advances the countdown by one frame.
func (g *Game) Update() error {
	now := time.Now()
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.pending != g.size && g.pending.W > 0 && g.pending.H > 0 {
		g.size = g.pending
		if g.mounted {
			g.theme.Resize(g.size, now)
		} else {
			g.theme.Mount(g.size, now)
			g.mounted = true
		}
	}
	if !g.mounted {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.driver.CelebrateNow(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.driver.Clock.Restart(now, g.cfg.Duration)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.mode = (g.mode + 1) % len(colorModes)
		g.theme.SetColorMode(colorModes[g.mode])
		g.log.Debug("color mode", "mode", colorModes[g.mode])
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud.Toggle()
	}
	g.updatePointer()
	g.overlay.Update()
	g.hud.Update()
	if r := g.hud.Rect(); r != g.uiRect {
		g.uiRect = r
		g.theme.SetUIExclusion(r)
	}
	g.driver.Step(now)
	return nil
}

func (g *Game) updatePointer() {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/g.scale, float64(cy)/g.scale
	inside := x >= 0 && y >= 0 && x < float64(g.size.W) && y < float64(g.size.H)
	switch {
	case inside:
		g.theme.PointerMove(x, y)
		g.hovered = true
	case g.hovered:
		g.theme.PointerLeave()
		g.hovered = false
	}
}

// Draw composites the painted grid and the overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.PaletteFor(colorModes[g.mode], nil).Background)
	g.surface.Draw(screen, 0, 0)
	g.overlay.Draw(screen, g.scale)
	g.hud.Draw(screen, g.scale)
}

// Layout records the window size and returns the device-pixel screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.pending = core.Size{W: outsideWidth, H: outsideHeight}
	return int(float64(outsideWidth) * g.scale), int(float64(outsideHeight) * g.scale)
}
