// Package render paints grid cells onto a Surface using dirty-rect updates.
package render

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"countdown-grid/internal/core"
)

// IntensitySource supplies the fractional intensity of animating cells.
type IntensitySource interface {
	AmbientIntensity(c *core.Cell) float64
}

// Config holds the visual tunables.
type Config struct {
	HoverScale      float64
	PulsePeriod     time.Duration
	DarkPulseFloor  float64
	LightPulseFloor float64
	// RepaintMargin is cleared around each dirty cell to remove hover
	// overdraw from the previous frame. It never exceeds the grid gap.
	RepaintMargin float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		HoverScale:      1.15,
		PulsePeriod:     1200 * time.Millisecond,
		DarkPulseFloor:  0.70,
		LightPulseFloor: 0.82,
		RepaintMargin:   2,
	}
}

// Renderer resolves cell colours and draws them onto a surface.
type Renderer struct {
	cfg         Config
	surface     core.Surface
	mode        string
	prefersDark func() bool
	palette     Palette
	floor       float64
	hovered     int
}

// New returns a renderer in dark mode drawing onto surface.
func New(surface core.Surface, cfg Config) *Renderer {
	r := &Renderer{cfg: cfg, surface: surface, hovered: -1}
	r.SetColorMode(ModeDark)
	return r
}

// SetPrefersDark installs the callback system mode consults.
func (r *Renderer) SetPrefersDark(fn func() bool) {
	r.prefersDark = fn
	r.SetColorMode(r.mode)
}

// SetColorMode swaps the active palette. The caller forces a full repaint.
func (r *Renderer) SetColorMode(mode string) {
	if mode != ModeLight && mode != ModeSystem {
		mode = ModeDark
	}
	r.mode = mode
	r.palette = PaletteFor(mode, r.prefersDark)
	if r.palette.Name == ModeLight {
		r.floor = r.cfg.LightPulseFloor
	} else {
		r.floor = r.cfg.DarkPulseFloor
	}
}

// ColorMode returns the requested mode, which may be "system".
func (r *Renderer) ColorMode() string { return r.mode }

// Palette returns the active palette.
func (r *Renderer) Palette() Palette { return r.palette }

// Surface returns the drawable.
func (r *Renderer) Surface() core.Surface { return r.surface }

// Resize matches the surface to g at the device scale and forces a full
// repaint. Hover state is dropped since indices changed meaning.
func (r *Renderer) Resize(g *core.Grid, deviceScale float64) {
	r.surface.Resize(g.Width, g.Height, deviceScale)
	r.hovered = -1
	g.MarkFullRepaint()
}

// Render draws the whole grid when a full repaint is pending and only the
// dirty cells otherwise. The grid's dirty state is always cleared.
func (r *Renderer) Render(g *core.Grid, src IntensitySource, now time.Time) {
	defer g.ClearDirty()

	if g.NeedsFullRepaint() {
		r.surface.Clear(r.palette.Background)
		for idx := range g.Cells {
			r.drawCell(g, idx, src, now)
		}
		return
	}

	if len(g.Dirty()) == 0 {
		return
	}
	r.keepHoverOverdraw(g)
	dirty := g.Dirty()
	margin := math.Min(r.cfg.RepaintMargin, float64(g.Gap))
	size := float64(g.SquareSize) + 2*margin
	for _, idx := range dirty {
		x, y := g.CellOrigin(idx)
		r.surface.FillRect(float64(x)-margin, float64(y)-margin, size, size, r.palette.Background)
	}
	for _, idx := range dirty {
		r.drawCell(g, idx, src, now)
	}
}

// keepHoverOverdraw queues the hovered cell when a neighbour is dirty, since
// clearing the neighbour's margin cuts into the scaled square.
func (r *Renderer) keepHoverOverdraw(g *core.Grid) {
	if g.Cell(r.hovered) == nil || g.IsDirty(r.hovered) {
		return
	}
	col, row := g.Coords(r.hovered)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if g.InBounds(col+dc, row+dr) && g.IsDirty(g.Index(col+dc, row+dr)) {
				g.MarkDirty(r.hovered)
				return
			}
		}
	}
}

func (r *Renderer) drawCell(g *core.Grid, idx int, src IntensitySource, now time.Time) {
	c := g.Cell(idx)
	if c == nil {
		return
	}
	x, y := g.CellOrigin(idx)
	fx, fy := float64(x), float64(y)
	size := float64(g.SquareSize)
	if c.IsHovered && c.Active() && r.cfg.HoverScale > 0 {
		scaled := size * r.cfg.HoverScale
		fx -= (scaled - size) / 2
		fy -= (scaled - size) / 2
		size = scaled
	}
	r.surface.FillRect(fx, fy, size, size, r.CellColor(c, src, now))
}

// CellColor resolves a cell's colour: wall, then message pulse, then digit
// pulse, then the ambient blend, then the plain intensity level.
func (r *Renderer) CellColor(c *core.Cell, src IntensitySource, now time.Time) colorful.Color {
	top := r.palette.Levels[core.MaxIntensity]
	switch {
	case c.IsWall:
		return r.palette.Wall
	case c.IsMessage, c.IsDigit:
		return r.palette.Fade(top, r.PulseOpacity(c.PulseStart, now))
	case c.IsAmbient && src != nil:
		return r.palette.Level(src.AmbientIntensity(c))
	default:
		return r.palette.Level(float64(c.Intensity))
	}
}

// PulseOpacity oscillates between 1 and the mode's floor, starting at full
// opacity when the pulse starts. A zero start means no pulse.
func (r *Renderer) PulseOpacity(start, now time.Time) float64 {
	if start.IsZero() || r.cfg.PulsePeriod <= 0 {
		return 1
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 1
	}
	phase := 2 * math.Pi * float64(elapsed) / float64(r.cfg.PulsePeriod)
	wave := 0.5 + 0.5*math.Cos(phase)
	return r.floor + (1-r.floor)*wave
}

// PointerMove hovers the cell under (x, y) and marks only the cells whose
// hover state changed.
func (r *Renderer) PointerMove(g *core.Grid, x, y float64) {
	r.setHovered(g, g.CellAt(x, y))
}

// PointerLeave drops the hover state.
func (r *Renderer) PointerLeave(g *core.Grid) {
	r.setHovered(g, -1)
}

// Hovered returns the hovered cell index or -1.
func (r *Renderer) Hovered() int { return r.hovered }

func (r *Renderer) setHovered(g *core.Grid, idx int) {
	if idx == r.hovered {
		return
	}
	if c := g.Cell(r.hovered); c != nil {
		c.IsHovered = false
		g.MarkDirty(r.hovered)
	}
	r.hovered = idx
	if c := g.Cell(idx); c != nil {
		c.IsHovered = true
		g.MarkDirty(idx)
	}
}
