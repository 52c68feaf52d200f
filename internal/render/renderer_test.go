package render

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"math"
	"testing"
	"time"

	"countdown-grid/internal/core"
)

type rect struct {
	x, y, w, h float64
	c          color.Color
}

type recordingSurface struct {
	w, h   int
	scale  float64
	clears int
	rects  []rect
}

func (s *recordingSurface) Resize(w, h int, deviceScale float64) {
	s.w, s.h, s.scale = w, h, deviceScale
}
func (s *recordingSurface) Size() (int, int)    { return s.w, s.h }
func (s *recordingSurface) Clear(c color.Color) { s.clears++ }
func (s *recordingSurface) FillRect(x, y, w, h float64, c color.Color) {
	s.rects = append(s.rects, rect{x, y, w, h, c})
}

type fixedIntensity float64

func (f fixedIntensity) AmbientIntensity(*core.Cell) float64 { return float64(f) }

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestRenderClearsDirtyState(t *testing.T) {
	g := core.NewGrid(6, 4, 10, 2)
	s := &recordingSurface{}
	r := New(s, DefaultConfig())
	r.Resize(g, 1)

	r.Render(g, nil, time.Unix(0, 0))
	if s.clears != 1 || len(s.rects) != g.Len() {
		t.Fatalf("full repaint should clear once and draw every cell, got %d clears %d rects", s.clears, len(s.rects))
	}
	if g.NeedsFullRepaint() || g.DirtyCount() != 0 {
		t.Fatal("render must clear dirty state")
	}

	s.rects = nil
	g.MarkDirty(3)
	g.MarkDirty(7)
	r.Render(g, nil, time.Unix(0, 0))
	// Each dirty cell is cleared and then drawn.
	if s.clears != 1 || len(s.rects) != 4 {
		t.Fatalf("expected 4 rects for 2 dirty cells, got %d", len(s.rects))
	}
	clearRect := s.rects[0]
	x, y := g.CellOrigin(3)
	if clearRect.x != float64(x)-2 || clearRect.y != float64(y)-2 || clearRect.w != 14 {
		t.Fatalf("dirty clear should include the margin, got %+v", clearRect)
	}
	if g.DirtyCount() != 0 {
		t.Fatal("render must clear dirty state")
	}

	s.rects = nil
	r.Render(g, nil, time.Unix(0, 0))
	if len(s.rects) != 0 {
		t.Fatal("clean grid should draw nothing")
	}
}

func TestRepaintMarginNeverExceedsGap(t *testing.T) {
	g := core.NewGrid(3, 3, 10, 1)
	s := &recordingSurface{}
	r := New(s, DefaultConfig())
	r.Render(g, nil, time.Unix(0, 0))
	s.rects = nil
	g.MarkDirty(4)
	r.Render(g, nil, time.Unix(0, 0))
	if s.rects[0].w != 12 {
		t.Fatalf("margin should be clamped to the 1px gap, got width %v", s.rects[0].w)
	}
}

func TestCellColorPrecedence(t *testing.T) {
	r := New(&recordingSurface{}, DefaultConfig())
	p := r.Palette()
	now := time.Unix(10, 0)

	wall := core.Cell{IsWall: true, IsDigit: true, IsMessage: true, PulseStart: now}
	if !sameColor(r.CellColor(&wall, nil, now), p.Wall) {
		t.Fatal("wall should cover everything")
	}
	digit := core.Cell{IsDigit: true, IsAmbient: true, PulseStart: now}
	if !sameColor(r.CellColor(&digit, fixedIntensity(1), now), p.Levels[core.MaxIntensity]) {
		t.Fatal("fresh digit pulse should be at full opacity")
	}
	amb := core.Cell{IsAmbient: true}
	if !sameColor(r.CellColor(&amb, fixedIntensity(2), now), p.Levels[2]) {
		t.Fatal("ambient intensity 2 should use level 2")
	}
	base := core.Cell{Intensity: 3}
	if !sameColor(r.CellColor(&base, nil, now), p.Levels[3]) {
		t.Fatal("plain cells use their level")
	}
}

func TestLevelInterpolates(t *testing.T) {
	p := DarkPalette()
	mid := p.Level(1.5)
	want := p.Levels[1].BlendRgb(p.Levels[2], 0.5)
	if !sameColor(mid, want) {
		t.Fatalf("expected halfway blend, got %v want %v", mid, want)
	}
	if !sameColor(p.Level(-1), p.Levels[0]) || !sameColor(p.Level(9), p.Levels[core.MaxIntensity]) {
		t.Fatal("levels should clamp")
	}
}

func TestPulseOpacity(t *testing.T) {
	r := New(&recordingSurface{}, DefaultConfig())
	start := time.Unix(0, 0)
	if got := r.PulseOpacity(start, start); got != 1 {
		t.Fatalf("pulse starts at full opacity, got %v", got)
	}
	half := r.PulseOpacity(start, start.Add(600*time.Millisecond))
	if math.Abs(half-0.70) > 1e-9 {
		t.Fatalf("dark pulse floor should be 0.70 at half period, got %v", half)
	}
	r.SetColorMode(ModeLight)
	half = r.PulseOpacity(start, start.Add(600*time.Millisecond))
	if math.Abs(half-0.82) > 1e-9 {
		t.Fatalf("light pulse floor should be 0.82, got %v", half)
	}
	if r.PulseOpacity(time.Time{}, start) != 1 {
		t.Fatal("no pulse without a start time")
	}
}

func TestSystemModeUsesPreference(t *testing.T) {
	r := New(&recordingSurface{}, DefaultConfig())
	r.SetPrefersDark(func() bool { return false })
	r.SetColorMode(ModeSystem)
	if r.Palette().Name != ModeLight || r.ColorMode() != ModeSystem {
		t.Fatalf("system mode with light preference should resolve to light, got %s", r.Palette().Name)
	}
	r.SetColorMode("bogus")
	if r.Palette().Name != ModeDark {
		t.Fatal("unknown modes fall back to dark")
	}
}

func TestHoverMarksOnlyChangedCells(t *testing.T) {
	g := core.NewGrid(5, 5, 10, 2)
	s := &recordingSurface{}
	r := New(s, DefaultConfig())
	r.Render(g, nil, time.Unix(0, 0))

	r.PointerMove(g, 13, 1) // col 1, row 0
	if r.Hovered() != 1 || !g.Cells[1].IsHovered || g.DirtyCount() != 1 {
		t.Fatalf("expected cell 1 hovered and dirty, got hovered=%d dirty=%d", r.Hovered(), g.DirtyCount())
	}
	g.ClearDirty()
	r.PointerMove(g, 14, 2)
	if g.DirtyCount() != 0 {
		t.Fatal("moving within the same cell changes nothing")
	}
	r.PointerMove(g, 1, 13) // col 0, row 1
	if g.DirtyCount() != 2 || g.Cells[1].IsHovered || !g.Cells[5].IsHovered {
		t.Fatal("moving to a new cell dirties both cells")
	}
	g.ClearDirty()
	r.PointerLeave(g)
	if g.Cells[5].IsHovered || g.DirtyCount() != 1 || r.Hovered() != -1 {
		t.Fatal("leaving clears the hover")
	}
}

func TestHoverScalesActiveCells(t *testing.T) {
	g := core.NewGrid(3, 3, 20, 4)
	s := &recordingSurface{}
	r := New(s, DefaultConfig())
	r.Render(g, nil, time.Unix(0, 0))

	g.Cells[4].Intensity = 2
	r.PointerMove(g, 30, 30)
	s.rects = nil
	r.Render(g, nil, time.Unix(0, 0))
	drawn := s.rects[len(s.rects)-1]
	if math.Abs(drawn.w-23) > 1e-9 || math.Abs(drawn.x-(24-1.5)) > 1e-9 {
		t.Fatalf("hovered active cell should scale 1.15 about its centre, got %+v", drawn)
	}

	g.Cells[4].Intensity = 0
	g.MarkDirty(4)
	s.rects = nil
	r.Render(g, nil, time.Unix(0, 0))
	if drawn := s.rects[len(s.rects)-1]; drawn.w != 20 {
		t.Fatalf("empty cells do not scale on hover, got %+v", drawn)
	}
}

func TestDirtyNeighbourRedrawsHoveredCell(t *testing.T) {
	g := core.NewGrid(5, 5, 20, 4)
	s := &recordingSurface{}
	r := New(s, DefaultConfig())
	g.Cells[12].Intensity = 2
	r.PointerMove(g, 58, 58)
	r.Render(g, nil, time.Unix(0, 0))

	g.MarkDirty(13)
	s.rects = nil
	r.Render(g, nil, time.Unix(0, 0))
	if len(s.rects) != 4 {
		t.Fatalf("expected two clears and two draws, got %d rects", len(s.rects))
	}
	drawn := s.rects[len(s.rects)-1]
	if math.Abs(drawn.w-23) > 1e-9 || math.Abs(drawn.x-46.5) > 1e-9 {
		t.Fatalf("hovered neighbour should be repainted after the margin clear, got %+v", drawn)
	}

	g.MarkDirty(18)
	s.rects = nil
	r.Render(g, nil, time.Unix(0, 0))
	if len(s.rects) != 4 {
		t.Fatalf("diagonal neighbours count as adjacent, got %d rects", len(s.rects))
	}

	g.MarkDirty(0)
	s.rects = nil
	r.Render(g, nil, time.Unix(0, 0))
	if len(s.rects) != 2 {
		t.Fatalf("distant dirty cells leave the hovered cell alone, got %d rects", len(s.rects))
	}
}

func TestImageSurfaceFillRect(t *testing.T) {
	s := NewImageSurface(4, 4)
	s.Resize(4, 4, 2)
	if b := s.Image().Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("backing store should be device scaled, got %v", b)
	}
	s.Clear(color.Black)
	s.FillRect(1, 1, 1, 1, color.White)
	if got := s.Image().RGBAAt(2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("expected white at (2,2), got %v", got)
	}
	if got := s.Image().RGBAAt(4, 4); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("expected black at (4,4), got %v", got)
	}
	s.FillRect(-5, -5, 100, 100, color.White)
	if got := s.Image().RGBAAt(7, 7); got.R != 255 {
		t.Fatal("out of range rects are clipped, not dropped")
	}
}

func TestExport(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	var buf bytes.Buffer
	if err := WritePNG(&buf, img, 4); err != nil {
		t.Fatalf("png: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Fatalf("expected 12x8 png, got %v", b)
	}

	rec := NewRecorder(1)
	rec.Add(img, 100*time.Millisecond)
	rec.Add(img, 5*time.Millisecond)
	buf.Reset()
	if err := rec.Encode(&buf); err != nil {
		t.Fatalf("gif: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != 2 || anim.Delay[0] != 10 || anim.Delay[1] != 1 {
		t.Fatalf("unexpected animation: %d frames, delays %v", len(anim.Image), anim.Delay)
	}
}
