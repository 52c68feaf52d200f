//go:build ebiten

package ui

import (
	"image/color"

	"countdown-grid/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type gridProvider interface {
	Grid() *core.Grid
}

// Overlay draws optional debugging visuals on top of the grid.
type Overlay struct {
	src           gridProvider
	showExclusion bool
	showAmbient   bool
	showText      bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(src gridProvider) *Overlay {
	return &Overlay{src: src}
}

// Update toggles layers: 1 exclusion box, 2 ambient cells, 3 text cells.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showExclusion = !o.showExclusion
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showAmbient = !o.showAmbient
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showText = !o.showText
	}
}

// Draw renders the enabled layers at the device scale.
func (o *Overlay) Draw(screen *ebiten.Image, scale float64) {
	if o == nil || o.src == nil {
		return
	}
	g := o.src.Grid()
	if g == nil {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	s := float32(scale)
	pitch := float32(g.Pitch())
	square := float32(g.SquareSize)

	if o.showExclusion && g.Exclusion != nil {
		b := g.Exclusion
		x := float32(b.MinCol) * pitch
		y := float32(b.MinRow) * pitch
		w := float32(b.MaxCol-b.MinCol+1)*pitch - float32(g.Gap)
		h := float32(b.MaxRow-b.MinRow+1)*pitch - float32(g.Gap)
		vector.StrokeRect(screen, x*s, y*s, w*s, h*s, 2*s, color.RGBA{R: 240, G: 80, B: 80, A: 255}, false)
	}
	if !o.showAmbient && !o.showText {
		return
	}
	for idx := range g.Cells {
		c := &g.Cells[idx]
		var tint color.RGBA
		switch {
		case o.showAmbient && c.IsAmbient:
			tint = color.RGBA{R: 80, G: 160, B: 255, A: 255}
		case o.showText && (c.IsDigit || c.IsMessage):
			tint = color.RGBA{R: 255, G: 200, B: 60, A: 255}
		default:
			continue
		}
		px, py := g.CellOrigin(idx)
		vector.StrokeRect(screen, float32(px)*s, float32(py)*s, square*s, square*s, s, tint, false)
	}
}
