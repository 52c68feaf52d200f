//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"countdown-grid/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD renders the diagnostics panel in the top-left corner of the window.
type HUD struct {
	src     parameterProvider
	face    text.Face
	visible bool
	lines   []Line
	w, h    int
}

// NewHUD constructs a HUD reading diagnostics from src.
func NewHUD(src parameterProvider, visible bool) *HUD {
	return &HUD{
		src:     src,
		face:    text.NewGoXFace(basicfont.Face7x13),
		visible: visible,
	}
}

// Toggle shows or hides the panel.
func (h *HUD) Toggle() {
	if h != nil {
		h.visible = !h.visible
	}
}

// Visible reports whether the panel is drawn.
func (h *HUD) Visible() bool { return h != nil && h.visible }

// Update refreshes the cached snapshot.
func (h *HUD) Update() {
	if h == nil || h.src == nil || !h.visible {
		return
	}
	h.lines = FormatLines(h.src.Parameters())
	h.w, h.h = PanelSize(h.lines)
}

// Rect returns the panel bounds in logical pixels, or an empty rectangle when
// hidden.
func (h *HUD) Rect() image.Rectangle {
	if !h.Visible() || h.w == 0 {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, h.w, h.h)
}

// Draw paints the panel onto screen, scaled by the device factor.
func (h *HUD) Draw(screen *ebiten.Image, scale float64) {
	if !h.Visible() || len(h.lines) == 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	s := float32(scale)
	vector.FillRect(screen, 0, 0, float32(h.w)*s, float32(h.h)*s, color.RGBA{R: 16, G: 16, B: 20, A: 220}, false)
	for i, line := range h.lines {
		op := &text.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(panelPadding*scale, float64(panelPadding+i*lineHeight)*scale)
		fg := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if line.Header {
			fg = color.RGBA{R: 57, G: 211, B: 83, A: 255}
		}
		op.ColorScale.ScaleWithColor(fg)
		text.Draw(screen, line.Text, h.face, op)
	}
}
