//go:build ebiten

package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EbitenSurface keeps the painted grid in a persistent offscreen image so
// frames only touch dirty cells. Draw composites it onto the screen.
type EbitenSurface struct {
	img   *ebiten.Image
	w, h  int
	scale float64
}

// NewEbitenSurface returns an empty surface; call Resize before drawing.
func NewEbitenSurface() *EbitenSurface { return &EbitenSurface{scale: 1} }

// Resize reallocates the offscreen image at the device scale.
func (s *EbitenSurface) Resize(w, h int, deviceScale float64) {
	if deviceScale <= 0 {
		deviceScale = 1
	}
	s.w, s.h, s.scale = max(w, 1), max(h, 1), deviceScale
	if s.img != nil {
		s.img.Deallocate()
	}
	bw := int(math.Ceil(float64(s.w) * deviceScale))
	bh := int(math.Ceil(float64(s.h) * deviceScale))
	s.img = ebiten.NewImage(bw, bh)
}

// Size returns the logical size.
func (s *EbitenSurface) Size() (int, int) { return s.w, s.h }

// Clear fills the offscreen image with c.
func (s *EbitenSurface) Clear(c color.Color) {
	if s.img == nil {
		return
	}
	s.img.Fill(c)
}

// FillRect paints an opaque rectangle in logical coordinates.
func (s *EbitenSurface) FillRect(x, y, w, h float64, c color.Color) {
	if s.img == nil {
		return
	}
	k := s.scale
	vector.FillRect(s.img, float32(x*k), float32(y*k), float32(w*k), float32(h*k), c, false)
}

// Draw composites the surface onto dst at (x, y) in device pixels.
func (s *EbitenSurface) Draw(dst *ebiten.Image, x, y float64) {
	if s.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	dst.DrawImage(s.img, op)
}
