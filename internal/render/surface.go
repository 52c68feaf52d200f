package render

import (
	"image"
	"image/color"
	"math"
)

// ImageSurface is a headless surface backed by an RGBA image. Logical
// coordinates are multiplied by the device scale before filling.
type ImageSurface struct {
	img   *image.RGBA
	w, h  int
	scale float64
}

// NewImageSurface returns a surface of w×h logical pixels at scale 1.
func NewImageSurface(w, h int) *ImageSurface {
	s := &ImageSurface{}
	s.Resize(w, h, 1)
	return s
}

// Resize reallocates the backing image at the device scale.
func (s *ImageSurface) Resize(w, h int, deviceScale float64) {
	if deviceScale <= 0 {
		deviceScale = 1
	}
	s.w, s.h, s.scale = max(w, 0), max(h, 0), deviceScale
	bw := int(math.Ceil(float64(s.w) * deviceScale))
	bh := int(math.Ceil(float64(s.h) * deviceScale))
	s.img = image.NewRGBA(image.Rect(0, 0, bw, bh))
}

// Size returns the logical size.
func (s *ImageSurface) Size() (int, int) { return s.w, s.h }

// Image exposes the backing store. It is reused across frames.
func (s *ImageSurface) Image() *image.RGBA { return s.img }

// Clear fills the whole backing store with c.
func (s *ImageSurface) Clear(c color.Color) {
	b := s.img.Bounds()
	fillRGBA(s.img, b, c)
}

// FillRect paints an opaque rectangle. Edges are rounded to whole device
// pixels and clipped to the surface.
func (s *ImageSurface) FillRect(x, y, w, h float64, c color.Color) {
	r := image.Rect(
		int(math.Round(x*s.scale)),
		int(math.Round(y*s.scale)),
		int(math.Round((x+w)*s.scale)),
		int(math.Round((y+h)*s.scale)),
	).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	fillRGBA(s.img, r, c)
}

// fillRGBA writes c into every pixel of r straight into the pixel buffer.
func fillRGBA(img *image.RGBA, r image.Rectangle, c color.Color) {
	cr, cg, cb, ca := c.RGBA()
	px := [4]uint8{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			copy(img.Pix[row:row+4], px[:])
			row += 4
		}
	}
}
