package render

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"time"

	xdraw "golang.org/x/image/draw"
)

// Scale returns img enlarged by an integer factor with nearest-neighbour
// sampling so cell edges stay crisp. A factor of 1 or less returns img.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// WritePNG encodes img, scaled by factor, as PNG.
func WritePNG(w io.Writer, img image.Image, factor int) error {
	return png.Encode(w, Scale(img, factor))
}

// Recorder collects frames for an animated GIF.
type Recorder struct {
	factor int
	out    gif.GIF
}

// NewRecorder returns an empty recorder scaling frames by factor.
func NewRecorder(factor int) *Recorder {
	return &Recorder{factor: max(factor, 1)}
}

// Add quantizes a copy of img to the Plan9 palette with Floyd–Steinberg
// dithering and appends it with the given display time.
func (r *Recorder) Add(img image.Image, delay time.Duration) {
	src := Scale(img, r.factor)
	p := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), src, src.Bounds().Min)
	r.out.Image = append(r.out.Image, p)
	r.out.Delay = append(r.out.Delay, max(int(delay/(10*time.Millisecond)), 1))
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int { return len(r.out.Image) }

// Encode writes the looping animation.
func (r *Recorder) Encode(w io.Writer) error {
	r.out.LoopCount = 0
	return gif.EncodeAll(w, &r.out)
}
