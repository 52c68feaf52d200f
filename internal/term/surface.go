// Package term renders a countdown theme into a terminal with tcell.
package term

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"countdown-grid/internal/render"
)

// Logical pixels covered by one terminal cell. Each cell shows two vertical
// samples with an upper half block, so the effective pixel is 4×4.
const (
	CellWidth  = 4
	CellHeight = 8
)

// Surface paints into an offscreen image and samples it onto a tcell screen.
type Surface struct {
	*render.ImageSurface
}

// NewSurface returns a surface sized for cols×rows terminal cells.
func NewSurface(cols, rows int) *Surface {
	return &Surface{ImageSurface: render.NewImageSurface(cols*CellWidth, rows*CellHeight)}
}

// Viewport converts a terminal size into logical pixels.
func Viewport(cols, rows int) (int, int) { return cols * CellWidth, rows * CellHeight }

// ToPixels maps a terminal cell to the logical pixel at its centre.
func ToPixels(col, row int) (float64, float64) {
	return float64(col*CellWidth + CellWidth/2), float64(row*CellHeight + CellHeight/2)
}

// Blit copies the painted image onto screen using '▀' with the upper sample
// as foreground and the lower sample as background. Areas outside the image
// use bg.
func (s *Surface) Blit(screen tcell.Screen, bg color.Color) {
	img := s.Image()
	b := img.Bounds()
	cols, rows := screen.Size()
	sample := func(x, y int) tcell.Color {
		if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
			return toTcell(bg)
		}
		return toTcell(img.RGBAAt(x, y))
	}
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			x := tx*CellWidth + CellWidth/2
			top := sample(x, ty*CellHeight+CellHeight/4)
			bottom := sample(x, ty*CellHeight+3*CellHeight/4)
			screen.SetContent(tx, ty, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
}

func toTcell(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
