package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"countdown-grid/internal/core"
)

// Colour modes accepted by SetColorMode.
const (
	ModeDark   = "dark"
	ModeLight  = "light"
	ModeSystem = "system"
)

// Palette holds the colours of one colour mode.
type Palette struct {
	Name       string
	Background colorful.Color
	Levels     [core.MaxIntensity + 1]colorful.Color
	Wall       colorful.Color
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DarkPalette returns the contribution-graph colours on a dark page.
func DarkPalette() Palette {
	return Palette{
		Name:       ModeDark,
		Background: mustHex("#0d1117"),
		Levels: [core.MaxIntensity + 1]colorful.Color{
			mustHex("#161b22"),
			mustHex("#0e4429"),
			mustHex("#006d32"),
			mustHex("#26a641"),
			mustHex("#39d353"),
		},
		Wall: mustHex("#26a641"),
	}
}

// LightPalette returns the contribution-graph colours on a light page.
func LightPalette() Palette {
	return Palette{
		Name:       ModeLight,
		Background: mustHex("#ffffff"),
		Levels: [core.MaxIntensity + 1]colorful.Color{
			mustHex("#ebedf0"),
			mustHex("#9be9a8"),
			mustHex("#40c463"),
			mustHex("#30a14e"),
			mustHex("#216e39"),
		},
		Wall: mustHex("#30a14e"),
	}
}

// ResolveMode maps a requested mode onto dark or light. System mode asks
// prefersDark; a nil callback means dark. Unknown modes fall back to dark.
func ResolveMode(mode string, prefersDark func() bool) string {
	switch mode {
	case ModeLight:
		return ModeLight
	case ModeSystem:
		if prefersDark != nil && !prefersDark() {
			return ModeLight
		}
		return ModeDark
	default:
		return ModeDark
	}
}

// PaletteFor returns the palette of the resolved mode.
func PaletteFor(mode string, prefersDark func() bool) Palette {
	if ResolveMode(mode, prefersDark) == ModeLight {
		return LightPalette()
	}
	return DarkPalette()
}

// Level returns the colour for a fractional intensity, interpolating
// linearly in RGB between the neighbouring levels.
func (p Palette) Level(intensity float64) colorful.Color {
	if intensity <= 0 {
		return p.Levels[0]
	}
	last := float64(len(p.Levels) - 1)
	if intensity >= last {
		return p.Levels[len(p.Levels)-1]
	}
	lo := math.Floor(intensity)
	i := int(lo)
	return p.Levels[i].BlendRgb(p.Levels[i+1], intensity-lo)
}

// Fade blends c towards the background; opacity 1 returns c unchanged.
func (p Palette) Fade(c colorful.Color, opacity float64) colorful.Color {
	if opacity >= 1 {
		return c
	}
	opacity = math.Max(0, opacity)
	return p.Background.BlendRgb(c, opacity)
}
