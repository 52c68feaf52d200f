package core

import (
	"context"
	"image"
	"image/color"
	"time"
)

// Size describes viewport dimensions in pixels.
type Size struct {
	W int
	H int
}

// Surface is the single drawable the renderer paints cells onto. Coordinates
// are logical pixels; implementations apply the device scale themselves.
type Surface interface {
	// Resize sets the logical size and the device pixel ratio of the backing
	// store.
	Resize(w, h int, deviceScale float64)
	Size() (w, h int)
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
}

// ElementCount summarizes how many cells exist and how many are animating.
type ElementCount struct {
	Total    int
	Animated int
}

// Theme is the contract the page orchestration uses to drive a countdown
// visual.
type Theme interface {
	Name() string
	Mount(size Size, now time.Time)
	Resize(size Size, now time.Time)
	Destroy()

	// Frame runs one throttled frame: stage, ambient tick, render. It reports
	// whether work was done.
	Frame(now time.Time, remaining time.Duration) bool

	UpdateDigits(lines []string, now time.Time)
	OnCelebrating(ctx context.Context, message string, now time.Time)
	OnCelebrated(message string, now time.Time)
	OnCounting(now time.Time)

	SetColorMode(mode string)
	SetUIExclusion(rect image.Rectangle)
	PointerMove(x, y float64)
	PointerLeave()

	ElementCount() ElementCount
	Parameters() ParameterSnapshot
}

// Factory constructs a Theme drawing onto surface, using an optional
// configuration map.
type Factory func(surface Surface, cfg map[string]string) Theme

var themes = map[string]Factory{}

// Register adds a theme factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	themes[name] = f
}

// Themes exposes the registry of available theme factories.
func Themes() map[string]Factory {
	return themes
}
