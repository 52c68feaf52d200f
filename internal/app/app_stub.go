//go:build !ebiten

package app

import (
	"errors"

	"github.com/charmbracelet/log"
)

// ErrNoWindow is returned by New when the binary was built without the
// ebiten tag.
var ErrNoWindow = errors.New("window front end requires building with the 'ebiten' tag")

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New reports that the GUI build tag is missing.
func New(*Config, *log.Logger) (*Game, error) {
	return nil, ErrNoWindow
}

// Close is a no-op placeholder.
func (g *Game) Close() {}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error { return ErrNoWindow }

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
