//go:build !ebiten

package ui

import (
	"image"

	"countdown-grid/internal/core"
)

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(interface{ Parameters() core.ParameterSnapshot }, bool) *HUD { return nil }

// Toggle is a no-op in the headless build.
func (h *HUD) Toggle() {}

// Visible always reports false in the headless build.
func (h *HUD) Visible() bool { return false }

// Update is a no-op in the headless build.
func (h *HUD) Update() {}

// Rect is empty in the headless build.
func (h *HUD) Rect() image.Rectangle { return image.Rectangle{} }

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, float64) {}
