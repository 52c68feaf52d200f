//go:build !ebiten

package main

import (
	"github.com/spf13/cobra"

	"countdown-grid/internal/app"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the countdown in a window (requires the ebiten build tag)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ErrNoWindow
	},
}
