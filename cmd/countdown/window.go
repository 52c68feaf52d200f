//go:build ebiten

package main

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"countdown-grid/internal/app"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the countdown in a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		game, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer game.Close()

		ebiten.SetWindowTitle("countdown")
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetTPS(cfg.TPS)

		if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
			return err
		}
		return nil
	},
}
