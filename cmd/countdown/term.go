package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"countdown-grid/internal/term"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Render the countdown in the terminal",
	Long: `Term draws the grid with half-block characters. Keys: q, Esc or Ctrl-C
quit, c celebrates now, r restarts the countdown and m cycles the colour mode.`,
	RunE: runTerm,
}

func init() {
	termCmd.Flags().String("log-file", "", "write logs to this file instead of discarding them")
}

func runTerm(cmd *cobra.Command, args []string) error {
	var out io.Writer = io.Discard
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "countdown"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return term.Run(ctx, screen, term.Options{Config: cfg, Logger: logger})
}
