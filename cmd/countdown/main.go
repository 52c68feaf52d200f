package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"countdown-grid/internal/app"
	_ "countdown-grid/internal/theme"
)

var version = "0.1.0"

var (
	cfg     = app.NewConfig()
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Contribution-graph countdown",
	Long: `Countdown renders a grid of contribution-graph squares that grows busier
as a deadline approaches, spells the remaining time in large digits and
celebrates with a falling wall and a message when the time is up.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	cfg.Bind(rootCmd.PersistentFlags())

	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(termCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(stagesCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "countdown",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		newLogger().Error("countdown failed", "err", err)
		os.Exit(1)
	}
}
