package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"countdown-grid/internal/stage"
	"countdown-grid/internal/theme"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Print the stage table and its derived timings",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := stagesTable(theme.FromMap(cfg.ThemeConfig(0)).Stage)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#39d353")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func stagesTable(c stage.Config) (string, error) {
	s := stage.New(c)
	rows := make([][]string, 0, len(s.Table()))
	for _, def := range s.Table() {
		duration, err := s.Duration(def.Name)
		if err != nil {
			return "", err
		}
		lifetime, err := s.BatchLifetime(def.Name)
		if err != nil {
			return "", err
		}
		tick, err := s.TickInterval(def.Name)
		if err != nil {
			return "", err
		}
		rows = append(rows, []string{
			def.Name,
			"≥ " + formatThreshold(def.Threshold),
			fmt.Sprintf("%g‰", def.Values.CoveragePerMille),
			fmt.Sprintf("%g", def.Values.TurnoverRatio),
			fmt.Sprintf("×%g", def.DurationMultiplier),
			duration.String(),
			lifetime.String(),
			tick.String(),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#30363d"))).
		Headers("STAGE", "REMAINING", "COVERAGE", "TURNOVER", "MULT", "DURATION", "LIFETIME", "TICK").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String(), nil
}

func formatThreshold(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return d.String()
}
