package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config represents the command-line parameters shared by the front ends.
type Config struct {
	Theme     string
	Width     int
	Height    int
	ColorMode string
	Target    string
	Duration  time.Duration
	Message   string
	Seed      int64
	TPS       int
	HUD       bool
	Overrides []string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Theme:     "contributions",
		Width:     960,
		Height:    540,
		ColorMode: "dark",
		Duration:  90 * time.Second,
		Message:   "Happy new year!",
		Seed:      42,
		TPS:       30,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Theme, "theme", c.Theme, "theme to render")
	fs.IntVar(&c.Width, "width", c.Width, "viewport width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "viewport height in pixels")
	fs.StringVar(&c.ColorMode, "color-mode", c.ColorMode, "dark, light or system")
	fs.StringVar(&c.Target, "target", c.Target, "countdown target as RFC3339; overrides --duration")
	fs.DurationVar(&c.Duration, "duration", c.Duration, "countdown length from now")
	fs.StringVar(&c.Message, "message", c.Message, "celebration message")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for ambient selection and wall order")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
	fs.BoolVar(&c.HUD, "hud", c.HUD, "show the diagnostics panel")
	fs.StringArrayVar(&c.Overrides, "set", c.Overrides, "engine override in key=value form (repeatable)")
}

// Deadline resolves the countdown target relative to now.
func (c *Config) Deadline(now time.Time) (time.Time, error) {
	if c.Target == "" {
		return now.Add(c.Duration), nil
	}
	t, err := time.Parse(time.RFC3339, c.Target)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --target: %w", err)
	}
	return t, nil
}

// ThemeConfig merges the flags and the key=value overrides into the string
// map theme factories accept. Overrides win.
func (c *Config) ThemeConfig(reference time.Duration) map[string]string {
	out := map[string]string{
		"seed":       strconv.FormatInt(c.Seed, 10),
		"fps":        strconv.Itoa(c.TPS),
		"color_mode": c.ColorMode,
	}
	if reference > 0 {
		out["reference_ms"] = strconv.FormatInt(reference.Milliseconds(), 10)
	}
	for _, kv := range c.Overrides {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}
