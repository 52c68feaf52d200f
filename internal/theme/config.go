package theme

import (
	"strconv"
	"time"

	"countdown-grid/internal/ambient"
	"countdown-grid/internal/core"
	"countdown-grid/internal/render"
	"countdown-grid/internal/stage"
	"countdown-grid/internal/wall"
)

// Config controls the contribution theme and the engines it owns.
type Config struct {
	Seed int64
	FPS  int

	// Reference is the full countdown length. It bounds stage progress for
	// the topmost stage.
	Reference time.Duration

	ColorMode   string
	DeviceScale float64
	// UIMargin pads the UI exclusion rectangle, in cells.
	UIMargin int

	Grid    core.GridConfig
	Stage   stage.Config
	Ambient ambient.Config
	Wall    wall.Config
	Render  render.Config
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:        1337,
		FPS:         30,
		Reference:   7 * 24 * time.Hour,
		ColorMode:   render.ModeDark,
		DeviceScale: 1,
		UIMargin:    1,
		Grid:        core.DefaultGridConfig(),
		Stage:       stage.DefaultConfig(),
		Ambient:     ambient.DefaultConfig(),
		Wall:        wall.DefaultConfig(),
		Render:      render.DefaultConfig(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unknown keys and unparsable values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	setInt(cfg, "fps", &c.FPS, 1)
	setMillis(cfg, "reference_ms", &c.Reference)
	if v, ok := cfg["color_mode"]; ok && v != "" {
		c.ColorMode = v
	}
	setFloat(cfg, "device_scale", &c.DeviceScale, 0.1)
	setInt(cfg, "ui_margin", &c.UIMargin, 0)

	setInt(cfg, "base_square", &c.Grid.BaseSquareSize, 1)
	setInt(cfg, "min_square", &c.Grid.MinSquareSize, 1)
	setInt(cfg, "max_square", &c.Grid.MaxSquareSize, 1)
	setInt(cfg, "reference_width", &c.Grid.ReferenceWidth, 1)
	setFloat(cfg, "gap_ratio", &c.Grid.GapRatio, 0)
	setInt(cfg, "max_cells", &c.Grid.MaxCells, 0)
	if c.Grid.MaxSquareSize < c.Grid.MinSquareSize {
		c.Grid.MaxSquareSize = c.Grid.MinSquareSize
	}

	setMillis(cfg, "base_duration_ms", &c.Stage.BaseDuration)
	setFloat(cfg, "batch_overlap", &c.Stage.BatchOverlap, 0)
	setFloat(cfg, "stagger", &c.Stage.MaxStaggerFraction, 0)
	c.Ambient.MaxStaggerFraction = c.Stage.MaxStaggerFraction

	setFloat(cfg, "batch_fraction", &c.Ambient.BatchFraction, 0)
	setInt(cfg, "concurrency_multiplier", &c.Ambient.ConcurrencyMultiplier, 1)
	setFloat(cfg, "duration_jitter", &c.Ambient.DurationJitter, 0)
	setMillis(cfg, "cleanup_buffer_ms", &c.Ambient.CleanupBuffer)

	setMillis(cfg, "wall_frame_ms", &c.Wall.FrameDelay)
	setMillis(cfg, "wall_target_ms", &c.Wall.TargetDuration)
	setInt(cfg, "wall_max_per_frame", &c.Wall.MaxPerFrame, 1)
	setMillis(cfg, "wall_hold_ms", &c.Wall.HoldDelay)

	setFloat(cfg, "hover_scale", &c.Render.HoverScale, 1)
	setMillis(cfg, "pulse_period_ms", &c.Render.PulsePeriod)
	return c
}

func setInt(cfg map[string]string, key string, dst *int, minimum int) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	if parsed, err := strconv.Atoi(v); err == nil && parsed >= minimum {
		*dst = parsed
	}
}

func setFloat(cfg map[string]string, key string, dst *float64, minimum float64) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= minimum {
		*dst = parsed
	}
}

func setMillis(cfg map[string]string, key string, dst *time.Duration) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
		*dst = time.Duration(parsed) * time.Millisecond
	}
}
