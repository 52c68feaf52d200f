package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"countdown-grid/internal/app"
	"countdown-grid/internal/core"
	"countdown-grid/internal/render"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#39d353"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
)

// simulation runs a theme on a headless surface with a synthetic clock.
type simulation struct {
	theme   core.Theme
	driver  *app.Driver
	surface *render.ImageSurface
	now     time.Time
	step    time.Duration
}

func newSimulation(c *app.Config) (*simulation, error) {
	start := time.Unix(1_700_000_000, 0)
	deadline, err := c.Deadline(start)
	if err != nil {
		return nil, err
	}
	if c.Target != "" {
		// Keep the target's span but run it on the synthetic clock.
		deadline = start.Add(max(deadline.Sub(time.Now()), 0))
	}
	clock := app.NewClock(start, deadline)
	surface := render.NewImageSurface(c.Width, c.Height)
	th, err := app.NewTheme(c.Theme, surface, c.ThemeConfig(clock.Reference))
	if err != nil {
		return nil, err
	}
	th.Mount(core.Size{W: c.Width, H: c.Height}, start)
	tps := c.TPS
	if tps <= 0 {
		tps = 30
	}
	return &simulation{
		theme:   th,
		driver:  app.NewDriver(context.Background(), th, clock, c.Message, newLogger()),
		surface: surface,
		now:     start,
		step:    time.Second / time.Duration(tps),
	}, nil
}

// seek jumps the clock so that remaining is left on the countdown.
func (s *simulation) seek(remaining time.Duration) {
	s.now = s.driver.Clock.Deadline.Add(-remaining)
}

// advance runs one frame and reports whether it painted.
func (s *simulation) advance() bool {
	s.now = s.now.Add(s.step)
	return s.driver.Step(s.now)
}

func (s *simulation) celebration() string {
	p, _ := s.theme.Parameters().Lookup("celebration")
	return p.Value
}

func (s *simulation) close() { s.theme.Destroy() }

func summary(pairs ...string) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		out += labelStyle.Render(pairs[i]) + " " + valueStyle.Render(pairs[i+1]) + "\n"
	}
	return out
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render one frame to a PNG",
	RunE:  runSnapshot,
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the end of the countdown and the celebration to a GIF",
	RunE:  runRecord,
}

func init() {
	snapshotCmd.Flags().StringP("output", "o", "countdown.png", "output file")
	snapshotCmd.Flags().Duration("at", time.Minute, "time remaining when the frame is captured")
	snapshotCmd.Flags().Bool("celebrated", false, "capture the finished celebration instead")
	snapshotCmd.Flags().Int("warmup", 90, "frames to run before capturing")
	snapshotCmd.Flags().Int("scale", 1, "integer upscale factor")

	recordCmd.Flags().StringP("output", "o", "countdown.gif", "output file")
	recordCmd.Flags().Duration("lead", 3*time.Second, "countdown time recorded before the deadline")
	recordCmd.Flags().Int("every", 3, "keep one frame out of this many")
	recordCmd.Flags().Int("max-frames", 900, "stop after this many simulated frames")
	recordCmd.Flags().Int("scale", 1, "integer upscale factor")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	output, _ := flags.GetString("output")
	at, _ := flags.GetDuration("at")
	celebrated, _ := flags.GetBool("celebrated")
	warmup, _ := flags.GetInt("warmup")
	scale, _ := flags.GetInt("scale")

	sim, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	defer sim.close()

	if celebrated {
		sim.seek(sim.step)
		for i := 0; i < 10_000 && sim.celebration() != "celebrated"; i++ {
			sim.advance()
		}
		for i := 0; i < warmup; i++ {
			sim.advance()
		}
	} else {
		sim.seek(at + time.Duration(warmup)*sim.step)
		for i := 0; i < warmup; i++ {
			sim.advance()
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()
	if err := render.WritePNG(f, sim.surface.Image(), scale); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	count := sim.theme.ElementCount()
	fmt.Fprint(cmd.OutOrStdout(), summary(
		"wrote", output,
		"remaining", sim.driver.Clock.Remaining(sim.now).String(),
		"state", sim.celebration(),
		"cells", fmt.Sprintf("%d (%d animated)", count.Total, count.Animated),
	))
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	output, _ := flags.GetString("output")
	lead, _ := flags.GetDuration("lead")
	every, _ := flags.GetInt("every")
	maxFrames, _ := flags.GetInt("max-frames")
	scale, _ := flags.GetInt("scale")
	every = max(every, 1)

	sim, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	defer sim.close()

	rec := render.NewRecorder(scale)
	sim.seek(lead)
	frames := 0
	for ; frames < maxFrames; frames++ {
		sim.advance()
		if frames%every == 0 {
			rec.Add(sim.surface.Image(), time.Duration(every)*sim.step)
		}
		if sim.celebration() == "celebrated" {
			break
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()
	if err := rec.Encode(f); err != nil {
		return fmt.Errorf("write gif: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), summary(
		"wrote", output,
		"frames", fmt.Sprintf("%d of %d simulated", rec.Len(), frames),
		"state", sim.celebration(),
	))
	return nil
}
