package theme

import (
	"strconv"
	"time"

	"countdown-grid/internal/core"
)

// Parameters returns the diagnostics shown by the HUD.
func (t *Theme) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "Stage",
			Params: []core.Parameter{
				stringParam("stage", "Stage", t.lastStage.Name),
				floatParam("stage_progress", "Progress", round(t.lastStage.Progress, 3)),
				floatParam("coverage_per_mille", "Coverage ‰", t.lastStage.Values.CoveragePerMille),
				floatParam("turnover", "Turnover", t.lastStage.Values.TurnoverRatio),
				durationParam("tick_ms", "Tick ms", t.lastPhase.TickInterval),
				durationParam("duration_ms", "Duration ms", t.lastPhase.Duration),
			},
		},
		{
			Name: "Celebration",
			Params: []core.Parameter{
				stringParam("celebration", "State", t.state.String()),
				stringParam("wall", "Wall", t.wall.State().String()),
				floatParam("wall_progress", "Wall progress", round(t.wall.Progress(), 3)),
				stringParam("color_mode", "Colour mode", t.renderer.ColorMode()),
			},
		},
		{
			Name: "Resources",
			Params: []core.Parameter{
				intParam("tracked", "Tracked", t.tracker.Len()),
				intParam("timers", "Timers", t.timers.Len()),
				intParam("frames", "Frames", t.frames),
			},
		},
	}
	if g := t.grid; g != nil {
		target := t.ambient.Target(g, t.lastPhase)
		counts := t.ElementCount()
		groups = append([]core.ParameterGroup{
			{
				Name: "Grid",
				Params: []core.Parameter{
					intParam("cols", "Columns", g.Cols),
					intParam("rows", "Rows", g.Rows),
					intParam("square", "Square px", g.SquareSize),
					intParam("gap", "Gap px", g.Gap),
					intParam("cells", "Cells", counts.Total),
					intParam("animated", "Animated", counts.Animated),
				},
			},
			{
				Name: "Ambient",
				Params: []core.Parameter{
					intParam("eligible", "Eligible", t.ambient.EligibleCount(g)),
					intParam("target", "Target", target),
					intParam("cap", "Cap", t.ambient.ConcurrencyCap(target)),
					intParam("active", "Active", t.ambient.ActiveCount()),
					stringParam("exclusion", "Exclusion", core.FormatBox(g.Exclusion)),
				},
			},
		}, groups...)
	}
	return core.ParameterSnapshot{Groups: groups}
}

func round(v float64, places int) float64 {
	p, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return p
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func durationParam(key, label string, value time.Duration) core.Parameter {
	return intParam(key, label, int(value/time.Millisecond))
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
