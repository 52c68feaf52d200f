package ui

import (
	"fmt"

	"countdown-grid/internal/core"
)

// Line is one row of the diagnostics panel.
type Line struct {
	Text   string
	Header bool
}

// Panel metrics in logical pixels, sized for basicfont.Face7x13.
const (
	panelPadding = 8
	lineHeight   = 15
	glyphWidth   = 7
	labelColumn  = 14
)

// FormatLines flattens a parameter snapshot into panel rows: one header per
// group followed by "label value" rows with the values aligned.
func FormatLines(snapshot core.ParameterSnapshot) []Line {
	var lines []Line
	for _, group := range snapshot.Groups {
		lines = append(lines, Line{Text: group.Name, Header: true})
		for _, p := range group.Params {
			value := p.Value
			if value == "" {
				value = "--"
			}
			lines = append(lines, Line{Text: fmt.Sprintf("  %-*s %s", labelColumn, p.Label, value)})
		}
	}
	return lines
}

// PanelSize returns the panel dimensions needed for lines.
func PanelSize(lines []Line) (int, int) {
	if len(lines) == 0 {
		return 0, 0
	}
	widest := 0
	for _, l := range lines {
		widest = max(widest, len([]rune(l.Text)))
	}
	return widest*glyphWidth + 2*panelPadding, len(lines)*lineHeight + 2*panelPadding
}
