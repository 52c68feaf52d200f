package ui

import (
	"strings"
	"testing"

	"countdown-grid/internal/core"
)

func TestFormatLines(t *testing.T) {
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "Stage", Params: []core.Parameter{
			{Key: "stage", Label: "Stage", Type: core.ParamTypeString, Value: "calm"},
			{Key: "tick_ms", Label: "Tick ms", Type: core.ParamTypeInt},
		}},
	}}
	lines := FormatLines(snap)
	if len(lines) != 3 || !lines[0].Header || lines[0].Text != "Stage" {
		t.Fatalf("unexpected lines %+v", lines)
	}
	if !strings.HasSuffix(lines[1].Text, " calm") || !strings.HasSuffix(lines[2].Text, " --") {
		t.Fatalf("values should be appended, got %q / %q", lines[1].Text, lines[2].Text)
	}
	if strings.Index(lines[1].Text, "calm") != strings.Index(lines[2].Text, "--") {
		t.Fatal("values should line up")
	}
}

func TestPanelSize(t *testing.T) {
	if w, h := PanelSize(nil); w != 0 || h != 0 {
		t.Fatal("empty panel has no size")
	}
	w, h := PanelSize([]Line{{Text: "abcd"}, {Text: "ab"}})
	if w != 4*glyphWidth+2*panelPadding || h != 2*lineHeight+2*panelPadding {
		t.Fatalf("unexpected panel size %dx%d", w, h)
	}
}
