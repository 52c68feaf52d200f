package textlayout

import (
	"slices"
	"testing"
	"time"

	"countdown-grid/internal/core"
)

func TestGlyphsAreFiveBySeven(t *testing.T) {
	for r, g := range glyphs {
		for row, line := range g {
			if len(line) != GlyphWidth {
				t.Fatalf("glyph %q row %d has width %d", r, row, len(line))
			}
		}
	}
	for _, r := range "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ .,!?'-:" {
		if !Supported(r) {
			t.Fatalf("missing glyph %q", r)
		}
	}
}

func TestLineWidth(t *testing.T) {
	if got := LineWidth("00:00"); got != 29 {
		t.Fatalf("expected 29 columns for 00:00, got %d", got)
	}
	if LineWidth("") != 0 {
		t.Fatal("empty line has no width")
	}
}

func TestLayoutDigitsCentersAndPads(t *testing.T) {
	g := core.NewGrid(41, 15, 4, 1)
	e := New()
	now := time.Unix(100, 0)
	if !e.LayoutDigits(g, []string{"00:00"}, now) {
		t.Fatal("first layout must report a change")
	}
	if len(g.DigitIndices) == 0 {
		t.Fatal("expected digit cells")
	}
	box, ok := e.DigitBox()
	if !ok {
		t.Fatal("expected a digit box")
	}
	// 29 wide centred in 41: columns 6..34, rows 4..10, padded by 2.
	want := core.Box{MinCol: 4, MaxCol: 36, MinRow: 2, MaxRow: 12}
	if box != want {
		t.Fatalf("box %+v, want %+v", box, want)
	}
	for idx := range g.DigitIndices {
		c := g.Cells[idx]
		if !c.IsDigit || !c.PulseStart.Equal(now) {
			t.Fatalf("digit cell %d not stamped: %+v", idx, c)
		}
		if !g.IsDirty(idx) {
			t.Fatalf("new digit cell %d should be dirty", idx)
		}
	}
}

func TestLayoutDigitsSameStringIsNoop(t *testing.T) {
	g := core.NewGrid(41, 15, 4, 1)
	e := New()
	lines := []string{"12:34"}
	e.LayoutDigits(g, lines, time.Unix(0, 0))
	g.ClearDirty()
	if e.LayoutDigits(g, []string{"12:34"}, time.Unix(1, 0)) {
		t.Fatal("same text should short-circuit")
	}
	if g.DirtyCount() != 0 {
		t.Fatalf("no cells should be dirty, got %d", g.DirtyCount())
	}
}

func TestLayoutDigitsIsDifferential(t *testing.T) {
	g := core.NewGrid(41, 15, 4, 1)
	e := New()
	first := time.Unix(0, 0)
	e.LayoutDigits(g, []string{"12:34"}, first)
	before := map[int]struct{}{}
	for idx := range g.DigitIndices {
		before[idx] = struct{}{}
	}
	g.ClearDirty()

	second := time.Unix(1, 0)
	e.LayoutDigits(g, []string{"12:35"}, second)

	for idx := range before {
		_, still := g.DigitIndices[idx]
		switch {
		case still && g.IsDirty(idx):
			t.Fatalf("unchanged cell %d should not be dirty", idx)
		case still && !g.Cells[idx].PulseStart.Equal(first):
			t.Fatalf("unchanged cell %d should keep its pulse start", idx)
		case !still && (!g.IsDirty(idx) || g.Cells[idx].IsDigit):
			t.Fatalf("removed cell %d should be cleared and dirty", idx)
		}
	}
	for idx := range g.DigitIndices {
		if _, had := before[idx]; had {
			continue
		}
		if !g.IsDirty(idx) || !g.Cells[idx].PulseStart.Equal(second) {
			t.Fatalf("added cell %d should be dirty and stamped", idx)
		}
	}
}

func TestClearDigits(t *testing.T) {
	g := core.NewGrid(41, 15, 4, 1)
	e := New()
	e.LayoutDigits(g, []string{"00:00"}, time.Unix(0, 0))
	e.ClearDigits(g)
	for i, c := range g.Cells {
		if c.IsDigit {
			t.Fatalf("cell %d still a digit", i)
		}
	}
	if !e.LayoutDigits(g, []string{"00:00"}, time.Unix(1, 0)) {
		t.Fatal("layout after clear must not short-circuit")
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("Happy new year, 2026! 🎉 #1"); got != "HAPPY NEW YEAR, 2026!  1" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
}

func TestWrapGreedy(t *testing.T) {
	// 23 columns fit four glyphs.
	got := Wrap("AB CD EFGH IJ", 23)
	want := []string{"AB", "CD", "EFGH", "IJ"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = Wrap("A B C D", 23)
	want = []string{"A B", "C D"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = Wrap("ABCDEFGHIJ", 23)
	want = []string{"ABCD", "EFGH", "IJ"}
	if !slices.Equal(got, want) {
		t.Fatalf("long words should split, got %q", got)
	}
}

func TestLayoutMessage(t *testing.T) {
	g := core.NewGrid(60, 40, 4, 1)
	e := New()
	res := e.LayoutMessage(g, "happy new year")
	if !res.OK || len(res.CellIndices) == 0 {
		t.Fatal("expected message cells")
	}
	for _, idx := range res.CellIndices {
		c := g.Cells[idx]
		if !c.IsMessage {
			t.Fatalf("cell %d not flagged as message", idx)
		}
		if !c.PulseStart.IsZero() {
			t.Fatal("message layout must not start pulses")
		}
		col, row := g.Coords(idx)
		if !res.Box.Contains(col, row) {
			t.Fatalf("cell (%d,%d) outside box %+v", col, row, res.Box)
		}
	}
	if !slices.IsSorted(res.CellIndices) {
		t.Fatal("indices should be sorted")
	}

	again := e.LayoutMessage(g, "hi")
	count := 0
	for _, c := range g.Cells {
		if c.IsMessage {
			count++
		}
	}
	if count != len(again.CellIndices) {
		t.Fatalf("previous message not cleared: %d flagged, %d expected", count, len(again.CellIndices))
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want []string
	}{
		{0, []string{"00:00"}},
		{-time.Second, []string{"00:00"}},
		{1500 * time.Millisecond, []string{"00:02"}},
		{59*time.Minute + 59*time.Second, []string{"59:59"}},
		{time.Hour + 2*time.Minute + 3*time.Second, []string{"1:02:03"}},
		{3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second, []string{"3D", "04:05:06"}},
	}
	for _, tc := range cases {
		if got := FormatCountdown(tc.in); !slices.Equal(got, tc.want) {
			t.Errorf("FormatCountdown(%v)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
