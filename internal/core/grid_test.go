package core

import (
	"math"
	"testing"
)

func TestNewGridForViewportReferenceWidth(t *testing.T) {
	g := NewGridForViewport(1920, 1080)
	cfg := DefaultGridConfig()
	if g.SquareSize != cfg.BaseSquareSize {
		t.Fatalf("square size %d, expected base %d at reference width", g.SquareSize, cfg.BaseSquareSize)
	}
	if g.Cols*g.Rows != len(g.Cells) {
		t.Fatalf("cols*rows=%d but %d cells allocated", g.Cols*g.Rows, len(g.Cells))
	}
	if g.Width > 1920 || g.Height > 1080 {
		t.Fatalf("grid %dx%d overflows viewport", g.Width, g.Height)
	}
	if !g.NeedsFullRepaint() {
		t.Fatal("fresh grid must request a full repaint")
	}
}

func TestNewGridCapsCellCountPreservingAspect(t *testing.T) {
	cfg := DefaultGridConfig()
	g := NewGridWithConfig(3840, 2160, cfg)
	if g.Cols*g.Rows > cfg.MaxCells {
		t.Fatalf("expected at most %d cells, got %d", cfg.MaxCells, g.Cols*g.Rows)
	}
	uncappedAspect := 192.0 / 108.0
	aspect := float64(g.Cols) / float64(g.Rows)
	if math.Abs(aspect-uncappedAspect) > 0.03 {
		t.Fatalf("aspect drifted: %f vs %f", aspect, uncappedAspect)
	}
}

func TestNewGridSmallViewportFitsMinimumText(t *testing.T) {
	cfg := DefaultGridConfig()
	g := NewGridWithConfig(200, 100, cfg)
	if g.Cols < cfg.MinTextCols || g.Rows < cfg.MinTextRows {
		t.Fatalf("grid %dx%d too small for minimum text %dx%d", g.Cols, g.Rows, cfg.MinTextCols, cfg.MinTextRows)
	}
}

func TestDirtyTracking(t *testing.T) {
	g := NewGrid(4, 3, 10, 2)
	g.ClearDirty()
	g.MarkDirty(5)
	g.MarkDirty(5)
	g.MarkDirty(-1)
	g.MarkDirty(99)
	if g.DirtyCount() != 1 {
		t.Fatalf("expected one dirty cell, got %d", g.DirtyCount())
	}
	if !g.IsDirty(5) {
		t.Fatal("cell 5 should be dirty")
	}
	g.MarkFullRepaint()
	g.ClearDirty()
	if g.DirtyCount() != 0 || g.NeedsFullRepaint() {
		t.Fatal("ClearDirty must empty the dirty set and the full repaint flag")
	}
	if g.IsDirty(5) {
		t.Fatal("dirty mark should be cleared")
	}
}

func TestResetCells(t *testing.T) {
	g := NewGrid(3, 3, 4, 1)
	g.ClearDirty()
	g.Cells[4] = Cell{Intensity: 3, IsDigit: true, IsWall: true}
	g.DigitIndices[4] = struct{}{}
	g.SetExclusion(&Box{MinCol: 0, MaxCol: 1, MinRow: 0, MaxRow: 1})

	g.ResetCells()

	if g.Cells[4] != (Cell{}) {
		t.Fatalf("cell not reset: %+v", g.Cells[4])
	}
	if len(g.DigitIndices) != 0 || g.Exclusion != nil {
		t.Fatal("reset should drop digit indices and exclusion")
	}
	if !g.NeedsFullRepaint() {
		t.Fatal("reset must force a full repaint")
	}
}

func TestAmbientEligibility(t *testing.T) {
	g := NewGrid(5, 5, 4, 1)
	g.Cells[g.Index(0, 0)].IsDigit = true
	g.Cells[g.Index(1, 0)].IsWall = true
	g.Cells[g.Index(2, 0)].IsMessage = true
	g.SetExclusion(&Box{MinCol: 3, MaxCol: 10, MinRow: 3, MaxRow: 10})

	for _, tc := range []struct {
		col, row int
		want     bool
	}{
		{0, 0, false},
		{1, 0, false},
		{2, 0, false},
		{4, 4, false},
		{3, 0, true},
		{0, 4, true},
	} {
		if got := g.AmbientEligible(g.Index(tc.col, tc.row)); got != tc.want {
			t.Errorf("(%d,%d) eligible=%v, expected %v", tc.col, tc.row, got, tc.want)
		}
	}
	if g.Exclusion.MaxCol != 4 || g.Exclusion.MaxRow != 4 {
		t.Fatalf("exclusion should be clipped to the grid, got %+v", *g.Exclusion)
	}
	if g.AmbientEligible(-3) || g.AmbientEligible(999) {
		t.Fatal("out of range indices are never eligible")
	}
}

func TestCellAt(t *testing.T) {
	g := NewGrid(10, 5, 8, 2)
	if idx := g.CellAt(25, 12); idx != g.Index(2, 1) {
		t.Fatalf("expected (2,1), got index %d", idx)
	}
	if idx := g.CellAt(-1, 0); idx != -1 {
		t.Fatalf("negative coordinates should miss, got %d", idx)
	}
	if idx := g.CellAt(1000, 0); idx != -1 {
		t.Fatalf("point past the grid should miss, got %d", idx)
	}
}

func TestBoxFromPixels(t *testing.T) {
	g := NewGrid(20, 10, 8, 2)
	b := BoxFromPixels(g, 20, 20, 41, 31, 1)
	want := Box{MinCol: 1, MaxCol: 5, MinRow: 1, MaxRow: 4}
	if b != want {
		t.Fatalf("got %+v, want %+v", b, want)
	}
}
