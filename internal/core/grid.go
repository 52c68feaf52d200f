package core

import (
	"math"
	"time"
)

// Cell holds the per-position render state of the grid.
type Cell struct {
	// Intensity is the base colour level in [0, MaxIntensity].
	Intensity uint8

	IsDigit   bool
	IsAmbient bool
	IsWall    bool
	IsMessage bool
	IsHovered bool

	// AmbientProgress and AmbientTarget are only meaningful while IsAmbient.
	AmbientProgress float64
	AmbientTarget   uint8

	// PulseStart is the zero time when the cell is not pulsing.
	PulseStart time.Time
}

// MaxIntensity is the highest palette level a cell can use.
const MaxIntensity = 4

// Claimed reports whether the cell belongs to text or the wall.
func (c *Cell) Claimed() bool {
	return c.IsDigit || c.IsWall || c.IsMessage
}

// Active reports whether the cell has anything worth drawing besides the
// empty level.
func (c *Cell) Active() bool {
	return c.Intensity > 0 || c.IsDigit || c.IsAmbient || c.IsWall || c.IsMessage
}

func (c *Cell) reset() {
	*c = Cell{}
}

// Grid stores the cells of the contribution graph in row-major order together
// with its pixel geometry and dirty tracking.
type Grid struct {
	Cols, Rows int
	SquareSize int
	Gap        int
	Width      int
	Height     int

	Cells []Cell

	// DigitIndices holds the cells currently claimed by the countdown text.
	DigitIndices map[int]struct{}

	// Exclusion is the region ambient activity avoids. Nil means none.
	Exclusion *Box

	dirtyMark   []bool
	dirtyList   []int
	fullRepaint bool
}

// NewGrid allocates a grid with explicit geometry. Most callers want
// NewGridForViewport instead.
func NewGrid(cols, rows, squareSize, gap int) *Grid {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	if squareSize <= 0 {
		squareSize = 1
	}
	if gap < 0 {
		gap = 0
	}
	total := cols * rows
	pitch := squareSize + gap
	return &Grid{
		Cols:         cols,
		Rows:         rows,
		SquareSize:   squareSize,
		Gap:          gap,
		Width:        cols*pitch - gap,
		Height:       rows*pitch - gap,
		Cells:        make([]Cell, total),
		DigitIndices: map[int]struct{}{},
		dirtyMark:    make([]bool, total),
		fullRepaint:  true,
	}
}

// GridConfig controls how viewport pixels map to grid geometry.
type GridConfig struct {
	BaseSquareSize int
	MinSquareSize  int
	MaxSquareSize  int
	ReferenceWidth int
	GapRatio       float64
	MaxCells       int

	// MinTextCols and MinTextRows keep room for the shortest countdown
	// ("00:00") plus padding.
	MinTextCols int
	MinTextRows int
}

// DefaultGridConfig returns the standard sizing rule.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		BaseSquareSize: 12,
		MinSquareSize:  6,
		MaxSquareSize:  16,
		ReferenceWidth: 1920,
		GapRatio:       0.25,
		MaxCells:       20000,
		MinTextCols:    33,
		MinTextRows:    11,
	}
}

// NewGridForViewport sizes a grid for a viewport using the default config.
func NewGridForViewport(width, height int) *Grid {
	return NewGridWithConfig(width, height, DefaultGridConfig())
}

// NewGridWithConfig computes columns, rows, square size and gap for the given
// viewport. The square size scales with the viewport width relative to
// cfg.ReferenceWidth, clamped to [MinSquareSize, MaxSquareSize]. When the
// resulting cell count exceeds cfg.MaxCells both dimensions shrink by the
// square root of the overage ratio so the aspect ratio is preserved.
func NewGridWithConfig(width, height int, cfg GridConfig) *Grid {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	ref := cfg.ReferenceWidth
	if ref <= 0 {
		ref = 1920
	}
	scale := float64(width) / float64(ref)
	square := int(math.Round(float64(cfg.BaseSquareSize) * scale))
	if square < cfg.MinSquareSize {
		square = cfg.MinSquareSize
	}
	if cfg.MaxSquareSize > 0 && square > cfg.MaxSquareSize {
		square = cfg.MaxSquareSize
	}
	if square < 1 {
		square = 1
	}
	gap := gapFor(square, cfg.GapRatio)

	cols := (width + gap) / (square + gap)
	rows := (height + gap) / (square + gap)

	// Small viewports shrink the squares until the minimum text fits.
	for (cols < cfg.MinTextCols || rows < cfg.MinTextRows) && square > 2 {
		square--
		gap = gapFor(square, cfg.GapRatio)
		cols = (width + gap) / (square + gap)
		rows = (height + gap) / (square + gap)
	}
	if cols < cfg.MinTextCols {
		cols = cfg.MinTextCols
	}
	if rows < cfg.MinTextRows {
		rows = cfg.MinTextRows
	}

	if cfg.MaxCells > 0 && cols*rows > cfg.MaxCells {
		ratio := math.Sqrt(float64(cfg.MaxCells) / float64(cols*rows))
		cols = int(math.Floor(float64(cols) * ratio))
		rows = int(math.Floor(float64(rows) * ratio))
		if cols < 1 {
			cols = 1
		}
		if rows < 1 {
			rows = 1
		}
		// Grow the squares back so the smaller grid still fills the viewport.
		pitch := min((width+gap)/cols, (height+gap)/rows)
		if pitch-gap > square {
			square = pitch - gap
		}
	}

	return NewGrid(cols, rows, square, gap)
}

func gapFor(square int, ratio float64) int {
	gap := int(math.Round(float64(square) * ratio))
	if gap < 1 {
		gap = 1
	}
	return gap
}

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.Cells) }

// Index returns the linear slice index for (col, row).
func (g *Grid) Index(col, row int) int { return row*g.Cols + col }

// Coords converts a linear index into (col, row).
func (g *Grid) Coords(idx int) (int, int) { return idx % g.Cols, idx / g.Cols }

// InBounds reports whether (col, row) lies on the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

// Cell returns a pointer to the cell at idx or nil when idx is out of range.
func (g *Grid) Cell(idx int) *Cell {
	if idx < 0 || idx >= len(g.Cells) {
		return nil
	}
	return &g.Cells[idx]
}

// Pitch is the distance in pixels between the origins of adjacent cells.
func (g *Grid) Pitch() int { return g.SquareSize + g.Gap }

// CellOrigin returns the top-left pixel of the cell at idx.
func (g *Grid) CellOrigin(idx int) (int, int) {
	col, row := g.Coords(idx)
	return col * g.Pitch(), row * g.Pitch()
}

// MarkDirty queues idx for the next incremental repaint. Out-of-range
// indices are ignored.
func (g *Grid) MarkDirty(idx int) {
	if idx < 0 || idx >= len(g.dirtyMark) || g.dirtyMark[idx] {
		return
	}
	g.dirtyMark[idx] = true
	g.dirtyList = append(g.dirtyList, idx)
}

// MarkFullRepaint forces the next render to redraw every cell.
func (g *Grid) MarkFullRepaint() { g.fullRepaint = true }

// NeedsFullRepaint reports whether a full repaint is pending.
func (g *Grid) NeedsFullRepaint() bool { return g.fullRepaint }

// Dirty returns the dirty indices in insertion order. The slice is owned by
// the grid and only valid until the next mutation.
func (g *Grid) Dirty() []int { return g.dirtyList }

// DirtyCount returns the number of queued dirty cells.
func (g *Grid) DirtyCount() int { return len(g.dirtyList) }

// IsDirty reports whether idx is queued for repaint.
func (g *Grid) IsDirty(idx int) bool {
	return idx >= 0 && idx < len(g.dirtyMark) && g.dirtyMark[idx]
}

// ClearDirty empties the dirty set and the full repaint flag after a render
// pass.
func (g *Grid) ClearDirty() {
	for _, idx := range g.dirtyList {
		g.dirtyMark[idx] = false
	}
	g.dirtyList = g.dirtyList[:0]
	g.fullRepaint = false
}

// ResetCells restores every cell to its defaults and forces a full repaint.
func (g *Grid) ResetCells() {
	for i := range g.Cells {
		g.Cells[i].reset()
	}
	clear(g.DigitIndices)
	g.Exclusion = nil
	g.MarkFullRepaint()
}

// SetExclusion replaces the exclusion box. A nil box disables it.
func (g *Grid) SetExclusion(b *Box) {
	if b == nil {
		g.Exclusion = nil
		return
	}
	clipped := b.Clip(g.Cols, g.Rows)
	g.Exclusion = &clipped
}

// Excluded reports whether idx lies inside the exclusion box.
func (g *Grid) Excluded(idx int) bool {
	if g.Exclusion == nil {
		return false
	}
	col, row := g.Coords(idx)
	return g.Exclusion.Contains(col, row)
}

// AmbientEligible reports whether the cell at idx may host ambient activity.
func (g *Grid) AmbientEligible(idx int) bool {
	c := g.Cell(idx)
	if c == nil || c.Claimed() {
		return false
	}
	return !g.Excluded(idx)
}

// CellAt maps a pixel position to the nearest cell index, or -1 when the
// point is outside the grid.
func (g *Grid) CellAt(x, y float64) int {
	pitch := float64(g.Pitch())
	if pitch <= 0 || x < 0 || y < 0 {
		return -1
	}
	col := int(x / pitch)
	row := int(y / pitch)
	if !g.InBounds(col, row) {
		return -1
	}
	return g.Index(col, row)
}
