package core

import "fmt"

// Box is an inclusive rectangle in grid coordinates.
type Box struct {
	MinCol, MaxCol int
	MinRow, MaxRow int
}

// Contains reports whether (col, row) lies inside the box.
func (b Box) Contains(col, row int) bool {
	return col >= b.MinCol && col <= b.MaxCol && row >= b.MinRow && row <= b.MaxRow
}

// Empty reports whether the box covers no cells.
func (b Box) Empty() bool {
	return b.MaxCol < b.MinCol || b.MaxRow < b.MinRow
}

// Pad grows the box by n cells on every side.
func (b Box) Pad(n int) Box {
	return Box{MinCol: b.MinCol - n, MaxCol: b.MaxCol + n, MinRow: b.MinRow - n, MaxRow: b.MaxRow + n}
}

// Clip restricts the box to a cols×rows grid.
func (b Box) Clip(cols, rows int) Box {
	return Box{
		MinCol: max(b.MinCol, 0),
		MaxCol: min(b.MaxCol, cols-1),
		MinRow: max(b.MinRow, 0),
		MaxRow: min(b.MaxRow, rows-1),
	}
}

// Union returns the smallest box covering both b and o. Empty boxes are
// ignored.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Box{
		MinCol: min(b.MinCol, o.MinCol),
		MaxCol: max(b.MaxCol, o.MaxCol),
		MinRow: min(b.MinRow, o.MinRow),
		MaxRow: max(b.MaxRow, o.MaxRow),
	}
}

// String formats the four bounds for diagnostics.
func (b Box) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", b.MinCol, b.MaxCol, b.MinRow, b.MaxRow)
}

// FormatBox formats an optional box for diagnostics.
func FormatBox(b *Box) string {
	if b == nil {
		return "none"
	}
	return b.String()
}

// BoxFromIndices computes the bounding box of the given cell indices. ok is
// false when indices is empty.
func BoxFromIndices(g *Grid, indices []int) (Box, bool) {
	if len(indices) == 0 {
		return Box{MinCol: 0, MaxCol: -1, MinRow: 0, MaxRow: -1}, false
	}
	col, row := g.Coords(indices[0])
	b := Box{MinCol: col, MaxCol: col, MinRow: row, MaxRow: row}
	for _, idx := range indices[1:] {
		col, row = g.Coords(idx)
		b.MinCol = min(b.MinCol, col)
		b.MaxCol = max(b.MaxCol, col)
		b.MinRow = min(b.MinRow, row)
		b.MaxRow = max(b.MaxRow, row)
	}
	return b, true
}

// BoxFromPixels converts a pixel rectangle [x0,x1)×[y0,y1) into a grid box
// padded by margin cells.
func BoxFromPixels(g *Grid, x0, y0, x1, y1, margin int) Box {
	pitch := g.Pitch()
	if pitch <= 0 {
		pitch = 1
	}
	b := Box{
		MinCol: x0 / pitch,
		MaxCol: (x1 - 1) / pitch,
		MinRow: y0 / pitch,
		MaxRow: (y1 - 1) / pitch,
	}
	return b.Pad(margin).Clip(g.Cols, g.Rows)
}
