// Package textlayout renders countdown digits and celebration messages into
// grid cells using a fixed 5×7 bitmap font.
package textlayout

import (
	"sort"
	"strings"
	"time"

	"countdown-grid/internal/core"
)

// Spacing and padding, in cells.
const (
	CharSpacing    = 1
	LineSpacing    = 3
	DigitPadding   = 2
	MessagePadding = 3
)

// Result describes the cells a message occupies.
type Result struct {
	CellIndices []int
	// Box is the padded bounding box; ok is false for empty text.
	Box core.Box
	OK  bool
}

// Engine lays text out on a grid. It remembers the last digit string so
// repeated updates with the same text are free.
type Engine struct {
	digitKey  string
	hasDigits bool
	digitBox  core.Box
	digitOK   bool

	message []int
}

// New returns an engine with no text laid out.
func New() *Engine { return &Engine{} }

// LineWidth returns the width in cells of s rendered on one line.
func LineWidth(s string) int {
	n := len([]rune(s))
	if n == 0 {
		return 0
	}
	return n*GlyphWidth + (n-1)*CharSpacing
}

// BlockHeight returns the height in cells of n stacked lines.
func BlockHeight(n int) int {
	if n <= 0 {
		return 0
	}
	return n*GlyphHeight + (n-1)*LineSpacing
}

// LayoutDigits replaces the digit cells on g with lines. Cells that stay lit
// are untouched; cells that go dark are cleared and marked dirty; new cells
// are marked dirty and start pulsing at now. It reports whether anything
// changed.
func (e *Engine) LayoutDigits(g *core.Grid, lines []string, now time.Time) bool {
	key := strings.Join(lines, "\n")
	if e.hasDigits && key == e.digitKey {
		return false
	}
	e.digitKey = key
	e.hasDigits = true

	next := map[int]struct{}{}
	for _, idx := range cellsFor(g, lines) {
		next[idx] = struct{}{}
	}

	for idx := range g.DigitIndices {
		if _, keep := next[idx]; keep {
			continue
		}
		if c := g.Cell(idx); c != nil {
			c.IsDigit = false
			c.PulseStart = time.Time{}
			c.Intensity = 0
		}
		g.MarkDirty(idx)
	}
	for idx := range next {
		if _, had := g.DigitIndices[idx]; had {
			continue
		}
		c := g.Cell(idx)
		if c == nil {
			continue
		}
		c.IsDigit = true
		c.PulseStart = now
		g.MarkDirty(idx)
	}
	g.DigitIndices = next

	indices := make([]int, 0, len(next))
	for idx := range next {
		indices = append(indices, idx)
	}
	box, ok := core.BoxFromIndices(g, indices)
	if ok {
		box = box.Pad(DigitPadding).Clip(g.Cols, g.Rows)
	}
	e.digitBox, e.digitOK = box, ok
	return true
}

// DigitBox returns the padded bounding box of the current digits.
func (e *Engine) DigitBox() (core.Box, bool) { return e.digitBox, e.digitOK }

// ClearDigits removes all digit cells from g and forgets the last string.
func (e *Engine) ClearDigits(g *core.Grid) {
	for idx := range g.DigitIndices {
		if c := g.Cell(idx); c != nil {
			c.IsDigit = false
			c.PulseStart = time.Time{}
			c.Intensity = 0
		}
		g.MarkDirty(idx)
	}
	g.DigitIndices = map[int]struct{}{}
	e.hasDigits = false
	e.digitKey = ""
	e.digitOK = false
}

// Forget drops cached state after the grid was recreated.
func (e *Engine) Forget() {
	e.hasDigits = false
	e.digitKey = ""
	e.digitOK = false
	e.message = nil
}

// LayoutMessage sanitizes text, wraps it to the grid width and flags the
// resulting cells as message cells. Pulses are not started here; the caller
// stamps them when the cells become visible.
func (e *Engine) LayoutMessage(g *core.Grid, text string) Result {
	e.ClearMessage(g)

	avail := g.Cols - 2*MessagePadding
	if avail < GlyphWidth {
		avail = g.Cols
	}
	lines := Wrap(Sanitize(text), avail)
	indices := cellsFor(g, lines)
	for _, idx := range indices {
		c := g.Cell(idx)
		if c == nil {
			continue
		}
		c.IsMessage = true
		g.MarkDirty(idx)
	}
	e.message = indices

	box, ok := core.BoxFromIndices(g, indices)
	if ok {
		box = box.Pad(MessagePadding).Clip(g.Cols, g.Rows)
	}
	return Result{CellIndices: indices, Box: box, OK: ok}
}

// MessageIndices returns the cells of the current message.
func (e *Engine) MessageIndices() []int { return e.message }

// ClearMessage removes the current message from g.
func (e *Engine) ClearMessage(g *core.Grid) {
	for _, idx := range e.message {
		if c := g.Cell(idx); c != nil {
			c.IsMessage = false
			c.PulseStart = time.Time{}
			c.Intensity = 0
		}
		g.MarkDirty(idx)
	}
	e.message = nil
}

// Sanitize upper-cases text and drops every rune the message font lacks.
func Sanitize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(text) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune(" .,!?'-", r):
			b.WriteRune(r)
		case r == '\t' || r == '\n':
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// Wrap greedily packs words into lines no wider than avail cells. Words
// wider than a line are split.
func Wrap(text string, avail int) []string {
	maxRunes := (avail + CharSpacing) / (GlyphWidth + CharSpacing)
	if maxRunes < 1 {
		maxRunes = 1
	}
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		for len([]rune(word)) > maxRunes {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			r := []rune(word)
			lines = append(lines, string(r[:maxRunes]))
			word = string(r[maxRunes:])
		}
		if current == "" {
			current = word
			continue
		}
		if candidate := current + " " + word; LineWidth(candidate) <= avail {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// cellsFor returns the sorted, de-duplicated cell indices lit by lines when
// the block is centred on g. Each line is centred on its own.
func cellsFor(g *core.Grid, lines []string) []int {
	if len(lines) == 0 {
		return nil
	}
	top := (g.Rows - BlockHeight(len(lines))) / 2
	seen := map[int]struct{}{}
	var out []int
	for li, line := range lines {
		rowBase := top + li*(GlyphHeight+LineSpacing)
		left := (g.Cols - LineWidth(line)) / 2
		for ci, r := range []rune(line) {
			colBase := left + ci*(GlyphWidth+CharSpacing)
			for _, p := range lit(r) {
				col, row := colBase+p[0], rowBase+p[1]
				if !g.InBounds(col, row) {
					continue
				}
				idx := g.Index(col, row)
				if _, dup := seen[idx]; dup {
					continue
				}
				seen[idx] = struct{}{}
				out = append(out, idx)
			}
		}
	}
	sort.Ints(out)
	return out
}
