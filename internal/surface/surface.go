// Package surface provides off-screen character-cell render targets.
//
// A Surface is written either through Write, which understands the subset
// of VT escape sequences menus emit, or through the discrete primitives
// (SetCursorPosition, SetAttribute, WriteText, Fill*) used by terminals
// without escape-sequence support. Completed surfaces are copied to a
// backend with Present.
package surface

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/conmenu/internal/renderer/backend"
	"github.com/dshills/conmenu/internal/renderer/core"
)

// ErrInvalidSize is returned when a surface dimension is negative.
var ErrInvalidSize = errors.New("invalid surface size")

// Surface is a width x height grid of cells with a write cursor and a
// current attribute.
type Surface struct {
	width, height int
	cells         []core.Cell

	cursorX, cursorY int
	attr             core.Style
	cursorVisible    bool

	// parser state carried between Write calls
	vt vtState
}

// New allocates a surface of the given size filled with empty cells.
func New(width, height int) (*Surface, error) {
	s := &Surface{attr: core.DefaultStyle()}
	if err := s.Resize(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Size returns the surface dimensions.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Resize reallocates the grid. Content is cleared and the cursor homed.
func (s *Surface) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	s.width = width
	s.height = height
	s.cells = make([]core.Cell, width*height)
	empty := core.EmptyCell()
	for i := range s.cells {
		s.cells[i] = empty
	}
	s.cursorX, s.cursorY = 0, 0
	s.vt = vtState{}
	return nil
}

func (s *Surface) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Cell returns the cell at x, y, or an empty cell outside the grid.
func (s *Surface) Cell(x, y int) core.Cell {
	if !s.inBounds(x, y) {
		return core.EmptyCell()
	}
	return s.cells[y*s.width+x]
}

// Row returns the glyphs of row y as a string. Continuation cells of wide
// runes are omitted.
func (s *Surface) Row(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	var b strings.Builder
	for _, c := range s.cells[y*s.width : (y+1)*s.width] {
		if c.IsContinuation() {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// Equal reports whether two surfaces hold the same size and cells.
func (s *Surface) Equal(other *Surface) bool {
	if other == nil || s.width != other.width || s.height != other.height {
		return false
	}
	for i := range s.cells {
		if !s.cells[i].Equals(other.cells[i]) {
			return false
		}
	}
	return true
}

// Cursor returns the write cursor position.
func (s *Surface) Cursor() (x, y int) {
	return s.cursorX, s.cursorY
}

// CursorVisible reports whether the terminal cursor is shown while this
// surface is presented.
func (s *Surface) CursorVisible() bool {
	return s.cursorVisible
}

// Attribute returns the current write attribute.
func (s *Surface) Attribute() core.Style {
	return s.attr
}

// SetCursorPosition moves the write cursor, clamped to the grid.
func (s *Surface) SetCursorPosition(x, y int) {
	s.cursorX = clamp(x, 0, max(s.width-1, 0))
	s.cursorY = clamp(y, 0, max(s.height-1, 0))
}

// SetAttribute sets the style applied to subsequent writes.
func (s *Surface) SetAttribute(style core.Style) {
	s.attr = style
}

// SetCursorInfo sets cursor visibility.
func (s *Surface) SetCursorInfo(visible bool) {
	s.cursorVisible = visible
}

// WriteText writes text at the cursor with the current attribute.
// Escape sequences are not interpreted; control characters other than
// newline and carriage return are dropped.
func (s *Surface) WriteText(text string) {
	for _, r := range text {
		s.putRune(r)
	}
}

// FillRunes sets the rune of every cell, keeping styles.
func (s *Surface) FillRunes(r rune) {
	width := core.RuneWidth(r)
	if width != 1 {
		r, width = ' ', 1
	}
	for i := range s.cells {
		s.cells[i].Rune = r
		s.cells[i].Width = width
	}
}

// FillAttributes sets the style of every cell, keeping runes.
func (s *Surface) FillAttributes(style core.Style) {
	for i := range s.cells {
		s.cells[i].Style = style
	}
}

// putRune writes one rune at the cursor and advances it.
// Writes past the right edge are clipped.
func (s *Surface) putRune(r rune) {
	switch r {
	case '\n':
		s.cursorX = 0
		s.cursorY++
		return
	case '\r':
		s.cursorX = 0
		return
	}

	w := core.RuneWidth(r)
	if w == 0 {
		return
	}

	x, y := s.cursorX, s.cursorY
	s.cursorX += w
	if y < 0 || y >= s.height || x < 0 || x+w > s.width {
		return
	}

	s.breakWide(x, y)
	if w == 2 {
		s.breakWide(x+1, y)
	}

	row := y * s.width
	s.cells[row+x] = core.Cell{Rune: r, Width: w, Style: s.attr}
	if w == 2 {
		s.cells[row+x+1] = core.ContinuationCell(s.attr)
	}
}

// breakWide blanks the other half of a wide rune about to be partially
// overwritten at x, y.
func (s *Surface) breakWide(x, y int) {
	row := y * s.width
	c := s.cells[row+x]
	switch {
	case c.IsContinuation() && x > 0:
		prev := &s.cells[row+x-1]
		*prev = core.Cell{Rune: ' ', Width: 1, Style: prev.Style}
	case c.Width == 2 && x+1 < s.width:
		next := &s.cells[row+x+1]
		*next = core.Cell{Rune: ' ', Width: 1, Style: next.Style}
	}
}

// erase blanks cells in [from, to) of the flattened grid.
func (s *Surface) erase(from, to int) {
	from = clamp(from, 0, len(s.cells))
	to = clamp(to, 0, len(s.cells))
	blank := core.Cell{Rune: ' ', Width: 1, Style: core.DefaultStyle()}
	for i := from; i < to; i++ {
		s.cells[i] = blank
	}
}

// Present copies the surface to b and shows it.
func (s *Surface) Present(b backend.Backend) {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := s.cells[y*s.width+x]
			if c.IsContinuation() {
				continue
			}
			b.SetCell(x, y, c)
		}
	}
	if s.cursorVisible {
		b.ShowCursor(s.cursorX, s.cursorY)
	} else {
		b.HideCursor()
	}
	b.Show()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
