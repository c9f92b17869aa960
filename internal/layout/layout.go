// Package layout computes menu bounding boxes and their placement within
// the viewport.
//
// A menu box is laid out top to bottom as:
//
//	header row, blank row     (header on)
//	padding row
//	one row per item          (indented two columns)
//	padding row
//	footer row, blank row     (footer on)
package layout

import (
	"math"
	"strings"

	"github.com/dshills/conmenu/internal/renderer/core"
)

const (
	// horizontalPadding is the extra width around the widest line.
	horizontalPadding = 4
	// itemIndent is the column offset of items inside the box.
	itemIndent = 2
)

// Size is a width and height in cells.
type Size struct {
	Width, Height int
}

// Fits reports whether s can hold box on both axes.
func (s Size) Fits(box Size) bool {
	return s.Width >= box.Width && s.Height >= box.Height
}

// Point is a cell position.
type Point struct {
	X, Y int
}

// Center is a normalized anchor. Each axis spans [-1, 1]: +1 is the right
// or top edge, -1 the left or bottom edge and 0 the middle.
type Center struct {
	X, Y float64
}

// ClampCenter clamps both axes into [-1, 1]. NaN becomes 0.
func ClampCenter(c Center) Center {
	return Center{X: clampUnit(c.X), Y: clampUnit(c.Y)}
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}

// Content is the text and policy a menu box is sized from.
type Content struct {
	Items       []string
	Header      string
	Footer      string
	HeaderOn    bool
	FooterOn    bool
	DoubleWidth bool
}

// Bounds returns the minimum box for c. Width counts visible glyph cells,
// so embedded escape sequences and multi-byte encodings do not inflate it.
func Bounds(c Content) Size {
	widest := 0
	for _, item := range c.Items {
		widest = max(widest, core.StringWidth(item))
	}
	if c.HeaderOn {
		widest = max(widest, core.StringWidth(c.Header))
	}
	if c.FooterOn {
		widest = max(widest, core.StringWidth(c.Footer))
	}

	width := widest + horizontalPadding
	if c.DoubleWidth {
		width *= 2
	}

	height := len(c.Items) + 2
	if c.HeaderOn {
		height += 2
	}
	if c.FooterOn {
		height += 2
	}
	return Size{Width: width, Height: height}
}

// Start returns the top-left corner of box anchored at center within
// viewport. The box is kept inside the viewport; on an axis where the
// viewport is too small it is centered and floored at zero.
func Start(box Size, center Center, viewport Size) Point {
	center = ClampCenter(center)
	return Point{
		X: startAxis(box.Width, viewport.Width, (center.X+1)/2),
		Y: startAxis(box.Height, viewport.Height, (1-center.Y)/2),
	}
}

// startAxis places a span of length box inside extent with its middle at
// fraction of the extent.
func startAxis(box, extent int, fraction float64) int {
	if extent < box {
		return max((extent-box)/2, 0)
	}
	anchor := float64(extent) * fraction
	pos := int(math.Floor(anchor - float64(box)/2))
	return min(max(pos, 0), extent-box)
}

// FormatHeader centers text within exactly width cells.
func FormatHeader(text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = fit(text, width)
	w := core.StringWidth(text)
	left := (width - w) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-w-left)
}

// FormatFooter left-aligns text after one space, padded to exactly width
// cells.
func FormatFooter(text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = " " + fit(text, width-1)
	return text + strings.Repeat(" ", width-core.StringWidth(text))
}

// fit strips escapes and truncates text to at most width cells.
func fit(text string, width int) string {
	text = core.StripEscapes(text)
	if core.StringWidth(text) <= width {
		return text
	}
	return core.Truncate(text, max(width, 0))
}

// Frame holds the absolute rows and columns of a placed menu box.
type Frame struct {
	Origin Point
	Box    Size

	// HeaderRow and FooterRow are -1 when the section is off.
	HeaderRow int
	FooterRow int

	FirstItemRow int
	ItemColumn   int
	ItemCount    int
}

// Place lays c out inside viewport anchored at center.
func Place(c Content, center Center, viewport Size) Frame {
	box := Bounds(c)
	origin := Start(box, center, viewport)

	f := Frame{
		Origin:     origin,
		Box:        box,
		HeaderRow:  -1,
		FooterRow:  -1,
		ItemColumn: origin.X + itemIndent,
		ItemCount:  len(c.Items),
	}

	row := origin.Y
	if c.HeaderOn {
		f.HeaderRow = row
		row += 2
	}
	row++ // padding
	f.FirstItemRow = row
	row += len(c.Items)
	row++ // padding
	if c.FooterOn {
		f.FooterRow = row
	}
	return f
}

// ItemRow returns the row item i is drawn on.
func (f Frame) ItemRow(i int) int {
	return f.FirstItemRow + i
}
