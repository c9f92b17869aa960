package capability

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/conmenu/internal/renderer/core"
)

// clearScreen resets the pen, erases the screen and homes the cursor.
const clearScreen = ansi.ResetStyle + ansi.EraseEntireScreen + ansi.CursorHomePosition

// cursorPos returns a CUP sequence for the 0-indexed cell x, y.
func cursorPos(x, y int) string {
	return ansi.CursorPosition(x+1, y+1)
}

// ansiColor maps c to the narrowest x/ansi color that encodes it. It
// returns nil for the default color.
func ansiColor(c core.Color) ansi.Color {
	switch {
	case c.IsDefault():
		return nil
	case c.Indexed && c.R < 16:
		return ansi.BasicColor(c.R)
	case c.Indexed:
		return ansi.IndexedColor(c.R)
	default:
		return ansi.RGBColor{R: c.R, G: c.G, B: c.B}
	}
}

// SGR returns the escape sequence that applies style from a reset state.
func SGR(style core.Style) string {
	s := ansi.Style{}.Reset()

	a := style.Attributes
	if a.Has(core.AttrBold) {
		s = s.Bold()
	}
	if a.Has(core.AttrDim) {
		s = s.Faint()
	}
	if a.Has(core.AttrItalic) {
		s = s.Italic(true)
	}
	if a.Has(core.AttrUnderline) {
		s = s.Underline(true)
	}
	if a.Has(core.AttrBlink) {
		s = s.Blink(true)
	}
	if a.Has(core.AttrReverse) {
		s = s.Reverse(true)
	}
	if a.Has(core.AttrStrikethrough) {
		s = s.Strikethrough(true)
	}

	if fg := ansiColor(style.Foreground); fg != nil {
		s = s.ForegroundColor(fg)
	}
	if bg := ansiColor(style.Background); bg != nil {
		s = s.BackgroundColor(bg)
	}
	return s.String()
}
