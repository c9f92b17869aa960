package capability

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/conmenu/internal/renderer/core"
	"github.com/dshills/conmenu/internal/surface"
)

// Styles pairs the normal and highlighted look of a menu line.
type Styles struct {
	Normal    core.Style
	Highlight core.Style
}

// Painter draws onto a surface. Text is painted by visible glyphs;
// escape sequences embedded in it are removed first.
type Painter interface {
	// Mode reports which capability this painter implements.
	Mode() Mode

	// Clear blanks the surface with the default style and homes the cursor.
	Clear(s *surface.Surface)

	// DrawAt paints text at x, y in style.
	DrawAt(s *surface.Surface, x, y int, text string, style core.Style)

	// DrawHighlighted paints text at x, y using the highlight style when
	// selected and the normal style otherwise.
	DrawHighlighted(s *surface.Surface, x, y int, text string, selected bool, styles Styles)

	// SetCursorVisible sets whether the cursor is shown with the surface.
	SetCursorVisible(s *surface.Surface, visible bool)
}

// ForMode returns the painter for m.
func ForMode(m Mode) Painter {
	if m == ModeModern {
		return Modern{}
	}
	return Legacy{}
}

func pick(selected bool, styles Styles) core.Style {
	if selected {
		return styles.Highlight
	}
	return styles.Normal
}

// Modern paints with one escape-sequence write per call.
type Modern struct{}

func (Modern) Mode() Mode { return ModeModern }

func (Modern) Clear(s *surface.Surface) {
	s.Write(clearScreen)
}

func (Modern) DrawAt(s *surface.Surface, x, y int, text string, style core.Style) {
	s.Write(cursorPos(x, y) + SGR(style) + core.StripEscapes(text) + ansi.ResetStyle)
}

func (m Modern) DrawHighlighted(s *surface.Surface, x, y int, text string, selected bool, styles Styles) {
	m.DrawAt(s, x, y, text, pick(selected, styles))
}

func (Modern) SetCursorVisible(s *surface.Surface, visible bool) {
	if visible {
		s.Write(ansi.ShowCursor)
	} else {
		s.Write(ansi.HideCursor)
	}
}

// Legacy paints with separate positioning, attribute and text calls.
type Legacy struct{}

func (Legacy) Mode() Mode { return ModeLegacy }

func (Legacy) Clear(s *surface.Surface) {
	s.SetAttribute(core.DefaultStyle())
	s.FillRunes(' ')
	s.FillAttributes(core.DefaultStyle())
	s.SetCursorPosition(0, 0)
}

func (Legacy) DrawAt(s *surface.Surface, x, y int, text string, style core.Style) {
	s.SetCursorPosition(x, y)
	s.SetAttribute(style)
	s.WriteText(core.StripEscapes(text))
	s.SetAttribute(core.DefaultStyle())
}

func (l Legacy) DrawHighlighted(s *surface.Surface, x, y int, text string, selected bool, styles Styles) {
	l.DrawAt(s, x, y, text, pick(selected, styles))
}

func (Legacy) SetCursorVisible(s *surface.Surface, visible bool) {
	s.SetCursorInfo(visible)
}
