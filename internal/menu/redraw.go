package menu

import (
	"github.com/dshills/conmenu/internal/capability"
	"github.com/dshills/conmenu/internal/layout"
	"github.com/dshills/conmenu/internal/renderer/core"
	"github.com/dshills/conmenu/internal/surface"
)

// painterFor returns the painter a menu draws with.
func (c *Context) painterFor(m *Menu) capability.Painter {
	if m.settings.ForceLegacy {
		return capability.Legacy{}
	}
	return c.painter
}

// redraw repaints m per its redraw flags. It reports whether anything
// was drawn.
func (c *Context) redraw(m *Menu, viewport layout.Size) bool {
	switch {
	case m.fullRedraw:
		c.fullRedraw(m, viewport)
		return true
	case m.needRedraw:
		c.dirtyRedraw(m)
		return true
	default:
		return false
	}
}

// fullRedraw draws the whole menu into the back surface, swaps and
// presents it.
func (c *Context) fullRedraw(m *Menu, viewport layout.Size) {
	c.renderFrame(m, m.surfaces.Back(), viewport)
	m.surfaces.Swap()
	m.surfaces.Active().Present(c.backend)

	m.fullRedraw = false
	m.needRedraw = false
	if m.selected != Disabled {
		m.lastValid = m.selected
	}
}

// renderFrame clears s and draws header, items and footer, recording
// item hit boxes.
func (c *Context) renderFrame(m *Menu, s *surface.Surface, viewport layout.Size) {
	p := c.painterFor(m)
	p.Clear(s)
	p.SetCursorVisible(s, false)

	f := layout.Place(m.content(), m.settings.Center, viewport)
	m.frame = f

	if f.HeaderRow >= 0 {
		p.DrawAt(s, f.Origin.X, f.HeaderRow, m.headerLine, m.color.Header)
	}

	styles := m.color.optionStyles()
	for i, it := range m.items {
		row := f.ItemRow(i)
		p.DrawHighlighted(s, f.ItemColumn, row, it.text, i == m.selected, styles)
		it.bounds = core.RectFromSize(row, f.ItemColumn, 1, it.width)
	}

	if f.FooterRow >= 0 {
		p.DrawAt(s, f.Origin.X, f.FooterRow, m.footerLine, m.color.Footer)
	}
}

// dirtyRedraw repaints the previously and currently selected items on the
// active surface and presents it without a swap.
func (c *Context) dirtyRedraw(m *Menu) {
	p := c.painterFor(m)
	s := m.surfaces.Active()
	styles := m.color.optionStyles()

	if m.validSelection(m.lastValid) && m.lastValid != m.selected {
		it := m.items[m.lastValid]
		p.DrawHighlighted(s, it.bounds.Left, it.bounds.Top, it.text, false, styles)
	}
	if m.validSelection(m.selected) {
		it := m.items[m.selected]
		p.DrawHighlighted(s, it.bounds.Left, it.bounds.Top, it.text, true, styles)
		m.lastValid = m.selected
	}
	s.Present(c.backend)
	m.needRedraw = false
}
