// Package menu implements navigable, double-buffered terminal menus.
//
// A Context owns the display backend, the menu registry and the default
// settings and colors. Menus are created, filled with items and entered
// with EnableMenu, which runs the event loop until the menu is destroyed
// or the display closes. Item callbacks run synchronously on the loop and
// may create, enable or destroy any menu, including their own.
package menu

import (
	"github.com/google/uuid"

	"github.com/dshills/conmenu/internal/layout"
	"github.com/dshills/conmenu/internal/renderer/core"
	"github.com/dshills/conmenu/internal/surface"
)

// Disabled is the selected index when no item is selected.
const Disabled = -1

// Default texts.
const (
	DefaultHeader   = "MENU"
	DefaultFooter   = "Use arrows to navigate, Enter to select"
	DefaultItemText = "Unnamed Option"
)

// Callback is invoked when an item is activated.
type Callback func(m *Menu, data any)

// Item is one selectable entry. An item belongs to at most one menu.
type Item struct {
	text     string
	width    int
	bounds   core.ScreenRect
	callback Callback
	data     any
	owner    *Menu
}

// Text returns the display text.
func (it *Item) Text() string { return it.text }

// Width returns the visible glyph width of the text.
func (it *Item) Width() int { return it.width }

// Bounds returns the screen rectangle the item was last drawn in.
func (it *Item) Bounds() core.ScreenRect { return it.bounds }

// Data returns the opaque value passed to the callback.
func (it *Item) Data() any { return it.data }

// HasCallback reports whether activating the item does anything.
func (it *Item) HasCallback() bool { return it.callback != nil }

// Menu is a navigable list of items with its own pair of surfaces.
type Menu struct {
	ctx *Context
	id  uuid.UUID

	items    []*Item
	selected int

	surfaces *surface.Pair
	box      layout.Size
	frame    layout.Frame

	header, footer         string
	headerLine, footerLine string

	settings Settings
	color    Color

	running bool

	fullRedraw bool
	needRedraw bool
	lastValid  int
}

// ID returns the menu's unique identifier.
func (m *Menu) ID() uuid.UUID { return m.id }

// Count returns the number of items.
func (m *Menu) Count() int { return len(m.items) }

// Running reports whether the menu is live in an event loop or is the
// registry fallback.
func (m *Menu) Running() bool { return m.running }

// SelectedIndex returns the selected item index or Disabled.
func (m *Menu) SelectedIndex() int { return m.selected }

// Header returns the header text.
func (m *Menu) Header() string { return m.header }

// Footer returns the footer text.
func (m *Menu) Footer() string { return m.footer }

// HeaderEnabled reports whether the header is shown.
func (m *Menu) HeaderEnabled() bool { return m.settings.Header }

// FooterEnabled reports whether the footer is shown.
func (m *Menu) FooterEnabled() bool { return m.settings.Footer }

// DoubleWidth reports whether the box width is doubled.
func (m *Menu) DoubleWidth() bool { return m.settings.DoubleWidth }

// MouseEnabled reports whether mouse input is honored.
func (m *Menu) MouseEnabled() bool { return m.settings.Mouse }

// Settings returns a copy of the menu's settings.
func (m *Menu) Settings() Settings { return m.settings }

// Color returns a copy of the menu's styles.
func (m *Menu) Color() Color { return m.color }

// Size returns the bounding box.
func (m *Menu) Size() layout.Size { return m.box }

// Frame returns the placement computed by the last full redraw.
func (m *Menu) Frame() layout.Frame { return m.frame }

// Item returns item i, or nil when out of range.
func (m *Menu) Item(i int) *Item {
	if i < 0 || i >= len(m.items) {
		return nil
	}
	return m.items[i]
}

// content returns the layout input for the current state.
func (m *Menu) content() layout.Content {
	texts := make([]string, len(m.items))
	for i, it := range m.items {
		texts[i] = it.text
	}
	return layout.Content{
		Items:       texts,
		Header:      m.header,
		Footer:      m.footer,
		HeaderOn:    m.settings.Header,
		FooterOn:    m.settings.Footer,
		DoubleWidth: m.settings.DoubleWidth,
	}
}

// relayout recomputes the bounding box and the formatted header and
// footer lines, and schedules a full redraw.
func (m *Menu) relayout() {
	m.box = layout.Bounds(m.content())
	m.headerLine = layout.FormatHeader(m.header, m.box.Width)
	m.footerLine = layout.FormatFooter(m.footer, m.box.Width)
	m.fullRedraw = true
}

// validSelection reports whether i names an item.
func (m *Menu) validSelection(i int) bool {
	return i >= 0 && i < len(m.items)
}

// moveSelection moves the selection by delta modulo the item count.
// From Disabled, moving down selects the first item and moving up the last.
func (m *Menu) moveSelection(delta int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	if m.selected == Disabled {
		if delta > 0 {
			m.selected = 0
		} else {
			m.selected = n - 1
		}
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
}

// hitTest returns the item under x, y or Disabled.
func (m *Menu) hitTest(x, y int) int {
	for i, it := range m.items {
		if it.bounds.Contains(x, y) {
			return i
		}
	}
	return Disabled
}

// SetSettings replaces the menu's settings snapshot.
func (m *Menu) SetSettings(s Settings) {
	m.ctx.SetMenuSettings(m, s)
}

// SetColor replaces the menu's styles.
func (m *Menu) SetColor(c Color) {
	m.ctx.SetColorObject(m, c)
}
