package menu

import (
	"github.com/dshills/conmenu/internal/capability"
	"github.com/dshills/conmenu/internal/layout"
	"github.com/dshills/conmenu/internal/renderer/core"
)

// Settings is a menu's behavior snapshot. Menus copy settings by value.
type Settings struct {
	// Mouse enables hover selection and click activation.
	Mouse bool
	// Header and Footer show the header and footer lines.
	Header bool
	Footer bool
	// DoubleWidth doubles the box width.
	DoubleWidth bool
	// ForceLegacy paints this menu with the legacy painter regardless of
	// the detected capability mode.
	ForceLegacy bool
	// Center anchors the box in the viewport.
	Center layout.Center
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Mouse:  false,
		Header: true,
		Footer: true,
	}
}

// Color is a menu's style snapshot.
type Color struct {
	Header    core.Style
	Footer    core.Style
	Option    core.Style
	Highlight core.Style
	Error     core.Style
}

// DefaultColor returns the built-in styles.
func DefaultColor() Color {
	return Color{
		Header:    core.NewStyle(core.ColorWhite, core.ColorBlue),
		Footer:    core.NewStyle(core.ColorBlack, core.ColorCyan),
		Option:    core.DefaultStyle(),
		Highlight: core.NewStyle(core.ColorBlack, core.ColorWhite),
		Error:     core.NewStyle(core.ColorRed, core.ColorDefault).Bold(),
	}
}

// optionStyles returns the item styles for painters.
func (c Color) optionStyles() capability.Styles {
	return capability.Styles{Normal: c.Option, Highlight: c.Highlight}
}
