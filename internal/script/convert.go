package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/conmenu/internal/layout"
	"github.com/dshills/conmenu/internal/menu"
	"github.com/dshills/conmenu/internal/renderer/core"
)

// settingsToTable converts settings to a Lua table.
func settingsToTable(L *lua.LState, s menu.Settings) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("mouse", lua.LBool(s.Mouse))
	t.RawSetString("header", lua.LBool(s.Header))
	t.RawSetString("footer", lua.LBool(s.Footer))
	t.RawSetString("double_width", lua.LBool(s.DoubleWidth))
	t.RawSetString("force_legacy", lua.LBool(s.ForceLegacy))
	t.RawSetString("center_x", lua.LNumber(s.Center.X))
	t.RawSetString("center_y", lua.LNumber(s.Center.Y))
	return t
}

// settingsFromTable overrides base with the fields present in t.
func settingsFromTable(L *lua.LState, t *lua.LTable, base menu.Settings) menu.Settings {
	s := base
	s.Mouse = boolField(L, t, "mouse", s.Mouse)
	s.Header = boolField(L, t, "header", s.Header)
	s.Footer = boolField(L, t, "footer", s.Footer)
	s.DoubleWidth = boolField(L, t, "double_width", s.DoubleWidth)
	s.ForceLegacy = boolField(L, t, "force_legacy", s.ForceLegacy)
	s.Center = layout.Center{
		X: numberField(L, t, "center_x", s.Center.X),
		Y: numberField(L, t, "center_y", s.Center.Y),
	}
	return s
}

func boolField(L *lua.LState, t *lua.LTable, key string, def bool) bool {
	switch v := t.RawGetString(key).(type) {
	case *lua.LNilType:
		return def
	case lua.LBool:
		return bool(v)
	default:
		L.RaiseError("%s: boolean expected, got %s", key, v.Type())
		return def
	}
}

func numberField(L *lua.LState, t *lua.LTable, key string, def float64) float64 {
	switch v := t.RawGetString(key).(type) {
	case *lua.LNilType:
		return def
	case lua.LNumber:
		return float64(v)
	default:
		L.RaiseError("%s: number expected, got %s", key, v.Type())
		return def
	}
}

// colorFromTable overrides base with the styles present in t, keyed by
// header, footer, option, highlight and error.
func colorFromTable(L *lua.LState, t *lua.LTable, base menu.Color) menu.Color {
	c := base
	for name, style := range map[string]*core.Style{
		"header":    &c.Header,
		"footer":    &c.Footer,
		"option":    &c.Option,
		"highlight": &c.Highlight,
		"error":     &c.Error,
	} {
		switch v := t.RawGetString(name).(type) {
		case *lua.LNilType:
		case *lua.LTable:
			*style = styleFromTable(L, name, v, *style)
		default:
			L.RaiseError("%s: table expected, got %s", name, v.Type())
		}
	}
	return c
}

// styleFromTable reads {fg=, bg=, attrs={...}}.
func styleFromTable(L *lua.LState, name string, t *lua.LTable, base core.Style) core.Style {
	s := base
	if v := t.RawGetString("fg"); v != lua.LNil {
		s.Foreground = colorValue(L, name+".fg", v)
	}
	if v := t.RawGetString("bg"); v != lua.LNil {
		s.Background = colorValue(L, name+".bg", v)
	}
	switch v := t.RawGetString("attrs").(type) {
	case *lua.LNilType:
	case lua.LString:
		s.Attributes = attribute(L, name, string(v))
	case *lua.LTable:
		attrs := core.AttrNone
		v.ForEach(func(_, a lua.LValue) {
			attrs = attrs.With(attribute(L, name, a.String()))
		})
		s.Attributes = attrs
	default:
		L.RaiseError("%s.attrs: table expected, got %s", name, v.Type())
	}
	return s
}

func colorValue(L *lua.LState, key string, v lua.LValue) core.Color {
	if v.Type() != lua.LTString && v.Type() != lua.LTNumber {
		L.RaiseError("%s: color expected, got %s", key, v.Type())
	}
	c, err := core.ParseColor(v.String())
	if err != nil {
		L.RaiseError("%s: %v", key, err)
	}
	return c
}

func attribute(L *lua.LState, name, s string) core.Attribute {
	a, err := core.ParseAttribute(s)
	if err != nil {
		L.RaiseError("%s.attrs: %v", name, err)
	}
	return a
}
