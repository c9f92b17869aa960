package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/conmenu/internal/menu"
)

// register installs the menu module and the userdata metatables.
func (r *Runtime) register() {
	L := r.L

	funcs := map[string]lua.LGFunction{
		"create_menu":          r.createMenu,
		"create_item":          r.createItem,
		"add_option":           r.addOption,
		"remove_option":        r.removeOption,
		"enable_menu":          r.enableMenu,
		"clear_menu":           r.clearMenu,
		"clear_menus":          r.clearMenus,
		"clear_menus_and_exit": r.clearMenusAndExit,
		"change_header":        r.changeHeader,
		"change_footer":        r.changeFooter,
		"change_menu_policy":   r.changeMenuPolicy,
		"change_width_policy":  r.changeWidthPolicy,
		"toggle_mouse":         r.toggleMouse,
		"set_menu_settings":    r.setMenuSettings,
		"set_menu_color":       r.setMenuColor,
		"create_settings":      r.createSettings,
		"set_default_settings": r.setDefaultSettings,
		"set_default_color":    r.setDefaultColor,
		"get_menu_header":      r.getMenuHeader,
		"get_menu_footer":      r.getMenuFooter,
		"get_menu_count":       r.getMenuCount,
		"get_menu_selected":    r.getMenuSelected,
		"get_menu_item":        r.getMenuItem,
		"get_menu_settings":    r.getMenuSettings,
		"get_menu_size":        r.getMenuSize,
		"is_running":           r.isRunning,
		"post":                 r.post,
		"tick":                 r.tick,
		"mode":                 r.mode,
		"depth":                r.depth,
	}
	mod := L.SetFuncs(L.NewTable(), funcs)
	L.SetGlobal(ModuleName, mod)

	menuMethods := map[string]lua.LGFunction{
		"add":          r.addOption,
		"remove":       r.removeOption,
		"enable":       r.enableMenu,
		"clear":        r.clearMenu,
		"set_header":   r.changeHeader,
		"set_footer":   r.changeFooter,
		"set_policy":   r.changeMenuPolicy,
		"set_double":   r.changeWidthPolicy,
		"toggle_mouse": r.toggleMouse,
		"set_settings": r.setMenuSettings,
		"set_color":    r.setMenuColor,
		"header":       r.getMenuHeader,
		"footer":       r.getMenuFooter,
		"count":        r.getMenuCount,
		"selected":     r.getMenuSelected,
		"item":         r.getMenuItem,
		"settings":     r.getMenuSettings,
		"size":         r.getMenuSize,
		"running":      r.isRunning,
		"id":           r.menuID,
	}
	mt := L.NewTypeMetatable(menuTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), menuMethods))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("menu(" + checkMenu(L, 1).ID().String() + ")"))
		return 1
	}))

	itemMethods := map[string]lua.LGFunction{
		"text":  r.itemText,
		"width": r.itemWidth,
		"data":  r.itemData,
	}
	it := L.NewTypeMetatable(itemTypeName)
	L.SetField(it, "__index", L.SetFuncs(L.NewTable(), itemMethods))
	L.SetField(it, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(fmt.Sprintf("item(%q)", checkItem(L, 1).Text())))
		return 1
	}))
}

// create_menu() -> menu
func (r *Runtime) createMenu(L *lua.LState) int {
	L.Push(r.menuValue(r.ctx.CreateMenu()))
	return 1
}

// create_item(text?, fn?, data?) -> item
// fn is called as fn(menu, data) when the item is activated.
func (r *Runtime) createItem(L *lua.LState) int {
	text := L.OptString(1, "")
	fn := L.OptFunction(2, nil)
	data := L.Get(3)

	var cb menu.Callback
	if fn != nil {
		label := text
		if label == "" {
			label = menu.DefaultItemText
		}
		cb = r.callback(fn, label)
	}
	L.Push(r.itemValue(r.ctx.CreateItem(text, cb, data)))
	return 1
}

// callback wraps a Lua function as an item callback. Errors stop every
// menu and are reported by DoFile.
func (r *Runtime) callback(fn *lua.LFunction, label string) menu.Callback {
	return func(m *menu.Menu, data any) {
		arg, ok := data.(lua.LValue)
		if !ok || arg == nil {
			arg = lua.LNil
		}
		err := r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, r.menuValue(m), arg)
		if err != nil {
			r.fail(&CallbackError{Item: label, Err: err})
		}
		r.forget()
	}
}

// add_option(menu, item) -> bool
func (r *Runtime) addOption(L *lua.LState) int {
	m := checkMenu(L, 1)
	it := checkItem(L, 2)
	L.Push(lua.LBool(r.ctx.AddOption(m, it)))
	return 1
}

// remove_option(menu, item)
func (r *Runtime) removeOption(L *lua.LState) int {
	m := checkMenu(L, 1)
	it := checkItem(L, 2)
	r.ctx.RemoveOption(m, it)
	return 0
}

// enable_menu(menu) -> true | nil, err
// Blocks until the menu is destroyed or the display closes.
func (r *Runtime) enableMenu(L *lua.LState) int {
	m := checkMenu(L, 1)
	err := r.ctx.EnableMenu(m)
	r.forget()
	if err != nil {
		var fe *menu.FatalError
		if errors.As(err, &fe) {
			L.RaiseError("enable_menu: %v", err)
			return 0
		}
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// clear_menu(menu)
func (r *Runtime) clearMenu(L *lua.LState) int {
	r.ctx.ClearMenu(checkMenu(L, 1))
	r.forget()
	return 0
}

// clear_menus()
func (r *Runtime) clearMenus(L *lua.LState) int {
	r.ctx.ClearMenus()
	r.forget()
	return 0
}

// clear_menus_and_exit()
func (r *Runtime) clearMenusAndExit(L *lua.LState) int {
	r.ctx.ClearMenusAndExit()
	r.forget()
	return 0
}

// change_header(menu, text)
func (r *Runtime) changeHeader(L *lua.LState) int {
	r.ctx.ChangeHeader(checkMenu(L, 1), L.CheckString(2))
	return 0
}

// change_footer(menu, text)
func (r *Runtime) changeFooter(L *lua.LState) int {
	r.ctx.ChangeFooter(checkMenu(L, 1), L.CheckString(2))
	return 0
}

// change_menu_policy(menu, header, footer)
func (r *Runtime) changeMenuPolicy(L *lua.LState) int {
	r.ctx.ChangeMenuPolicy(checkMenu(L, 1), L.CheckBool(2), L.CheckBool(3))
	return 0
}

// change_width_policy(menu, double)
func (r *Runtime) changeWidthPolicy(L *lua.LState) int {
	r.ctx.ChangeWidthPolicy(checkMenu(L, 1), L.CheckBool(2))
	return 0
}

// toggle_mouse(menu) -> bool
func (r *Runtime) toggleMouse(L *lua.LState) int {
	m := checkMenu(L, 1)
	r.ctx.ToggleMouse(m)
	L.Push(lua.LBool(m.MouseEnabled()))
	return 1
}

// set_menu_settings(menu, settings)
// Fields missing from the table keep the menu's current values.
func (r *Runtime) setMenuSettings(L *lua.LState) int {
	m := checkMenu(L, 1)
	s := settingsFromTable(L, L.CheckTable(2), m.Settings())
	r.ctx.SetMenuSettings(m, s)
	return 0
}

// set_menu_color(menu, colors)
func (r *Runtime) setMenuColor(L *lua.LState) int {
	m := checkMenu(L, 1)
	c := colorFromTable(L, L.CheckTable(2), m.Color())
	r.ctx.SetColorObject(m, c)
	return 0
}

// create_settings() -> settings
func (r *Runtime) createSettings(L *lua.LState) int {
	L.Push(settingsToTable(L, r.ctx.CreateSettings()))
	return 1
}

// set_default_settings(settings)
func (r *Runtime) setDefaultSettings(L *lua.LState) int {
	s := settingsFromTable(L, L.CheckTable(1), r.ctx.CreateSettings())
	r.ctx.SetDefaultSettings(s)
	return 0
}

// set_default_color(colors)
func (r *Runtime) setDefaultColor(L *lua.LState) int {
	c := colorFromTable(L, L.CheckTable(1), r.ctx.CreateColor())
	r.ctx.SetDefaultColor(c)
	return 0
}

// get_menu_header(menu) -> string
func (r *Runtime) getMenuHeader(L *lua.LState) int {
	L.Push(lua.LString(checkMenu(L, 1).Header()))
	return 1
}

// get_menu_footer(menu) -> string
func (r *Runtime) getMenuFooter(L *lua.LState) int {
	L.Push(lua.LString(checkMenu(L, 1).Footer()))
	return 1
}

// get_menu_count(menu) -> int
func (r *Runtime) getMenuCount(L *lua.LState) int {
	L.Push(lua.LNumber(checkMenu(L, 1).Count()))
	return 1
}

// get_menu_selected(menu) -> int | nil
func (r *Runtime) getMenuSelected(L *lua.LState) int {
	sel := checkMenu(L, 1).SelectedIndex()
	if sel == menu.Disabled {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(sel + 1))
	return 1
}

// get_menu_item(menu, index) -> item | nil
func (r *Runtime) getMenuItem(L *lua.LState) int {
	m := checkMenu(L, 1)
	i := L.CheckInt(2)
	L.Push(r.itemValue(m.Item(i - 1)))
	return 1
}

// get_menu_settings(menu) -> settings
func (r *Runtime) getMenuSettings(L *lua.LState) int {
	L.Push(settingsToTable(L, checkMenu(L, 1).Settings()))
	return 1
}

// get_menu_size(menu) -> width, height
func (r *Runtime) getMenuSize(L *lua.LState) int {
	size := checkMenu(L, 1).Size()
	L.Push(lua.LNumber(size.Width))
	L.Push(lua.LNumber(size.Height))
	return 2
}

// is_running(menu) -> bool
func (r *Runtime) isRunning(L *lua.LState) int {
	L.Push(lua.LBool(checkMenu(L, 1).Running()))
	return 1
}

// menu:id() -> string
func (r *Runtime) menuID(L *lua.LState) int {
	L.Push(lua.LString(checkMenu(L, 1).ID().String()))
	return 1
}

// post(fn)
// Runs fn on the event loop between events.
func (r *Runtime) post(L *lua.LState) int {
	fn := L.CheckFunction(1)
	r.ctx.Post(func() {
		if err := r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
			r.fail(fmt.Errorf("posted function: %w", err))
		}
		r.forget()
	})
	return 0
}

// tick() -> milliseconds
func (r *Runtime) tick(L *lua.LState) int {
	L.Push(lua.LNumber(menu.Tick()))
	return 1
}

// mode() -> "modern" | "legacy"
func (r *Runtime) mode(L *lua.LState) int {
	L.Push(lua.LString(r.ctx.Mode().String()))
	return 1
}

// depth() -> int
func (r *Runtime) depth(L *lua.LState) int {
	L.Push(lua.LNumber(r.ctx.Depth()))
	return 1
}

// item:text() -> string
func (r *Runtime) itemText(L *lua.LState) int {
	L.Push(lua.LString(checkItem(L, 1).Text()))
	return 1
}

// item:width() -> int
func (r *Runtime) itemWidth(L *lua.LState) int {
	L.Push(lua.LNumber(checkItem(L, 1).Width()))
	return 1
}

// item:data() -> any
func (r *Runtime) itemData(L *lua.LState) int {
	if v, ok := checkItem(L, 1).Data().(lua.LValue); ok && v != nil {
		L.Push(v)
		return 1
	}
	L.Push(lua.LNil)
	return 1
}
