// Package script runs Lua menu scripts against a menu.Context.
//
// Scripts get a global "menu" module mirroring the Go API:
//
//	local m = menu.create_menu()
//	menu.change_header(m, "Main")
//	menu.add_option(m, menu.create_item("Hello", function(self, data)
//	    menu.change_footer(self, "clicked " .. data)
//	end, "hello"))
//	menu.add_option(m, menu.create_item("Quit", function()
//	    menu.clear_menus()
//	end))
//	menu.enable_menu(m)
//
// Menus and items are userdata and also support method calls
// (m:add(item), m:enable(), m:header()). Item indexes are 1-based and a
// disabled selection is reported as nil.
//
// Only the base, table, string and math libraries are opened. print
// writes to the runtime's output instead of stdout, which belongs to the
// terminal while a menu is running.
package script
