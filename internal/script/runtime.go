package script

import (
	"fmt"
	"io"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/conmenu/internal/logging"
	"github.com/dshills/conmenu/internal/menu"
)

// ModuleName is the global the menu API is installed under.
const ModuleName = "menu"

// Metatable names for menu and item userdata.
const (
	menuTypeName = "conmenu.menu"
	itemTypeName = "conmenu.item"
)

// Runtime is a Lua state bound to one menu.Context.
//
// gopher-lua's LState is not goroutine-safe. DoFile and DoString must be
// called from the goroutine that owns the Context's event loop.
type Runtime struct {
	L   *lua.LState
	ctx *menu.Context

	mu     sync.Mutex
	closed bool

	logger *logging.Logger
	output io.Writer

	// menus maps each menu to its userdata so a menu has one identity in Lua.
	menus map[*menu.Menu]*lua.LUserData
	items map[*menu.Item]*lua.LUserData

	// err is the first callback error.
	err error
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger for script diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOutput sets where print writes. By default print logs at info level.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.output = w
	}
}

// New creates a runtime with the menu module installed.
func New(ctx *menu.Context, opts ...Option) *Runtime {
	r := &Runtime{
		ctx:    ctx,
		logger: logging.NullLogger,
		menus:  make(map[*menu.Menu]*lua.LUserData),
		items:  make(map[*menu.Item]*lua.LUserData),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	r.L = L
	openSafeLibraries(L)
	r.installPrint()
	r.register()
	return r
}

// openSafeLibraries opens the libraries scripts may use.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint replaces print so output never reaches the terminal.
func (r *Runtime) installPrint() {
	r.L.SetGlobal("print", r.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		line := strings.Join(parts, "\t")
		if r.output != nil {
			fmt.Fprintln(r.output, line)
		} else {
			r.logger.Info("%s", line)
		}
		return 0
	}))
}

// DoFile executes a Lua file. It returns the script's own error or the
// first callback error.
func (r *Runtime) DoFile(path string) error {
	return r.do(func() error { return r.L.DoFile(path) })
}

// DoString executes a Lua chunk.
func (r *Runtime) DoString(code string) error {
	return r.do(func() error { return r.L.DoString(code) })
}

func (r *Runtime) do(fn func() error) (err error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.err = nil
	r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()

	if err := fn(); err != nil {
		return err
	}
	return r.callbackErr()
}

// Global returns a global variable value.
func (r *Runtime) Global(name string) lua.LValue {
	return r.L.GetGlobal(name)
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.L.Close()
	r.closed = true
}

func (r *Runtime) callbackErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// fail records the first callback error and unwinds every menu loop.
func (r *Runtime) fail(err error) {
	r.mu.Lock()
	first := r.err == nil
	if first {
		r.err = err
	}
	r.mu.Unlock()

	r.logger.Error("%v", err)
	if first {
		r.ctx.ClearMenus()
	}
}

// menuValue returns the userdata for m, creating it on first use.
func (r *Runtime) menuValue(m *menu.Menu) lua.LValue {
	if m == nil {
		return lua.LNil
	}
	if ud, ok := r.menus[m]; ok {
		return ud
	}
	ud := r.L.NewUserData()
	ud.Value = m
	r.L.SetMetatable(ud, r.L.GetTypeMetatable(menuTypeName))
	r.menus[m] = ud
	return ud
}

// itemValue returns the userdata for it, creating it on first use.
func (r *Runtime) itemValue(it *menu.Item) lua.LValue {
	if it == nil {
		return lua.LNil
	}
	if ud, ok := r.items[it]; ok {
		return ud
	}
	ud := r.L.NewUserData()
	ud.Value = it
	r.L.SetMetatable(ud, r.L.GetTypeMetatable(itemTypeName))
	r.items[it] = ud
	return ud
}

// forget drops userdata for menus the context no longer knows.
func (r *Runtime) forget() {
	for m := range r.menus {
		if r.ctx.FindByID(m.ID()) == nil {
			delete(r.menus, m)
		}
	}
}

func checkMenu(L *lua.LState, n int) *menu.Menu {
	ud := L.CheckUserData(n)
	if m, ok := ud.Value.(*menu.Menu); ok {
		return m
	}
	L.ArgError(n, "menu expected")
	return nil
}

func checkItem(L *lua.LState, n int) *menu.Item {
	ud := L.CheckUserData(n)
	if it, ok := ud.Value.(*menu.Item); ok {
		return it
	}
	L.ArgError(n, "item expected")
	return nil
}
