package menu

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/dshills/conmenu/internal/capability"
	"github.com/dshills/conmenu/internal/layout"
	"github.com/dshills/conmenu/internal/logging"
	"github.com/dshills/conmenu/internal/renderer/backend"
	"github.com/dshills/conmenu/internal/renderer/core"
	"github.com/dshills/conmenu/internal/surface"
)

// Options configures a Context.
type Options struct {
	// Backend is the display menus are presented on. Required.
	Backend backend.Backend

	// Logger receives engine diagnostics. Defaults to logging.NullLogger.
	Logger *logging.Logger

	// Probe decides the capability mode from the backend's color count.
	// Defaults to probing stdout and the environment.
	Probe func(colors int) capability.Mode

	// Exit terminates the process. Defaults to os.Exit.
	Exit func(code int)

	// Stderr receives fatal diagnostics. Defaults to os.Stderr.
	Stderr io.Writer
}

// Context is the process-scoped menu engine state: the backend, the
// capability mode, the registry and the defaults copied into new menus.
// Except for Post, a Context must only be used from the goroutine running
// its event loops.
type Context struct {
	backend backend.Backend
	logger  *logging.Logger
	mode    capability.Mode
	painter capability.Painter

	registry Registry

	defaultSettings Settings
	defaultColor    Color

	errSurface *surface.Surface

	exit   func(code int)
	stderr io.Writer

	suspended bool
	depth     int
	closed    bool
}

// New creates a Context. The capability probe runs once here.
func New(opts Options) (*Context, error) {
	if opts.Backend == nil {
		return nil, ErrNoBackend
	}
	if opts.Logger == nil {
		opts.Logger = logging.NullLogger
	}
	if opts.Probe == nil {
		opts.Probe = func(colors int) capability.Mode {
			return capability.Probe(capability.ProbeTerminal(colors))
		}
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	errSurface, err := surface.New(opts.Backend.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurface, err)
	}

	mode := opts.Probe(opts.Backend.Colors())
	c := &Context{
		backend:         opts.Backend,
		logger:          opts.Logger.WithComponent("menu"),
		mode:            mode,
		painter:         capability.ForMode(mode),
		defaultSettings: DefaultSettings(),
		defaultColor:    DefaultColor(),
		errSurface:      errSurface,
		exit:            opts.Exit,
		stderr:          opts.Stderr,
	}
	c.logger.Info("capability mode %s", mode)
	return c, nil
}

// Close destroys every menu. The backend is left to its owner.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.ClearMenus()
	c.closed = true
}

// Mode returns the capability mode chosen at construction.
func (c *Context) Mode() capability.Mode {
	return c.mode
}

// Backend returns the display backend.
func (c *Context) Backend() backend.Backend {
	return c.backend
}

// Registry returns the live menu registry.
func (c *Context) Registry() *Registry {
	return &c.registry
}

// Depth returns how many event loops are currently nested.
func (c *Context) Depth() int {
	return c.depth
}

// fatal reports an unrecoverable failure and exits with status 1.
// It returns the error for the case where the exit hook returns.
func (c *Context) fatal(op string, err error) error {
	fe := &FatalError{Op: op, Err: err}
	c.logger.Error("fatal: %v", fe)
	c.backend.Shutdown()
	fmt.Fprintf(c.stderr, "Error: %v\n", fe)
	c.exit(1)
	return fe
}

// suspend returns the terminal to its default mode.
func (c *Context) suspend() {
	if c.suspended {
		return
	}
	if err := c.backend.Suspend(); err != nil {
		c.logger.Warn("suspend: %v", err)
		return
	}
	c.suspended = true
}

// resume re-enters the menu input mode.
func (c *Context) resume() {
	if !c.suspended {
		return
	}
	if err := c.backend.Resume(); err != nil {
		c.logger.Warn("resume: %v", err)
	}
	c.suspended = false
}

// presentBase clears the display.
func (c *Context) presentBase() {
	c.backend.Clear()
	c.backend.HideCursor()
	c.backend.Show()
}

// presentTop shows the most recently registered running menu, or the base
// display when none remains.
func (c *Context) presentTop() {
	top := c.registry.LastRunning()
	if top == nil {
		if !c.suspended {
			c.presentBase()
		}
		return
	}
	c.resume()
	c.applyMouse(top)
	top.surfaces.Active().Present(c.backend)
}

func (c *Context) applyMouse(m *Menu) {
	if m.settings.Mouse {
		c.backend.EnableMouse()
	} else {
		c.backend.DisableMouse()
	}
}

func (c *Context) viewport() layout.Size {
	w, h := c.backend.Size()
	return layout.Size{Width: w, Height: h}
}

// CreateSettings returns a copy of the current default settings.
func (c *Context) CreateSettings() Settings {
	return c.defaultSettings
}

// CreateColor returns a copy of the current default styles.
func (c *Context) CreateColor() Color {
	return c.defaultColor
}

// SetDefaultSettings sets the settings copied into menus created from now on.
func (c *Context) SetDefaultSettings(s Settings) {
	s.Center = layout.ClampCenter(s.Center)
	c.defaultSettings = s
}

// SetDefaultColor sets the styles copied into menus created from now on.
func (c *Context) SetDefaultColor(col Color) {
	c.defaultColor = col
}

// CreateMenu creates and registers an empty menu with the default header,
// footer, settings and colors.
func (c *Context) CreateMenu() *Menu {
	vp := c.viewport()
	pair, err := surface.NewPair(vp.Width, vp.Height)
	if err != nil {
		_ = c.fatal("create menu", fmt.Errorf("%w: %v", ErrSurface, err))
		return nil
	}

	m := &Menu{
		ctx:       c,
		id:        uuid.New(),
		selected:  0,
		surfaces:  pair,
		header:    DefaultHeader,
		footer:    DefaultFooter,
		settings:  c.defaultSettings,
		color:     c.defaultColor,
		lastValid: Disabled,
	}
	m.relayout()
	c.registry.Register(m)
	c.logger.Debug("created menu %s (%d registered)", m.id, c.registry.Len())
	return m
}

// CreateItem creates an unattached item. Empty text becomes
// DefaultItemText.
func (c *Context) CreateItem(text string, cb Callback, data any) *Item {
	if text == "" {
		text = DefaultItemText
	}
	return &Item{
		text:     text,
		width:    core.StringWidth(text),
		callback: cb,
		data:     data,
	}
}

// live reports whether m is registered with this context.
func (c *Context) live(m *Menu) bool {
	return m != nil && m.ctx == c && c.registry.FindByID(m.id) == m
}

// AddOption appends it to m. It returns false when m is not live or it
// already belongs to a menu.
func (c *Context) AddOption(m *Menu, it *Item) bool {
	if !c.live(m) || it == nil || it.owner != nil {
		return false
	}
	it.owner = m
	m.items = append(m.items, it)
	m.relayout()
	return true
}

// RemoveOption removes it from m and resets the selection to the first
// item. A menu left without items is destroyed.
func (c *Context) RemoveOption(m *Menu, it *Item) {
	if !c.live(m) || it == nil || it.owner != m {
		return
	}
	for i, cur := range m.items {
		if cur != it {
			continue
		}
		m.items = append(m.items[:i], m.items[i+1:]...)
		it.owner = nil
		m.selected = 0
		m.lastValid = Disabled
		m.relayout()
		if len(m.items) == 0 {
			c.ClearMenu(m)
		}
		return
	}
}

// ChangeHeader sets the header text.
func (c *Context) ChangeHeader(m *Menu, text string) {
	if !c.live(m) {
		return
	}
	m.header = text
	m.relayout()
}

// ChangeFooter sets the footer text.
func (c *Context) ChangeFooter(m *Menu, text string) {
	if !c.live(m) {
		return
	}
	m.footer = text
	m.relayout()
}

// ChangeMenuPolicy shows or hides the header and footer.
func (c *Context) ChangeMenuPolicy(m *Menu, header, footer bool) {
	if !c.live(m) {
		return
	}
	m.settings.Header = header
	m.settings.Footer = footer
	m.relayout()
}

// ChangeWidthPolicy sets whether the box width is doubled.
func (c *Context) ChangeWidthPolicy(m *Menu, double bool) {
	if !c.live(m) {
		return
	}
	m.settings.DoubleWidth = double
	m.relayout()
}

// ToggleMouse flips mouse input for m.
func (c *Context) ToggleMouse(m *Menu) {
	if !c.live(m) {
		return
	}
	m.settings.Mouse = !m.settings.Mouse
	m.fullRedraw = true
}

// SetMenuSettings replaces m's settings.
func (c *Context) SetMenuSettings(m *Menu, s Settings) {
	if !c.live(m) {
		return
	}
	s.Center = layout.ClampCenter(s.Center)
	m.settings = s
	m.relayout()
}

// SetColorObject replaces m's styles.
func (c *Context) SetColorObject(m *Menu, col Color) {
	if !c.live(m) {
		return
	}
	m.color = col
	m.relayout()
}

// FindByID returns the live menu with id, or nil.
func (c *Context) FindByID(id uuid.UUID) *Menu {
	return c.registry.FindByID(id)
}

// ClearMenu destroys m: its items and surfaces are released and it is
// removed from the registry.
func (c *Context) ClearMenu(m *Menu) {
	if !c.live(m) {
		return
	}
	for _, it := range m.items {
		it.owner = nil
	}
	m.items = nil
	m.surfaces = nil
	m.headerLine, m.footerLine = "", ""
	m.running = false
	c.registry.Deregister(m)
	c.logger.Debug("cleared menu %s (%d registered)", m.id, c.registry.Len())
}

// ClearMenus destroys every menu.
func (c *Context) ClearMenus() {
	for c.registry.Len() > 0 {
		c.ClearMenu(c.registry.At(0))
	}
}

// ClearMenusAndExit destroys every menu, shuts the backend down and exits
// with status 0.
func (c *Context) ClearMenusAndExit() {
	c.ClearMenus()
	c.closed = true
	c.backend.Shutdown()
	c.logger.Info("exit requested")
	c.exit(0)
}

// Post schedules fn to run on the event loop goroutine. It is safe to call
// from any goroutine.
func (c *Context) Post(fn func()) {
	if fn == nil {
		return
	}
	c.backend.PostEvent(backend.InterruptEvent(fn))
}

// EnableMenu runs the event loop for m until it is destroyed or the
// display closes. Callbacks may nest further EnableMenu calls.
func (c *Context) EnableMenu(m *Menu) error {
	if c.closed {
		return ErrClosed
	}
	if !c.live(m) {
		return ErrMenuNotFound
	}
	if len(m.items) == 0 {
		return c.fatal("enable menu", fmt.Errorf("%w: add options with AddOption before enabling", ErrNoItems))
	}

	m.running = true
	if m.settings.Mouse {
		m.selected = Disabled
	} else {
		m.selected = 0
	}
	m.lastValid = Disabled
	m.fullRedraw = true

	c.resume()
	c.applyMouse(m)

	c.depth++
	defer func() { c.depth-- }()

	l := newLoop(c, m)
	return l.run()
}
