package menu

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/conmenu/internal/layout"
	"github.com/dshills/conmenu/internal/logging"
	"github.com/dshills/conmenu/internal/renderer/backend"
)

// MaxEventBatch is the most events dispatched per wakeup.
const MaxEventBatch = 4

// state is a position in the event loop.
type state int

const (
	stateLayoutCheck state = iota
	stateRedraw
	stateAwaitEvent
	stateDispatch
	stateCallback
	stateErrorWait
	stateTerminated
	stateDone
)

func (s state) String() string {
	switch s {
	case stateLayoutCheck:
		return "layout-check"
	case stateRedraw:
		return "redraw"
	case stateAwaitEvent:
		return "await-event"
	case stateDispatch:
		return "dispatch"
	case stateCallback:
		return "callback"
	case stateErrorWait:
		return "error-wait"
	case stateTerminated:
		return "terminated"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// loop is one EnableMenu invocation. The menu is held by ID and only
// dereferenced after revalidation against the registry.
type loop struct {
	ctx   *Context
	id    uuid.UUID
	menu  *Menu
	state state
	err   error

	batch []backend.Event
	pos   int

	viewport layout.Size
	mouseOn  bool
	holding  bool
	stale    bool
	pressed  int
	active   *Item

	log *logging.Logger
}

func newLoop(c *Context, m *Menu) *loop {
	return &loop{
		ctx:     c,
		id:      m.id,
		menu:    m,
		state:   stateLayoutCheck,
		mouseOn: m.settings.Mouse,
		log:     c.logger.WithField("menu", m.id.String()).WithField("depth", c.depth),
	}
}

// run drives the loop until it is done.
func (l *loop) run() error {
	l.log.Debug("loop start")
	for l.state != stateDone {
		l.step()
	}
	l.log.Debug("loop end")
	return l.err
}

// step performs one state transition.
func (l *loop) step() {
	switch l.state {
	case stateLayoutCheck:
		l.layoutCheck()
	case stateRedraw:
		l.redraw()
	case stateAwaitEvent:
		l.await()
	case stateDispatch:
		l.dispatch()
	case stateCallback:
		l.callback()
	case stateErrorWait:
		l.errorWait()
	case stateTerminated:
		l.terminate()
	default:
		l.state = stateDone
	}
}

func (l *loop) transition(next state) {
	if next != l.state {
		l.log.Debug("%s -> %s", l.state, next)
	}
	l.state = next
}

// revalidate re-resolves the menu by ID. It reports false when the menu
// was destroyed or is no longer running.
func (l *loop) revalidate() bool {
	m := l.ctx.registry.FindByID(l.id)
	if m == nil || !m.running {
		l.menu = nil
		return false
	}
	l.menu = m
	return true
}

func (l *loop) layoutCheck() {
	if !l.revalidate() {
		l.transition(stateTerminated)
		return
	}
	m := l.menu

	vp := l.ctx.viewport()
	if w, h := m.surfaces.Size(); w != vp.Width || h != vp.Height {
		if err := m.surfaces.Resize(vp.Width, vp.Height); err != nil {
			l.err = l.ctx.fatal("resize surfaces", fmt.Errorf("%w: %v", ErrSurface, err))
			l.transition(stateDone)
			return
		}
		l.log.Debug("viewport %dx%d", vp.Width, vp.Height)
		m.fullRedraw = true
	}
	l.viewport = vp

	if m.settings.Mouse != l.mouseOn {
		l.ctx.applyMouse(m)
		l.mouseOn = m.settings.Mouse
		l.holding = false
	}

	if !vp.Fits(m.box) {
		l.transition(stateErrorWait)
		return
	}
	l.transition(stateRedraw)
}

func (l *loop) redraw() {
	m := l.menu
	if m.fullRedraw {
		l.log.Debug("full redraw")
	} else if m.needRedraw {
		l.log.Debug("dirty redraw")
	}
	l.ctx.redraw(m, l.viewport)

	if l.pos < len(l.batch) {
		l.transition(stateDispatch)
		return
	}
	l.transition(stateAwaitEvent)
}

func (l *loop) await() {
	l.batch = l.ctx.backend.PollEvents(MaxEventBatch)
	l.pos = 0
	if len(l.batch) == 0 {
		l.transition(stateLayoutCheck)
		return
	}
	l.transition(stateDispatch)
}

func (l *loop) dispatch() {
	if l.pos >= len(l.batch) {
		l.transition(stateLayoutCheck)
		return
	}
	ev := l.batch[l.pos]
	l.pos++

	switch ev.Type {
	case backend.EventKey:
		l.handleKey(ev)
	case backend.EventMouse:
		l.handleMouse(ev)
	case backend.EventInterrupt:
		if ev.Interrupt != nil {
			ev.Interrupt()
		}
		l.transition(stateLayoutCheck)
	case backend.EventClosed:
		l.log.Debug("display closed")
		l.transition(stateTerminated)
	default:
		l.transition(stateLayoutCheck)
	}
}

func (l *loop) handleKey(ev backend.Event) {
	m := l.menu
	switch ev.Key {
	case backend.KeyUp:
		m.moveSelection(-1)
		m.needRedraw = true
	case backend.KeyDown:
		m.moveSelection(1)
		m.needRedraw = true
	case backend.KeyEnter:
		if l.activate() {
			return
		}
	case backend.KeyEscape:
		l.ctx.ClearMenu(m)
		l.transition(stateTerminated)
		return
	}
	l.transition(stateLayoutCheck)
}

func (l *loop) handleMouse(ev backend.Event) {
	m := l.menu
	if !m.settings.Mouse {
		l.transition(stateLayoutCheck)
		return
	}

	if hit := m.hitTest(ev.MouseX, ev.MouseY); hit != m.selected {
		m.selected = hit
		m.needRedraw = true
	}

	// A hold carried across a callback may have lost its release while
	// suspended. A press on another item starts a new click.
	stale := l.stale
	l.stale = false

	switch {
	case ev.MouseButton == backend.MouseLeft:
		if l.holding && stale && m.selected != l.pressed {
			l.holding = false
		}
		if !l.holding {
			l.holding = true
			l.pressed = m.selected
			if l.activate() {
				return
			}
		}
	case !ev.MouseButton.Pressed():
		l.holding = false
	}
	l.transition(stateLayoutCheck)
}

// activate schedules the selected item's callback and discards the rest
// of the batch. It reports false when there is nothing to run.
func (l *loop) activate() bool {
	m := l.menu
	if !m.validSelection(m.selected) {
		return false
	}
	it := m.items[m.selected]
	if it.callback == nil {
		return false
	}
	l.active = it
	l.batch = nil
	l.pos = 0
	l.transition(stateCallback)
	return true
}

func (l *loop) callback() {
	it := l.active
	l.active = nil

	c := l.ctx
	c.presentBase()
	c.suspend()

	l.log.Debug("callback %q", it.text)
	it.callback(l.menu, it.data)
	l.menu = nil

	if !l.revalidate() {
		l.log.Debug("menu gone after callback")
		l.transition(stateTerminated)
		return
	}
	m := l.menu

	c.resume()
	c.applyMouse(m)
	l.mouseOn = m.settings.Mouse
	l.stale = l.holding

	m.lastValid = Disabled
	m.fullRedraw = true
	m.needRedraw = false

	if !c.viewport().Fits(m.box) {
		l.transition(stateErrorWait)
		return
	}
	l.transition(stateLayoutCheck)
}

func (l *loop) terminate() {
	l.ctx.presentTop()
	l.transition(stateDone)
}
