package menu

import (
	"fmt"

	"github.com/dshills/conmenu/internal/layout"
	"github.com/dshills/conmenu/internal/renderer/backend"
)

// Size error overlay text.
const (
	sizeErrorTitle = "Error: Console window size is too small!"
	sizeErrorHint  = "Make window bigger."
)

// sizeErrorLines returns the overlay text for a box that does not fit
// the viewport.
func sizeErrorLines(box, viewport layout.Size) []string {
	return []string{
		sizeErrorTitle,
		fmt.Sprintf("Required size: %d x %d", box.Width, box.Height),
		fmt.Sprintf("Current size: %d x %d", viewport.Width, viewport.Height),
		sizeErrorHint,
	}
}

// showSizeError paints the overlay on the error surface and presents it.
func (c *Context) showSizeError(m *Menu, viewport layout.Size) {
	s := c.errSurface
	if w, h := s.Size(); w != viewport.Width || h != viewport.Height {
		if err := s.Resize(viewport.Width, viewport.Height); err != nil {
			c.logger.Warn("resize error surface: %v", err)
		}
	}

	p := c.painterFor(m)
	p.Clear(s)
	p.SetCursorVisible(s, false)
	for i, line := range sizeErrorLines(m.box, viewport) {
		p.DrawAt(s, 0, i, line, m.color.Error)
	}
	s.Present(c.backend)
}

// errorWait blocks until the viewport can hold the menu. Only resize and
// interrupt events are acted on; all other input is discarded.
func (l *loop) errorWait() {
	c := l.ctx
	m := l.menu
	vp := c.viewport()
	l.log.Warn("viewport %dx%d too small for %dx%d", vp.Width, vp.Height, m.box.Width, m.box.Height)
	c.showSizeError(m, vp)

	for !vp.Fits(m.box) {
		for _, ev := range c.backend.PollEvents(MaxEventBatch) {
			switch ev.Type {
			case backend.EventResize:
				vp = c.viewport()
			case backend.EventInterrupt:
				if ev.Interrupt != nil {
					ev.Interrupt()
				}
			case backend.EventClosed:
				l.log.Debug("display closed")
				l.transition(stateTerminated)
				return
			}
		}
		if !l.revalidate() {
			l.transition(stateTerminated)
			return
		}
		m = l.menu
		if !vp.Fits(m.box) {
			c.showSizeError(m, vp)
		}
	}

	c.backend.Drain()
	l.batch = nil
	l.pos = 0
	m.fullRedraw = true
	l.log.Debug("viewport %dx%d fits", vp.Width, vp.Height)
	l.transition(stateLayoutCheck)
}
