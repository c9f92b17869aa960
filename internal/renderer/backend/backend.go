// Package backend provides the display abstraction menus are presented on.
package backend

import (
	"sync"

	"github.com/dshills/conmenu/internal/renderer/core"
)

// EventType identifies the type of display event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	// EventInterrupt carries a function posted from outside the event loop.
	EventInterrupt
	// EventClosed reports that the display has been finalized and no
	// further events will arrive.
	EventClosed
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	case EventResize:
		return "resize"
	case EventInterrupt:
		return "interrupt"
	case EventClosed:
		return "closed"
	default:
		return "none"
	}
}

// Event represents a display event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int

	// Interrupt event payload, run on the event loop.
	Interrupt func()
}

// IsInput returns true for keyboard and mouse events.
func (e Event) IsInput() bool {
	return e.Type == EventKey || e.Type == EventMouse
}

// KeyEvent builds a key event for a special key.
func KeyEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

// RuneEvent builds a key event for a printable character.
func RuneEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

// MouseEvent builds a mouse event at column x, row y.
func MouseEvent(x, y int, button MouseButton) Event {
	return Event{Type: EventMouse, MouseX: x, MouseY: y, MouseButton: button}
}

// ResizeEvent builds a resize event.
func ResizeEvent(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}

// InterruptEvent builds an interrupt event that runs fn on the event loop.
func InterruptEvent(fn func()) Event {
	return Event{Type: EventInterrupt, Interrupt: fn}
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Pressed returns true if any button is held.
func (b MouseButton) Pressed() bool {
	return b == MouseLeft || b == MouseMiddle || b == MouseRight
}

// Backend defines the interface for display backends.
// Menus render into off-screen surfaces and present them through a Backend.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current viewport dimensions.
	Size() (width, height int)

	// Colors returns the number of colors the display supports,
	// or -1 when unknown.
	Colors() int

	// SetCell sets a single cell at the given position.
	// Positions outside the viewport are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear clears the entire display with the default style.
	Clear()

	// Show synchronizes the internal buffer with the actual display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// EnableMouse enables mouse event reporting.
	EnableMouse()

	// DisableMouse disables mouse event reporting.
	DisableMouse()

	// PollEvents blocks until at least one event is available, then
	// returns it together with up to limit-1 further events that are
	// already queued.
	PollEvents(limit int) []Event

	// Drain discards queued keyboard and mouse events.
	Drain()

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)

	// Suspend returns the terminal to its default mode.
	Suspend() error

	// Resume re-enters the blocked input mode after Suspend.
	Resume() error
}

// NullBackend is a scripted in-memory backend for testing.
// Events are delivered in queue order; once the queue is empty
// PollEvents reports EventClosed.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	colors        int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	mouse         bool
	suspended     bool
	suspends      int
	shows         int
	shutdown      bool
	queue         []Event
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		width:  width,
		height: height,
		colors: 256,
	}
	b.cells = newCells(width, height)
	return b
}

func newCells(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for i := range cells {
		cells[i] = make([]core.Cell, width)
		for j := range cells[i] {
			cells[i][j] = core.EmptyCell()
		}
	}
	return cells
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdown = true
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) Colors() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.colors
}

// SetColors sets the color count reported by Colors.
func (b *NullBackend) SetColors(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.colors = n
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// GetCell returns the cell at the given position.
// Returns an empty cell for positions outside the viewport.
func (b *NullBackend) GetCell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

// Row returns the runes of row y, with continuation cells skipped.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if c.IsContinuation() {
			continue
		}
		runes = append(runes, c.Rune)
	}
	return string(runes)
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	empty := core.EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

func (b *NullBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = false
}

func (b *NullBackend) EnableMouse() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mouse = true
}

func (b *NullBackend) DisableMouse() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mouse = false
}

// Queue appends scripted events.
func (b *NullBackend) Queue(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, events...)
}

// Pending returns the number of queued events.
func (b *NullBackend) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// PollEvents returns up to limit queued events. A resize is always
// delivered in a batch of its own and takes effect when delivered, so events
// queued before it still see the old size. An empty queue yields EventClosed.
func (b *NullBackend) PollEvents(limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if limit < 1 {
		limit = 1
	}
	if len(b.queue) == 0 {
		return []Event{{Type: EventClosed}}
	}

	if ev := b.queue[0]; ev.Type == EventResize {
		b.queue = b.queue[1:]
		b.resizeLocked(ev.Width, ev.Height)
		return []Event{ev}
	}

	n := 0
	for n < limit && n < len(b.queue) && b.queue[n].Type != EventResize {
		n++
	}
	batch := make([]Event, n)
	copy(batch, b.queue[:n])
	b.queue = b.queue[n:]
	return batch
}

func (b *NullBackend) Drain() {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.queue[:0]
	for _, ev := range b.queue {
		if !ev.IsInput() {
			kept = append(kept, ev)
		}
	}
	b.queue = kept
}

func (b *NullBackend) PostEvent(event Event) {
	b.Queue(event)
}

func (b *NullBackend) Suspend() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suspended = true
	b.suspends++
	return nil
}

func (b *NullBackend) Resume() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suspended = false
	return nil
}

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

// MouseEnabled reports whether mouse reporting is on.
func (b *NullBackend) MouseEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mouse
}

// Suspended reports whether the backend is currently suspended.
func (b *NullBackend) Suspended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suspended
}

// SuspendCount returns how many times Suspend was called.
func (b *NullBackend) SuspendCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suspends
}

// ShowCount returns how many times Show was called.
func (b *NullBackend) ShowCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// IsShutdown reports whether Shutdown was called.
func (b *NullBackend) IsShutdown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shutdown
}

// Resize simulates a viewport resize for testing.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resizeLocked(width, height)
}

func (b *NullBackend) resizeLocked(width, height int) {
	b.width = width
	b.height = height
	b.cells = newCells(width, height)
}
