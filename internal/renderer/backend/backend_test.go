package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/conmenu/internal/renderer/core"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(80, 24)

	cell := core.NewStyledCell('X', core.DefaultStyle().WithForeground(core.ColorRed))
	b.SetCell(10, 5, cell)

	got := b.GetCell(10, 5)
	if !got.Equals(cell) {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)

	empty := b.GetCell(-1, 0)
	if !empty.Equals(core.EmptyCell()) {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendClearAndRow(t *testing.T) {
	b := NewNullBackend(4, 2)
	b.SetCell(0, 0, core.NewStyledCell('a', core.DefaultStyle()))
	b.SetCell(1, 0, core.NewStyledCell('b', core.DefaultStyle()))

	if got := b.Row(0); got != "ab  " {
		t.Errorf("expected row %q, got %q", "ab  ", got)
	}

	b.Clear()
	if got := b.Row(0); got != "    " {
		t.Errorf("expected cleared row, got %q", got)
	}
	if got := b.Row(5); got != "" {
		t.Errorf("expected empty string for missing row, got %q", got)
	}
}

func TestNullBackendPollEventsBatch(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Queue(
		KeyEvent(KeyDown),
		KeyEvent(KeyDown),
		KeyEvent(KeyUp),
		RuneEvent('q'),
		KeyEvent(KeyEnter),
	)

	batch := b.PollEvents(4)
	if len(batch) != 4 {
		t.Fatalf("expected batch of 4, got %d", len(batch))
	}
	if batch[2].Key != KeyUp {
		t.Errorf("expected third event KeyUp, got %v", batch[2].Key)
	}
	if batch[3].Rune != 'q' {
		t.Errorf("expected rune 'q', got %q", batch[3].Rune)
	}

	batch = b.PollEvents(4)
	if len(batch) != 1 || batch[0].Key != KeyEnter {
		t.Fatalf("expected trailing Enter, got %+v", batch)
	}

	batch = b.PollEvents(4)
	if len(batch) != 1 || batch[0].Type != EventClosed {
		t.Fatalf("expected EventClosed on empty queue, got %+v", batch)
	}
}

func TestNullBackendResizeOnDelivery(t *testing.T) {
	b := NewNullBackend(10, 5)
	b.Queue(KeyEvent(KeyDown), ResizeEvent(41, 11))

	if w, h := b.Size(); w != 10 || h != 5 {
		t.Fatalf("resize should not apply before delivery, got %dx%d", w, h)
	}

	b.PollEvents(1)
	if w, _ := b.Size(); w != 10 {
		t.Fatalf("resize applied early, width %d", w)
	}

	b.PollEvents(1)
	if w, h := b.Size(); w != 41 || h != 11 {
		t.Errorf("expected 41x11 after delivery, got %dx%d", w, h)
	}
	if got := len(b.Row(10)); got != 41 {
		t.Errorf("expected resized row of 41 cells, got %d", got)
	}
}

func TestNullBackendResizeBatchOrder(t *testing.T) {
	b := NewNullBackend(10, 5)
	b.SetCell(0, 0, core.Cell{Rune: 'x', Width: 1})

	var seen string
	b.Queue(
		InterruptEvent(func() { seen = b.Row(0) }),
		ResizeEvent(20, 8),
		KeyEvent(KeyDown),
	)

	batch := b.PollEvents(4)
	if len(batch) != 1 || batch[0].Type != EventInterrupt {
		t.Fatalf("expected batch to stop before resize, got %+v", batch)
	}
	if w, _ := b.Size(); w != 10 {
		t.Fatalf("resize applied before delivery, width %d", w)
	}
	batch[0].Interrupt()
	if seen != "x         " {
		t.Errorf("row 0 before resize = %q", seen)
	}

	batch = b.PollEvents(4)
	if len(batch) != 1 || batch[0].Type != EventResize {
		t.Fatalf("expected resize alone, got %+v", batch)
	}
	if w, h := b.Size(); w != 20 || h != 8 {
		t.Errorf("size after resize = %dx%d, want 20x8", w, h)
	}

	batch = b.PollEvents(4)
	if len(batch) != 1 || batch[0].Key != KeyDown {
		t.Errorf("expected trailing Down, got %+v", batch)
	}
}

func TestNullBackendDrain(t *testing.T) {
	b := NewNullBackend(80, 24)
	ran := false
	b.Queue(
		KeyEvent(KeyDown),
		ResizeEvent(90, 30),
		MouseEvent(1, 1, MouseLeft),
		InterruptEvent(func() { ran = true }),
		KeyEvent(KeyEnter),
	)

	b.Drain()
	if b.Pending() != 2 {
		t.Fatalf("expected 2 non-input events after drain, got %d", b.Pending())
	}

	batch := b.PollEvents(4)
	if len(batch) != 1 || batch[0].Type != EventResize {
		t.Fatalf("expected resize alone after drain, got %+v", batch)
	}
	batch = b.PollEvents(4)
	if len(batch) != 1 || batch[0].Type != EventInterrupt {
		t.Fatalf("expected interrupt after resize, got %+v", batch)
	}
	batch[0].Interrupt()
	if !ran {
		t.Error("interrupt payload should be preserved")
	}
}

func TestNullBackendSuspendResume(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Suspend(); err != nil {
		t.Fatalf("Suspend failed: %v", err)
	}
	if !b.Suspended() {
		t.Error("expected suspended")
	}
	if err := b.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if b.Suspended() {
		t.Error("expected resumed")
	}
	if b.SuspendCount() != 1 {
		t.Errorf("expected 1 suspend, got %d", b.SuspendCount())
	}
}

func TestNullBackendCursorAndMouse(t *testing.T) {
	b := NewNullBackend(80, 24)

	b.ShowCursor(10, 5)
	x, y, visible := b.CursorPosition()
	if x != 10 || y != 5 || !visible {
		t.Errorf("expected cursor at (10, 5) visible, got (%d, %d) %v", x, y, visible)
	}
	b.HideCursor()
	if _, _, visible = b.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}

	b.EnableMouse()
	if !b.MouseEnabled() {
		t.Error("mouse should be enabled")
	}
	b.DisableMouse()
	if b.MouseEnabled() {
		t.Error("mouse should be disabled")
	}
}

func TestEventIsInput(t *testing.T) {
	tests := []struct {
		ev   Event
		want bool
	}{
		{KeyEvent(KeyUp), true},
		{MouseEvent(0, 0, MouseNone), true},
		{ResizeEvent(1, 1), false},
		{InterruptEvent(func() {}), false},
		{Event{Type: EventClosed}, false},
	}
	for _, tt := range tests {
		if got := tt.ev.IsInput(); got != tt.want {
			t.Errorf("%s IsInput = %v, want %v", tt.ev.Type, got, tt.want)
		}
	}
}

func TestConvertStyleRoundTrip(t *testing.T) {
	style := core.NewStyle(core.ColorWhite, core.ColorBlue).Bold()
	got := convertTcellStyle(convertStyle(style))
	if !got.Equals(style) {
		t.Errorf("expected %+v, got %+v", style, got)
	}

	rgb := core.NewStyle(core.ColorFromRGB(0x12, 0x34, 0x56), core.ColorDefault)
	got = convertTcellStyle(convertStyle(rgb))
	if !got.Foreground.Equals(rgb.Foreground) {
		t.Errorf("expected foreground %s, got %s", rgb.Foreground, got.Foreground)
	}
	if !got.Background.IsDefault() {
		t.Errorf("expected default background, got %s", got.Background)
	}
}

func TestConvertMouseButton(t *testing.T) {
	if convertMouseButton(tcell.Button1) != MouseLeft {
		t.Error("Button1 should map to MouseLeft")
	}
	if convertMouseButton(tcell.ButtonNone) != MouseNone {
		t.Error("ButtonNone should map to MouseNone")
	}
	if MouseWheelUp.Pressed() {
		t.Error("wheel is not a press")
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(term.Shutdown)
	screen.SetSize(40, 12)
	return term, screen
}

// waitFor polls until an event of the given type arrives or the deadline passes.
func waitFor(t *testing.T, term *Terminal, typ EventType) Event {
	t.Helper()
	found := make(chan Event, 1)
	go func() {
		for {
			for _, ev := range term.PollEvents(4) {
				if ev.Type == typ {
					found <- ev
					return
				}
				if ev.Type == EventClosed {
					close(found)
					return
				}
			}
		}
	}()
	select {
	case ev, ok := <-found:
		if !ok {
			t.Fatalf("screen closed before %s event", typ)
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s event", typ)
	}
	return Event{}
}

func TestTerminalSetCell(t *testing.T) {
	term, _ := newSimTerminal(t)

	cell := core.NewStyledCell('Z', core.NewStyle(core.ColorBlack, core.ColorCyan))
	term.SetCell(3, 2, cell)
	term.Show()

	got := term.GetCell(3, 2)
	if got.Rune != 'Z' {
		t.Errorf("expected rune 'Z', got %q", got.Rune)
	}
	if !got.Style.Background.Equals(core.ColorCyan) {
		t.Errorf("expected cyan background, got %s", got.Style.Background)
	}
}

func TestTerminalKeyEvent(t *testing.T) {
	term, screen := newSimTerminal(t)

	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	ev := waitFor(t, term, EventKey)
	if ev.Key != KeyDown {
		t.Errorf("expected KeyDown, got %v", ev.Key)
	}
}

func TestTerminalInterrupt(t *testing.T) {
	term, _ := newSimTerminal(t)

	ran := make(chan struct{}, 1)
	term.PostEvent(InterruptEvent(func() { ran <- struct{}{} }))

	ev := waitFor(t, term, EventInterrupt)
	ev.Interrupt()
	select {
	case <-ran:
	default:
		t.Error("interrupt payload did not run")
	}
}

func TestTerminalShutdownWithFullQueue(t *testing.T) {
	term, screen := newSimTerminal(t)

	for i := 0; i < eventQueueSize*2; i++ {
		term.PostEvent(ResizeEvent(40, 12))
	}
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	term.Shutdown()

	select {
	case <-term.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("event pump still running after Shutdown")
	}
}

func TestTerminalPollAfterShutdown(t *testing.T) {
	term, _ := newSimTerminal(t)
	term.Shutdown()

	closed := make(chan struct{})
	go func() {
		for {
			for _, ev := range term.PollEvents(4) {
				if ev.Type == EventClosed {
					close(closed)
					return
				}
			}
		}
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("PollEvents blocked after Shutdown")
	}
}
