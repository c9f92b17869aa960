package script

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when the runtime has been closed.
var ErrClosed = errors.New("script runtime closed")

// CallbackError reports a Lua item callback that raised an error. The
// first such error stops all menus and is returned by DoFile or DoString.
type CallbackError struct {
	// Item is the text of the activated item.
	Item string
	// Err is the Lua error.
	Err error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback for %q: %v", e.Item, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}
