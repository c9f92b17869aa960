package menu

import (
	"errors"
	"fmt"
)

// Menu errors.
var (
	// ErrNoBackend indicates a Context was created without a display backend.
	ErrNoBackend = errors.New("no display backend")

	// ErrClosed indicates the Context has been closed.
	ErrClosed = errors.New("menu context closed")

	// ErrMenuNotFound indicates the menu is not registered.
	ErrMenuNotFound = errors.New("menu not found")

	// ErrNoItems indicates a menu was enabled without any options.
	ErrNoItems = errors.New("menu has no options")

	// ErrSurface indicates an off-screen surface could not be allocated.
	ErrSurface = errors.New("surface allocation failed")
)

// FatalError is an unrecoverable engine failure. The Context reports it
// and terminates the process through its exit hook.
type FatalError struct {
	Op  string // Operation that failed (e.g., "enable", "create")
	Err error  // Underlying error
}

func (e *FatalError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
