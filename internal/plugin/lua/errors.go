package lua

import (
	"errors"
	"fmt"
)

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotAModule is returned when a script does not return a hook table.
	ErrNotAModule = errors.New("script must return a table of hooks")

	// ErrNoContext is raised when the draw module is used outside a hook.
	ErrNoContext = errors.New("draw module used outside a mode hook")
)

// HookError reports a failed hook call.
type HookError struct {
	Mode string
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("lua mode %s: %s: %v", e.Mode, e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
