package mode

import (
	"errors"
	"fmt"
)

// Sentinel errors for mode management.
var (
	// ErrUnknownMode is returned when changing to a name nobody registered.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrNoActiveMode is returned when dispatching before any mode was set.
	ErrNoActiveMode = errors.New("no active mode")

	// ErrTransitionInProgress is returned when a mode change is requested
	// while another one is running.
	ErrTransitionInProgress = errors.New("mode transition in progress")

	// ErrActiveMode is returned when unregistering the active mode.
	ErrActiveMode = errors.New("mode is active")

	// ErrMissingFeature is returned by a setup that needs a feature id and
	// got none, or got one that is not in the store.
	ErrMissingFeature = errors.New("mode requires an existing feature")

	// ErrUnsupportedFeature is returned by a setup handed a feature kind it
	// cannot edit.
	ErrUnsupportedFeature = errors.New("feature kind not supported by mode")
)

// ModeError wraps an error returned by a mode hook.
type ModeError struct {
	Mode string
	Hook string
	Err  error
}

// Error implements the error interface.
func (e *ModeError) Error() string {
	return fmt.Sprintf("mode %s: %s: %v", e.Mode, e.Hook, e.Err)
}

// Unwrap returns the hook error.
func (e *ModeError) Unwrap() error {
	return e.Err
}
