package store

import "errors"

// Sentinel errors for store operations that the host calls directly.
// Mode-driven operations never fail; they treat a missing id as absence.
var (
	// ErrFeatureNotFound is returned when an id is not in the store.
	ErrFeatureNotFound = errors.New("feature not found")
)
