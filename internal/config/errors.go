package config

import (
	"errors"
	"strings"
)

// ErrInvalidOptions is matched by every ValidationError.
var ErrInvalidOptions = errors.New("invalid options")

// ValidationError lists the problems found in a set of options.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid options: " + strings.Join(e.Problems, "; ")
}

// Is reports whether target is ErrInvalidOptions.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidOptions
}
