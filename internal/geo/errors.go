package geo

import (
	"errors"
	"strings"
)

// Sentinel errors for feature operations.
var (
	// ErrMissingID is returned when a feature is created without an id.
	ErrMissingID = errors.New("feature id is required")

	// ErrUnsupportedGeometry is returned for geometry types the editor cannot hold.
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")

	// ErrKindMismatch is returned when replacing a geometry with one of another kind.
	ErrKindMismatch = errors.New("geometry kind mismatch")

	// ErrInvalidCoordPath is returned when a coordinate path does not address a vertex.
	ErrInvalidCoordPath = errors.New("invalid coordinate path")

	// ErrInvalidGeometry is returned when a geometry fails its structural checks.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidGeoJSON is returned when input fails schema validation.
	ErrInvalidGeoJSON = errors.New("invalid geojson")
)

// ValidationError lists the schema violations found in a GeoJSON document.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidGeoJSON.Error()
	}
	return ErrInvalidGeoJSON.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Is allows errors.Is to match ValidationError with ErrInvalidGeoJSON.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidGeoJSON
}
