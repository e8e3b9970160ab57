package draw

import "errors"

var (
	// ErrNotCollection is returned by Set for input that is not a FeatureCollection.
	ErrNotCollection = errors.New("input is not a FeatureCollection")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("draw session closed")

	// ErrNoSurface is returned by New without a surface.
	ErrNoSurface = errors.New("draw requires a surface")
)
