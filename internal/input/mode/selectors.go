package mode

import (
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/mouse"
)

// NoTarget reports whether the gesture landed on empty space.
func NoTarget(e mouse.Event) bool {
	return e.Target == nil
}

// IsOfMetaType reports whether the target carries the given meta tag.
func IsOfMetaType(e mouse.Event, meta string) bool {
	return e.Target != nil && geo.DisplayMeta(e.Target) == meta
}

// IsFeature reports whether the target is a feature rather than a handle.
func IsFeature(e mouse.Event) bool {
	return IsOfMetaType(e, geo.MetaFeature)
}

// IsVertex reports whether the target is a vertex handle.
func IsVertex(e mouse.Event) bool {
	return IsOfMetaType(e, geo.MetaVertex)
}

// IsMidpoint reports whether the target is a midpoint handle.
func IsMidpoint(e mouse.Event) bool {
	return IsOfMetaType(e, geo.MetaMidpoint)
}

// IsActiveFeature reports whether the target is a feature rendered active.
func IsActiveFeature(e mouse.Event) bool {
	return IsFeature(e) && e.Target.Properties[geo.PropActive] == geo.ActiveTrue
}

// IsInactiveFeature reports whether the target is a feature rendered
// inactive.
func IsInactiveFeature(e mouse.Event) bool {
	return IsFeature(e) && e.Target.Properties[geo.PropActive] == geo.ActiveFalse
}

// IsShiftMouseDown reports a left press with Shift held.
func IsShiftMouseDown(e mouse.Event) bool {
	return e.IsShift() && e.IsLeft()
}
