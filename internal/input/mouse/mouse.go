package mouse

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/input/key"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button.
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Action is the kind of raw input a host reports.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press or touch start.
	ActionPress
	// ActionRelease indicates a button release or touch end.
	ActionRelease
	// ActionMove indicates pointer movement.
	ActionMove
	// ActionOut indicates the pointer left the surface.
	ActionOut
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionOut:
		return "out"
	default:
		return "none"
	}
}

// Type is the gesture delivered to a mode handler.
type Type uint8

const (
	TypeNone Type = iota
	TypeMouseDown
	TypeMouseUp
	TypeMouseMove
	TypeDrag
	TypeClick
	TypeMouseOut
	TypeTouchStart
	TypeTouchMove
	TypeTouchEnd
	TypeTap
)

var typeNames = [...]string{
	TypeNone:       "none",
	TypeMouseDown:  "mousedown",
	TypeMouseUp:    "mouseup",
	TypeMouseMove:  "mousemove",
	TypeDrag:       "drag",
	TypeClick:      "click",
	TypeMouseOut:   "mouseout",
	TypeTouchStart: "touchstart",
	TypeTouchMove:  "touchmove",
	TypeTouchEnd:   "touchend",
	TypeTap:        "tap",
}

// String returns the handler name of the gesture.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Position is a screen coordinate in pixels.
type Position struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two positions.
func (p Position) Distance(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Raw is a pointer report from the host.
type Raw struct {
	Action Action

	// Position is the screen location.
	Position Position

	// LngLat is Position unprojected into map space.
	LngLat orb.Point

	// Button is the button involved in a press or release.
	Button Button

	// Held reports whether the primary button is down during a move.
	Held bool

	// Touch marks touch input.
	Touch bool

	Modifiers key.Modifier
	Timestamp time.Time
}

// Event is the descriptor handed to mode handlers.
type Event struct {
	Type Type

	// Position is the screen location in pixels.
	Position Position

	// LngLat is the map-space location.
	LngLat orb.Point

	Button    Button
	Modifiers key.Modifier

	// Target is the rendered feature or handle under the pointer, or nil.
	Target *geojson.Feature

	Timestamp time.Time
}

// IsLeft reports whether the event involves the primary button.
func (e Event) IsLeft() bool {
	return e.Button == ButtonLeft
}

// IsRight reports whether the event involves the secondary button.
func (e Event) IsRight() bool {
	return e.Button == ButtonRight
}

// IsShift reports whether Shift was held.
func (e Event) IsShift() bool {
	return e.Modifiers.HasShift()
}
