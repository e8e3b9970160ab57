package mode

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mouse"
)

// Built-in mode names.
const (
	SimpleSelect   = "simple_select"
	DirectSelect   = "direct_select"
	DrawPoint      = "draw_point"
	DrawLineString = "draw_line_string"
	DrawPolygon    = "draw_polygon"
	Static         = "static"
)

// State is the private record a mode builds in OnSetup. The Manager hands
// it back to every hook of the same activation and drops it after OnStop.
type State any

// Options are passed to OnSetup.
type Options struct {
	// FeatureIDs are selected on entry by select modes.
	FeatureIDs []string

	// FeatureID is the feature edited by direct_select.
	FeatureID string

	// CoordPath is the vertex selected on entry by direct_select.
	CoordPath string

	// StartPos is the map location of the gesture that caused the change.
	StartPos *orb.Point

	// Extra carries options for custom modes.
	Extra map[string]any
}

// Emit receives a display feature during a render pass.
type Emit func(gf *geojson.Feature)

// Mode is the lifecycle contract every mode implements.
type Mode interface {
	// Name returns the unique mode identifier (e.g., "simple_select").
	Name() string

	// OnSetup builds the state of a new activation. It may change the
	// selection and should set the actionable flags that apply.
	OnSetup(ctx *Context, opts Options) (State, error)

	// OnStop reverts every side effect of the activation. It runs exactly
	// once per successful OnSetup.
	OnStop(ctx *Context, state State)

	// ToDisplayFeatures forwards a feature, and any handles it needs, to
	// emit. gf is a fresh display copy the mode may modify.
	ToDisplayFeatures(ctx *Context, state State, gf *geojson.Feature, emit Emit)
}

// Result tells the Manager whether a handler needs a render pass.
type Result uint8

const (
	// Render runs a render pass after the handler.
	Render Result = iota
	// SkipRender leaves the display list as it is.
	SkipRender
)

// ClickHandler handles mouse clicks.
type ClickHandler interface {
	OnClick(ctx *Context, state State, e mouse.Event) Result
}

// TapHandler handles touch taps.
type TapHandler interface {
	OnTap(ctx *Context, state State, e mouse.Event) Result
}

// MouseDownHandler handles button presses.
type MouseDownHandler interface {
	OnMouseDown(ctx *Context, state State, e mouse.Event) Result
}

// MouseUpHandler handles button releases that were not clicks.
type MouseUpHandler interface {
	OnMouseUp(ctx *Context, state State, e mouse.Event) Result
}

// MouseMoveHandler handles pointer movement with no button held.
type MouseMoveHandler interface {
	OnMouseMove(ctx *Context, state State, e mouse.Event) Result
}

// DragHandler handles pointer movement with a button or finger down.
type DragHandler interface {
	OnDrag(ctx *Context, state State, e mouse.Event) Result
}

// MouseOutHandler handles the pointer leaving the surface.
type MouseOutHandler interface {
	OnMouseOut(ctx *Context, state State, e mouse.Event) Result
}

// TouchStartHandler handles touch starts.
type TouchStartHandler interface {
	OnTouchStart(ctx *Context, state State, e mouse.Event) Result
}

// TouchMoveHandler handles touch movement.
type TouchMoveHandler interface {
	OnTouchMove(ctx *Context, state State, e mouse.Event) Result
}

// TouchEndHandler handles touch ends that were not taps.
type TouchEndHandler interface {
	OnTouchEnd(ctx *Context, state State, e mouse.Event) Result
}

// KeyDownHandler handles key presses not bound to a shortcut.
type KeyDownHandler interface {
	OnKeyDown(ctx *Context, state State, e key.Event) Result
}

// KeyUpHandler handles key releases not bound to a shortcut.
type KeyUpHandler interface {
	OnKeyUp(ctx *Context, state State, e key.Event) Result
}

// TrashHandler handles the trash command.
type TrashHandler interface {
	OnTrash(ctx *Context, state State)
}

// CombineHandler handles the combine command.
type CombineHandler interface {
	OnCombineFeatures(ctx *Context, state State)
}

// UncombineHandler handles the uncombine command.
type UncombineHandler interface {
	OnUncombineFeatures(ctx *Context, state State)
}
