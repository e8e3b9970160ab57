// Package surface defines the host surface the interaction modes act on:
// gesture toggles, the box-select overlay, cursor hints and the map
// projection.
//
// Two implementations are provided. Headless keeps everything in memory and
// is what tests and embedding hosts use. Terminal draws the display list on
// a tcell screen.
package surface

import (
	"github.com/paulmach/orb"

	"github.com/dshills/geodraw/internal/input/mouse"
)

// Toggle is a host gesture that a mode may disable while it owns the
// pointer, such as drag-to-pan.
type Toggle interface {
	Enable()
	Disable()
	IsEnabled() bool
}

// Box is a screen-space rectangle.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoxFrom returns the rectangle spanned by two corners in any order.
func BoxFrom(a, b mouse.Position) Box {
	return Box{
		MinX: min(a.X, b.X),
		MinY: min(a.Y, b.Y),
		MaxX: max(a.X, b.X),
		MaxY: max(a.Y, b.Y),
	}
}

// Width returns the horizontal extent.
func (b Box) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent.
func (b Box) Height() float64 {
	return b.MaxY - b.MinY
}

// Overlay is the container for transient UI drawn over the map.
type Overlay interface {
	// ShowBox displays or moves the box-select rectangle.
	ShowBox(b Box)

	// HideBox removes the rectangle if present.
	HideBox()

	// Box returns the rectangle and whether it is shown.
	Box() (Box, bool)
}

// Cursor is a pointer shape hint.
type Cursor string

// Cursor hints set by modes.
const (
	CursorNone    Cursor = ""
	CursorPointer Cursor = "pointer"
	CursorMove    Cursor = "move"
	CursorAdd     Cursor = "add"
	CursorDrag    Cursor = "drag"
)

// Surface is the host collaborator a mode manipulates.
type Surface interface {
	DragPan() Toggle
	DoubleClickZoom() Toggle
	Overlay() Overlay

	// Project converts a map coordinate into screen pixels.
	Project(lngLat orb.Point) mouse.Position

	// Unproject converts screen pixels into a map coordinate.
	Unproject(pos mouse.Position) orb.Point

	SetCursor(c Cursor)
	Cursor() Cursor
}

// switchToggle is an in-memory Toggle that counts disables so tests can
// check every disable was paired with an enable.
type switchToggle struct {
	enabled  bool
	disables int
}

func newSwitchToggle() *switchToggle {
	return &switchToggle{enabled: true}
}

func (t *switchToggle) Enable() {
	t.enabled = true
}

func (t *switchToggle) Disable() {
	t.enabled = false
	t.disables++
}

func (t *switchToggle) IsEnabled() bool {
	return t.enabled
}

// boxOverlay is an in-memory Overlay.
type boxOverlay struct {
	box   Box
	shown bool
}

func (o *boxOverlay) ShowBox(b Box) {
	o.box = b
	o.shown = true
}

func (o *boxOverlay) HideBox() {
	o.shown = false
	o.box = Box{}
}

func (o *boxOverlay) Box() (Box, bool) {
	return o.box, o.shown
}
