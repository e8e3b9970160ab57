package surface

import (
	"github.com/paulmach/orb"

	"github.com/dshills/geodraw/internal/input/mouse"
)

// Headless is an in-memory Surface with a linear viewport.
type Headless struct {
	Viewport Viewport

	dragPan         *switchToggle
	doubleClickZoom *switchToggle
	overlay         boxOverlay
	cursor          Cursor
}

// NewHeadless creates a headless surface over vp.
func NewHeadless(vp Viewport) *Headless {
	return &Headless{
		Viewport:        vp,
		dragPan:         newSwitchToggle(),
		doubleClickZoom: newSwitchToggle(),
	}
}

// NewIdentity creates a headless surface whose screen coordinates equal
// map coordinates with the y axis flipped, which keeps test fixtures easy
// to read.
func NewIdentity() *Headless {
	return NewHeadless(Viewport{Scale: 1, Aspect: 1})
}

func (h *Headless) DragPan() Toggle {
	return h.dragPan
}

func (h *Headless) DoubleClickZoom() Toggle {
	return h.doubleClickZoom
}

func (h *Headless) Overlay() Overlay {
	return &h.overlay
}

func (h *Headless) Project(p orb.Point) mouse.Position {
	return h.Viewport.Project(p)
}

func (h *Headless) Unproject(pos mouse.Position) orb.Point {
	return h.Viewport.Unproject(pos)
}

func (h *Headless) SetCursor(c Cursor) {
	h.cursor = c
}

func (h *Headless) Cursor() Cursor {
	return h.cursor
}

// DragPanDisables returns how many times drag-pan was disabled.
func (h *Headless) DragPanDisables() int {
	return h.dragPan.disables
}
