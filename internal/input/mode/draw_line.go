package mode

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/surface"
)

// DrawLineStringMode builds a LineString one click at a time. Clicking the
// last vertex or pressing Enter finishes; Escape cancels.
type DrawLineStringMode struct{}

// NewDrawLineString creates the draw_line_string mode.
func NewDrawLineString() *DrawLineStringMode {
	return &DrawLineStringMode{}
}

// Name returns "draw_line_string".
func (m *DrawLineStringMode) Name() string {
	return DrawLineString
}

// OnSetup adds an empty line.
func (m *DrawLineStringMode) OnSetup(c *Context, opts Options) (State, error) {
	st, err := startDrawing(c, orb.LineString{})
	if err != nil {
		return nil, err
	}
	c.SetCursor(surface.CursorAdd)
	return st, nil
}

// OnStop completes or discards the line.
func (m *DrawLineStringMode) OnStop(c *Context, state State) {
	st := state.(*drawState)
	c.SetCursor(surface.CursorNone)
	stopDrawing(c, st, geo.CoordPath{st.position})
}

// OnClick adds a vertex, or finishes on the last one.
func (m *DrawLineStringMode) OnClick(c *Context, state State, e mouse.Event) Result {
	st := state.(*drawState)
	if IsVertex(e) {
		finishDrawing(c, st)
		return Render
	}

	f, ok := c.Store.Get(st.featureID)
	if !ok {
		return SkipRender
	}
	if st.position > 0 {
		if last, err := f.CoordinateAt(geo.CoordPath{st.position - 1}); err == nil && last == e.LngLat {
			finishDrawing(c, st)
			return Render
		}
	}

	c.SetCursor(surface.CursorAdd)
	_ = setVertex(f, geo.CoordPath{st.position}, e.LngLat)
	st.position++
	_ = setVertex(f, geo.CoordPath{st.position}, e.LngLat)
	c.Store.MarkDirty(st.featureID)
	return Render
}

// OnTap behaves as OnClick.
func (m *DrawLineStringMode) OnTap(c *Context, state State, e mouse.Event) Result {
	return m.OnClick(c, state, e)
}

// OnMouseMove moves the trailing vertex to the pointer.
func (m *DrawLineStringMode) OnMouseMove(c *Context, state State, e mouse.Event) Result {
	st := state.(*drawState)
	f, ok := c.Store.Get(st.featureID)
	if !ok {
		return SkipRender
	}
	_ = setVertex(f, geo.CoordPath{st.position}, e.LngLat)
	c.Store.MarkDirty(st.featureID)
	if IsVertex(e) {
		c.SetCursor(surface.CursorPointer)
	}
	return Render
}

// OnKeyUp finishes on Enter and cancels on Escape.
func (m *DrawLineStringMode) OnKeyUp(c *Context, state State, e key.Event) Result {
	st := state.(*drawState)
	switch e.Key {
	case key.KeyEnter:
		finishDrawing(c, st)
	case key.KeyEscape:
		cancelDrawing(c, st)
	}
	return Render
}

// OnTrash cancels drawing.
func (m *DrawLineStringMode) OnTrash(c *Context, state State) {
	cancelDrawing(c, state.(*drawState))
}

// ToDisplayFeatures shows the line being drawn once it has a segment,
// with a handle on its last placed vertex.
func (m *DrawLineStringMode) ToDisplayFeatures(c *Context, state State, gf *geojson.Feature, emit Emit) {
	st := state.(*drawState)
	active := geo.DisplayID(gf) == st.featureID
	if !active {
		gf.Properties[geo.PropActive] = geo.ActiveFalse
		emit(gf)
		return
	}
	gf.Properties[geo.PropActive] = geo.ActiveTrue

	ls, _ := gf.Geometry.(orb.LineString)
	if len(ls) < 2 {
		return
	}
	last := len(ls) - 2
	emit(geo.NewVertex(st.featureID, ls[last], strconv.Itoa(last), false))
	emit(gf)
}
