package mode

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/surface"
)

// DrawPolygonMode builds a single-ring Polygon one click at a time.
// Clicking the first or last vertex or pressing Enter finishes; Escape
// cancels.
type DrawPolygonMode struct{}

// NewDrawPolygon creates the draw_polygon mode.
func NewDrawPolygon() *DrawPolygonMode {
	return &DrawPolygonMode{}
}

// Name returns "draw_polygon".
func (m *DrawPolygonMode) Name() string {
	return DrawPolygon
}

// OnSetup adds a polygon with one empty ring.
func (m *DrawPolygonMode) OnSetup(c *Context, opts Options) (State, error) {
	st, err := startDrawing(c, orb.Polygon{orb.Ring{}})
	if err != nil {
		return nil, err
	}
	c.SetCursor(surface.CursorAdd)
	return st, nil
}

// OnStop completes or discards the polygon.
func (m *DrawPolygonMode) OnStop(c *Context, state State) {
	st := state.(*drawState)
	c.SetCursor(surface.CursorNone)
	stopDrawing(c, st, geo.CoordPath{0, st.position})
}

// OnClick adds a vertex, or finishes on a vertex handle.
func (m *DrawPolygonMode) OnClick(c *Context, state State, e mouse.Event) Result {
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
		if last, err := f.CoordinateAt(geo.CoordPath{0, st.position - 1}); err == nil && last == e.LngLat {
			finishDrawing(c, st)
			return Render
		}
	}

	c.SetCursor(surface.CursorAdd)
	_ = setVertex(f, geo.CoordPath{0, st.position}, e.LngLat)
	st.position++
	_ = setVertex(f, geo.CoordPath{0, st.position}, e.LngLat)
	c.Store.MarkDirty(st.featureID)
	return Render
}

// OnTap behaves as OnClick.
func (m *DrawPolygonMode) OnTap(c *Context, state State, e mouse.Event) Result {
	return m.OnClick(c, state, e)
}

// OnMouseMove moves the trailing vertex to the pointer.
func (m *DrawPolygonMode) OnMouseMove(c *Context, state State, e mouse.Event) Result {
	st := state.(*drawState)
	f, ok := c.Store.Get(st.featureID)
	if !ok {
		return SkipRender
	}
	_ = setVertex(f, geo.CoordPath{0, st.position}, e.LngLat)
	c.Store.MarkDirty(st.featureID)
	if IsVertex(e) {
		c.SetCursor(surface.CursorPointer)
	}
	return Render
}

// OnKeyUp finishes on Enter and cancels on Escape.
func (m *DrawPolygonMode) OnKeyUp(c *Context, state State, e key.Event) Result {
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
func (m *DrawPolygonMode) OnTrash(c *Context, state State) {
	cancelDrawing(c, state.(*drawState))
}

// ToDisplayFeatures shows the polygon being drawn. With two placed
// vertices only their connecting line is shown; handles mark the first
// and the last placed vertex.
func (m *DrawPolygonMode) ToDisplayFeatures(c *Context, state State, gf *geojson.Feature, emit Emit) {
	st := state.(*drawState)
	if geo.DisplayID(gf) != st.featureID {
		gf.Properties[geo.PropActive] = geo.ActiveFalse
		emit(gf)
		return
	}
	gf.Properties[geo.PropActive] = geo.ActiveTrue

	f, ok := c.Store.Get(st.featureID)
	if !ok {
		return
	}
	n := len(f.VertexPaths())
	if n < 2 {
		return
	}

	first, _ := f.CoordinateAt(geo.CoordPath{0, 0})
	emit(geo.NewVertex(st.featureID, first, "0.0", false))
	if n > 2 {
		last := geo.CoordPath{0, n - 2}
		pt, _ := f.CoordinateAt(last)
		emit(geo.NewVertex(st.featureID, pt, last.String(), false))
	}
	if n <= 3 {
		second, _ := f.CoordinateAt(geo.CoordPath{0, 1})
		edge := geojson.NewFeature(orb.LineString{first, second})
		edge.Properties[geo.PropParent] = st.featureID
		edge.Properties[geo.PropActive] = geo.ActiveTrue
		emit(edge)
	}
	if n == 2 {
		return
	}
	emit(gf)
}
