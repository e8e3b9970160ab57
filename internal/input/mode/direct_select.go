package mode

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/store"
	"github.com/dshills/geodraw/internal/surface"
)

// DirectSelectMode edits the vertices of a single feature: select them,
// drag them, insert one at a midpoint and delete them.
type DirectSelectMode struct{}

type directState struct {
	featureID string

	dragMoveLocation orb.Point
	dragMoving       bool
	canDragMove      bool

	// dragPanHeld is set while a press has disabled drag-pan; dragPanWas
	// records whether it was enabled before.
	dragPanHeld bool
	dragPanWas  bool

	selectedPaths []string
	before        []*geojson.Feature
}

// NewDirectSelect creates the direct_select mode.
func NewDirectSelect() *DirectSelectMode {
	return &DirectSelectMode{}
}

// Name returns "direct_select".
func (m *DirectSelectMode) Name() string {
	return DirectSelect
}

// OnSetup requires opts.FeatureID to name a feature that is not a Point.
func (m *DirectSelectMode) OnSetup(c *Context, opts Options) (State, error) {
	if opts.FeatureID == "" {
		return nil, ErrMissingFeature
	}
	f, ok := c.Store.Get(opts.FeatureID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingFeature, opts.FeatureID)
	}
	if f.Kind() == geo.KindPoint {
		return nil, fmt.Errorf("%w: %s is a %s", ErrUnsupportedFeature, f.ID(), f.Kind())
	}

	st := &directState{featureID: f.ID()}
	if opts.StartPos != nil {
		st.dragMoveLocation = *opts.StartPos
	}
	if opts.CoordPath != "" {
		st.selectedPaths = []string{opts.CoordPath}
	}

	c.Store.SetSelected(st.featureID)
	c.Store.SetSelectedCoordinates(m.pathsToCoordinates(st))
	c.Surface.DoubleClickZoom().Disable()
	c.Store.SetActionable(store.Actionable{Trash: true})
	st.before = []*geojson.Feature{f.ToGeoJSON()}
	return st, nil
}

// OnStop releases drag-pan and double-click zoom and clears the vertex
// selection.
func (m *DirectSelectMode) OnStop(c *Context, state State) {
	m.stopDragging(c, state.(*directState))
	c.Surface.DoubleClickZoom().Enable()
	c.Store.ClearSelectedCoordinates()
}

func (m *DirectSelectMode) feature(c *Context, st *directState) (*geo.Feature, bool) {
	return c.Store.Get(st.featureID)
}

func (m *DirectSelectMode) pathsToCoordinates(st *directState) []store.Coordinate {
	out := make([]store.Coordinate, 0, len(st.selectedPaths))
	for _, p := range st.selectedPaths {
		path, err := geo.ParsePath(p)
		if err != nil {
			continue
		}
		out = append(out, store.Coordinate{FeatureID: st.featureID, Path: path})
	}
	return out
}

func (m *DirectSelectMode) fireUpdate(c *Context, st *directState) {
	f, ok := m.feature(c, st)
	if !ok {
		return
	}
	after := []*geojson.Feature{f.ToGeoJSON()}
	Publish(c, events.TopicFeatureUpdated, events.FeatureUpdated{
		Action:   events.ActionChangeCoordinates,
		Features: after,
		Before:   st.before,
	})
	st.before = []*geojson.Feature{f.ToGeoJSON()}
}

func (m *DirectSelectMode) fireActionable(c *Context, st *directState) {
	c.Store.SetActionable(store.Actionable{Trash: len(st.selectedPaths) > 0})
}

func (m *DirectSelectMode) startDragging(c *Context, st *directState, e mouse.Event) {
	if !st.dragPanHeld {
		st.dragPanWas = c.Surface.DragPan().IsEnabled()
		st.dragPanHeld = true
		c.Surface.DragPan().Disable()
	}
	st.canDragMove = true
	st.dragMoveLocation = e.LngLat
}

func (m *DirectSelectMode) stopDragging(c *Context, st *directState) {
	if st.dragPanHeld && st.dragPanWas {
		c.Surface.DragPan().Enable()
	}
	st.dragPanHeld = false
	st.dragMoving = false
	st.canDragMove = false
}

func (m *DirectSelectMode) onVertex(c *Context, st *directState, e mouse.Event) {
	m.startDragging(c, st, e)
	path, _ := e.Target.Properties[geo.PropCoordPath].(string)

	idx := -1
	for i, p := range st.selectedPaths {
		if p == path {
			idx = i
			break
		}
	}
	switch {
	case !e.IsShift() && idx == -1:
		st.selectedPaths = []string{path}
	case e.IsShift() && idx == -1:
		st.selectedPaths = append(st.selectedPaths, path)
	}
	c.Store.SetSelectedCoordinates(m.pathsToCoordinates(st))
}

func (m *DirectSelectMode) onMidpoint(c *Context, st *directState, e mouse.Event) {
	m.startDragging(c, st, e)
	f, ok := m.feature(c, st)
	if !ok {
		return
	}
	raw, _ := e.Target.Properties[geo.PropCoordPath].(string)
	path, err := geo.ParsePath(raw)
	if err != nil {
		return
	}
	pt, _ := geo.DisplayPoint(e.Target)
	if err := f.AddCoordinate(path, pt); err != nil {
		c.Log.Warn("insert vertex %s at %s: %v", st.featureID, raw, err)
		return
	}
	c.Store.MarkDirty(st.featureID)
	m.fireUpdate(c, st)
	st.selectedPaths = []string{raw}
	c.Store.SetSelectedCoordinates(m.pathsToCoordinates(st))
}

func (m *DirectSelectMode) onFeature(c *Context, st *directState, e mouse.Event) {
	if len(st.selectedPaths) == 0 {
		m.startDragging(c, st, e)
	} else {
		m.stopDragging(c, st)
	}
}

// OnMouseDown starts a vertex or feature drag, or inserts a vertex at a
// midpoint.
func (m *DirectSelectMode) OnMouseDown(c *Context, state State, e mouse.Event) Result {
	st := state.(*directState)
	switch {
	case IsVertex(e):
		m.onVertex(c, st, e)
	case IsActiveFeature(e):
		m.onFeature(c, st, e)
	case IsMidpoint(e):
		m.onMidpoint(c, st, e)
	}
	return Render
}

// OnTouchStart behaves as OnMouseDown.
func (m *DirectSelectMode) OnTouchStart(c *Context, state State, e mouse.Event) Result {
	return m.OnMouseDown(c, state, e)
}

// OnDrag moves the selected vertices, or the whole feature when no vertex
// is selected.
func (m *DirectSelectMode) OnDrag(c *Context, state State, e mouse.Event) Result {
	st := state.(*directState)
	if !st.canDragMove {
		return Render
	}
	st.dragMoving = true

	delta := orb.Point{
		e.LngLat[0] - st.dragMoveLocation[0],
		e.LngLat[1] - st.dragMoveLocation[1],
	}
	if len(st.selectedPaths) > 0 {
		m.dragVertex(c, st, delta)
	} else {
		selected := c.Store.Selected()
		geo.MoveFeatures(selected, delta)
		for _, f := range selected {
			c.Store.MarkDirty(f.ID())
		}
	}
	st.dragMoveLocation = e.LngLat
	return Render
}

func (m *DirectSelectMode) dragVertex(c *Context, st *directState, delta orb.Point) {
	f, ok := m.feature(c, st)
	if !ok {
		return
	}
	coords := m.pathsToCoordinates(st)
	paths := make([]geo.CoordPath, 0, len(coords))
	bounds := make([]orb.Bound, 0, len(coords))
	for _, sc := range coords {
		pt, err := f.CoordinateAt(sc.Path)
		if err != nil {
			continue
		}
		paths = append(paths, sc.Path)
		bounds = append(bounds, pt.Bound())
	}
	f.MoveCoordinates(paths, geo.ConstrainDelta(bounds, delta))
	c.Store.MarkDirty(st.featureID)
}

// OnMouseUp reports a finished drag.
func (m *DirectSelectMode) OnMouseUp(c *Context, state State, e mouse.Event) Result {
	st := state.(*directState)
	if st.dragMoving {
		m.fireUpdate(c, st)
	}
	m.stopDragging(c, st)
	return Render
}

// OnTouchEnd behaves as OnMouseUp.
func (m *DirectSelectMode) OnTouchEnd(c *Context, state State, e mouse.Event) Result {
	return m.OnMouseUp(c, state, e)
}

// OnMouseMove updates the cursor hint and closes a drag whose release was
// missed.
func (m *DirectSelectMode) OnMouseMove(c *Context, state State, e mouse.Event) Result {
	st := state.(*directState)
	onFeature := IsActiveFeature(e)
	onVertex := IsVertex(e)
	noCoords := len(st.selectedPaths) == 0

	switch {
	case onFeature && noCoords:
		c.SetCursor(surface.CursorMove)
	case onVertex && !noCoords:
		c.SetCursor(surface.CursorMove)
	default:
		c.SetCursor(surface.CursorNone)
	}

	draggable := onVertex || onFeature || IsMidpoint(e)
	if draggable && st.dragMoving {
		m.fireUpdate(c, st)
	}
	m.stopDragging(c, st)
	return SkipRender
}

// OnMouseOut reports a drag leaving the surface.
func (m *DirectSelectMode) OnMouseOut(c *Context, state State, e mouse.Event) Result {
	st := state.(*directState)
	if st.dragMoving {
		m.fireUpdate(c, st)
	}
	return SkipRender
}

// OnClick leaves the mode on empty space or another feature and clears the
// vertex selection on the edited feature.
func (m *DirectSelectMode) OnClick(c *Context, state State, e mouse.Event) Result {
	st := state.(*directState)
	switch {
	case NoTarget(e), IsInactiveFeature(e):
		if err := c.ChangeMode(SimpleSelect, Options{}); err != nil {
			c.Log.Warn("leave direct_select: %v", err)
		}
		return Render
	case IsActiveFeature(e):
		st.selectedPaths = nil
		c.Store.ClearSelectedCoordinates()
		c.Store.MarkDirty(st.featureID)
	}
	m.stopDragging(c, st)
	return Render
}

// OnTap behaves as OnClick.
func (m *DirectSelectMode) OnTap(c *Context, state State, e mouse.Event) Result {
	return m.OnClick(c, state, e)
}

// OnTrash deletes the selected vertices. A feature left without enough
// vertices is deleted and the mode returns to simple_select.
func (m *DirectSelectMode) OnTrash(c *Context, state State) {
	st := state.(*directState)
	f, ok := m.feature(c, st)
	if !ok {
		return
	}

	paths := m.pathsToCoordinates(st)
	sort.Slice(paths, func(i, j int) bool {
		return comparePaths(paths[i].Path, paths[j].Path) > 0
	})
	for _, p := range paths {
		if err := f.RemoveCoordinate(p.Path); err != nil {
			c.Log.Warn("remove vertex %s: %v", p.Path, err)
		}
	}
	c.Store.MarkDirty(st.featureID)
	m.fireUpdate(c, st)

	st.selectedPaths = nil
	c.Store.ClearSelectedCoordinates()
	m.fireActionable(c, st)

	if !f.IsValid() {
		c.Store.Delete([]string{st.featureID}, store.DeleteOptions{})
		if err := c.ChangeMode(SimpleSelect, Options{}); err != nil {
			c.Log.Warn("leave direct_select: %v", err)
		}
	}
}

// ToDisplayFeatures shows the edited feature active with vertex and
// midpoint handles; every other feature is inactive.
func (m *DirectSelectMode) ToDisplayFeatures(c *Context, state State, gf *geojson.Feature, emit Emit) {
	st := state.(*directState)
	if geo.DisplayID(gf) == st.featureID {
		gf.Properties[geo.PropActive] = geo.ActiveTrue
		emit(gf)
		for _, h := range c.SupplementaryPoints(gf, geo.HandleOptions{
			Midpoints:     true,
			SelectedPaths: st.selectedPaths,
		}) {
			emit(h)
		}
	} else {
		gf.Properties[geo.PropActive] = geo.ActiveFalse
		emit(gf)
	}
	m.fireActionable(c, st)
}

// comparePaths orders paths index by index, shorter prefix first.
func comparePaths(a, b geo.CoordPath) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}
