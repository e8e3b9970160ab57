package mode

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/store"
	"github.com/dshills/geodraw/internal/surface"
)

// SimpleSelectMode selects whole features, moves them, box-selects, and
// runs the combine, uncombine and trash commands.
type SimpleSelectMode struct{}

// selectState tracks the extended interactions of one activation. The
// drag-move flags and the box-select flags are never set together.
type selectState struct {
	dragMoveLocation orb.Point
	boxSelectStart   mouse.Position
	boxShown         bool

	boxSelecting bool
	canBoxSelect bool
	dragMoving   bool
	canDragMove  bool

	initiallySelected []string
	initialFeatures   []*geojson.Feature
}

// NewSimpleSelect creates the simple_select mode.
func NewSimpleSelect() *SimpleSelectMode {
	return &SimpleSelectMode{}
}

// Name returns "simple_select".
func (m *SimpleSelectMode) Name() string {
	return SimpleSelect
}

// OnSetup selects opts.FeatureIDs that still exist.
func (m *SimpleSelectMode) OnSetup(c *Context, opts Options) (State, error) {
	st := &selectState{initiallySelected: opts.FeatureIDs}

	var live []string
	for _, id := range opts.FeatureIDs {
		if _, ok := c.Store.Get(id); ok {
			live = append(live, id)
		}
	}
	c.Store.SetSelected(live...)
	c.Store.SetActionable(store.Actionable{
		CombineFeatures:   true,
		UncombineFeatures: true,
		Trash:             true,
	})
	return st, nil
}

// OnStop ends any drag or box select and re-enables double-click zoom.
func (m *SimpleSelectMode) OnStop(c *Context, state State) {
	m.stopExtendedInteractions(c, state.(*selectState))
	c.Surface.DoubleClickZoom().Enable()
}

func (m *SimpleSelectMode) stopExtendedInteractions(c *Context, st *selectState) {
	if st.boxShown {
		c.Surface.Overlay().HideBox()
		st.boxShown = false
	}
	c.Surface.DragPan().Enable()

	st.boxSelecting = false
	st.canBoxSelect = false
	st.dragMoving = false
	st.canDragMove = false
}

// fireUpdate reports a finished move against the state captured when the
// drag was armed, then captures the current state for the next one.
func (m *SimpleSelectMode) fireUpdate(c *Context, st *selectState) {
	Publish(c, events.TopicFeatureUpdated, events.FeatureUpdated{
		Action:   events.ActionMove,
		Features: toGeoJSON(c.Store.Selected()),
		Before:   st.initialFeatures,
	})
	m.updateInitialFeatureState(c, st)
}

func (m *SimpleSelectMode) updateInitialFeatureState(c *Context, st *selectState) {
	st.initialFeatures = toGeoJSON(c.Store.Selected())
}

// OnMouseOut fires the pending update of a drag leaving the surface.
func (m *SimpleSelectMode) OnMouseOut(c *Context, state State, e mouse.Event) Result {
	st := state.(*selectState)
	if st.dragMoving {
		m.fireUpdate(c, st)
		return Render
	}
	return SkipRender
}

// OnClick applies the click precedence rules.
func (m *SimpleSelectMode) OnClick(c *Context, state State, e mouse.Event) Result {
	st := state.(*selectState)

	// Only the left button selects once several features are selected.
	if e.IsRight() && len(c.Store.SelectedIDs()) >= 2 {
		return Render
	}

	switch {
	case NoTarget(e):
		m.clickAnywhere(c, st)
	case IsVertex(e), IsMidpoint(e):
		m.clickOnVertex(c, e)
	case IsFeature(e):
		m.clickOnFeature(c, st, e)
	}
	return Render
}

// OnTap behaves as OnClick.
func (m *SimpleSelectMode) OnTap(c *Context, state State, e mouse.Event) Result {
	return m.OnClick(c, state, e)
}

func (m *SimpleSelectMode) clickAnywhere(c *Context, st *selectState) {
	was := c.Store.SelectedIDs()
	if len(was) > 0 {
		c.Store.ClearSelected()
		for _, id := range was {
			c.Store.MarkDirty(id)
		}
	}
	c.Surface.DoubleClickZoom().Enable()
	m.stopExtendedInteractions(c, st)
}

func (m *SimpleSelectMode) clickOnVertex(c *Context, e mouse.Event) {
	start := e.LngLat
	path, _ := e.Target.Properties[geo.PropCoordPath].(string)
	err := c.ChangeMode(DirectSelect, Options{
		FeatureID: geo.DisplayParent(e.Target),
		CoordPath: path,
		StartPos:  &start,
	})
	if err != nil {
		c.Log.Warn("vertex click: %v", err)
		return
	}
	c.SetCursor(surface.CursorMove)
}

func (m *SimpleSelectMode) clickOnFeature(c *Context, st *selectState, e mouse.Event) {
	c.Surface.DoubleClickZoom().Disable()
	m.stopExtendedInteractions(c, st)

	shift := e.IsShift()
	selected := c.Store.SelectedIDs()
	id := geo.DisplayID(e.Target)
	isSelected := c.Store.IsSelected(id)

	f, ok := c.Store.Get(id)
	if !ok || !f.IsSelectable() {
		m.clickAnywhere(c, st)
		return
	}

	switch {
	case !shift && isSelected && f.Kind() != geo.KindPoint:
		if err := c.ChangeMode(DirectSelect, Options{FeatureID: id}); err != nil {
			c.Log.Warn("feature click: %v", err)
		}
		return

	case isSelected && shift:
		c.Store.Deselect(id)
		c.SetCursor(surface.CursorPointer)
		if len(selected) == 1 {
			c.Surface.DoubleClickZoom().Enable()
		}

	case !isSelected && shift:
		c.Store.Select(id)
		c.SetCursor(surface.CursorMove)

	case !isSelected && !shift:
		for _, sid := range selected {
			c.Store.MarkDirty(sid)
		}
		c.Store.SetSelected(id)
		c.SetCursor(surface.CursorMove)
	}

	c.Store.MarkDirty(id)
}

// OnMouseDown arms a drag-move on an active feature, or a box select on a
// shift press.
func (m *SimpleSelectMode) OnMouseDown(c *Context, state State, e mouse.Event) Result {
	st := state.(*selectState)
	if IsActiveFeature(e) {
		m.startOnActiveFeature(c, st, e)
	} else if c.Settings.BoxSelect && IsShiftMouseDown(e) {
		m.startBoxSelect(c, st, e)
	}
	return Render
}

// OnTouchStart arms a drag-move on an active feature.
func (m *SimpleSelectMode) OnTouchStart(c *Context, state State, e mouse.Event) Result {
	if IsActiveFeature(e) {
		m.startOnActiveFeature(c, state.(*selectState), e)
	}
	return Render
}

func (m *SimpleSelectMode) startOnActiveFeature(c *Context, st *selectState, e mouse.Event) {
	m.stopExtendedInteractions(c, st)
	c.Surface.DragPan().Disable()
	c.Store.MarkDirty(geo.DisplayID(e.Target))

	st.canDragMove = true
	st.dragMoveLocation = e.LngLat
	m.updateInitialFeatureState(c, st)
}

func (m *SimpleSelectMode) startBoxSelect(c *Context, st *selectState, e mouse.Event) {
	m.stopExtendedInteractions(c, st)
	c.Surface.DragPan().Disable()
	st.boxSelectStart = e.Position
	st.canBoxSelect = true
}

// OnDrag moves the selection or grows the selection box.
func (m *SimpleSelectMode) OnDrag(c *Context, state State, e mouse.Event) Result {
	st := state.(*selectState)
	if st.canDragMove {
		m.dragMove(c, st, e)
	} else if c.Settings.BoxSelect && st.canBoxSelect {
		m.whileBoxSelect(c, st, e)
	}
	return Render
}

func (m *SimpleSelectMode) whileBoxSelect(c *Context, st *selectState, e mouse.Event) {
	st.boxSelecting = true
	c.SetCursor(surface.CursorAdd)
	c.Surface.Overlay().ShowBox(surface.BoxFrom(st.boxSelectStart, e.Position))
	st.boxShown = true
}

// dragMove applies the frame-to-frame delta to every selected feature.
func (m *SimpleSelectMode) dragMove(c *Context, st *selectState, e mouse.Event) {
	st.dragMoving = true

	delta := orb.Point{
		e.LngLat[0] - st.dragMoveLocation[0],
		e.LngLat[1] - st.dragMoveLocation[1],
	}
	selected := c.Store.Selected()
	geo.MoveFeatures(selected, delta)
	for _, f := range selected {
		c.Store.MarkDirty(f.ID())
	}

	st.dragMoveLocation = e.LngLat
}

// OnMouseUp ends the extended interaction: a drag reports its update, a
// box select adds the selectable features inside the box.
func (m *SimpleSelectMode) OnMouseUp(c *Context, state State, e mouse.Event) Result {
	st := state.(*selectState)
	if st.dragMoving {
		m.fireUpdate(c, st)
	} else if st.boxSelecting {
		m.finishBoxSelect(c, st, e)
	}
	m.stopExtendedInteractions(c, st)
	return Render
}

// OnTouchEnd behaves as OnMouseUp.
func (m *SimpleSelectMode) OnTouchEnd(c *Context, state State, e mouse.Event) Result {
	return m.OnMouseUp(c, state, e)
}

// finishBoxSelect queries the rectangle between the press and e, which
// may have no area at all.
func (m *SimpleSelectMode) finishBoxSelect(c *Context, st *selectState, e mouse.Event) {
	box := [2]mouse.Position{st.boxSelectStart, e.Position}
	hits := c.FeaturesAt(nil, &box, c.Settings.ClickBuffer)

	var ids []string
	seen := make(map[string]bool, len(hits))
	for _, gf := range hits {
		id := geo.DisplayID(gf)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		f, ok := c.Store.Get(id)
		if !ok || !f.IsSelectable() || c.Store.IsSelected(id) {
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		c.Store.Select(ids...)
		for _, id := range ids {
			c.Store.MarkDirty(id)
		}
		c.SetCursor(surface.CursorMove)
	}
}

// ToDisplayFeatures marks selected features active and adds vertex
// handles to active features that are not points.
func (m *SimpleSelectMode) ToDisplayFeatures(c *Context, state State, gf *geojson.Feature, emit Emit) {
	active := c.Store.IsSelected(geo.DisplayID(gf))
	if active {
		gf.Properties[geo.PropActive] = geo.ActiveTrue
	} else {
		gf.Properties[geo.PropActive] = geo.ActiveFalse
	}
	emit(gf)
	c.Store.RecomputeActionable()

	if _, isPoint := gf.Geometry.(orb.Point); !active || isPoint {
		return
	}
	for _, h := range c.SupplementaryPoints(gf, geo.HandleOptions{}) {
		emit(h)
	}
}

// OnTrash deletes the selected features.
func (m *SimpleSelectMode) OnTrash(c *Context, state State) {
	c.Store.Delete(c.Store.SelectedIDs(), store.DeleteOptions{})
	c.Store.RecomputeActionable()
}

// OnCombineFeatures merges the selected features into one Multi feature.
// Features are taken in store order; mixed base kinds leave everything
// untouched.
func (m *SimpleSelectMode) OnCombineFeatures(c *Context, state State) {
	selected := c.Store.SelectedInStoreOrder()
	if len(selected) < 2 {
		return
	}

	base := selected[0].Kind().Base()
	geoms := make([]orb.Geometry, 0, len(selected))
	combined := make([]*geojson.Feature, 0, len(selected))
	for _, f := range selected {
		if f.Kind().Base() != base {
			return
		}
		geoms = append(geoms, f.Geometry())
		combined = append(combined, f.ToGeoJSON())
	}

	geom, ok := geo.CombineGeometries(geoms)
	if !ok {
		return
	}

	first := selected[0]
	props := make(map[string]any, len(first.Properties)+1)
	for k, v := range first.Properties {
		props[k] = v
	}
	delete(props, geo.PropOriginUncombine)
	props[geo.PropOriginCombine] = first.ID()

	multi, err := geo.New(c.Store.NewID(), geom, props)
	if err != nil {
		c.Log.Error("combine: %v", err)
		return
	}

	c.Store.Add(multi)
	c.Store.Delete(c.Store.SelectedIDs(), store.DeleteOptions{Silent: true})
	c.Store.SetSelected(multi.ID())

	for _, gf := range combined {
		gf.Properties[geo.PropOriginUncombine] = multi.ID()
	}
	Publish(c, events.TopicFeatureCombined, events.FeaturesCombined{
		Created: []*geojson.Feature{multi.ToGeoJSON()},
		Deleted: combined,
	})
	c.Store.RecomputeActionable()
}

// OnUncombineFeatures splits every selected Multi feature into its parts
// and selects them.
func (m *SimpleSelectMode) OnUncombineFeatures(c *Context, state State) {
	selected := c.Store.SelectedInStoreOrder()
	if len(selected) == 0 {
		return
	}

	var created, deleted []*geojson.Feature
	for _, f := range selected {
		if !f.IsMultiPart() {
			continue
		}
		parts := f.Parts(c.Store.NewID)
		for _, part := range parts {
			delete(part.Properties, geo.PropOriginCombine)
			part.Properties[geo.PropOriginUncombine] = f.ID()
			c.Store.Add(part)
			created = append(created, part.ToGeoJSON())
			c.Store.Select(part.ID())
		}
		c.Store.Delete([]string{f.ID()}, store.DeleteOptions{Silent: true})

		parent := f.ToGeoJSON()
		if len(parts) > 0 {
			parent.Properties[geo.PropOriginCombine] = parts[0].ID()
		}
		deleted = append(deleted, parent)
	}

	if len(created) > 1 {
		Publish(c, events.TopicFeatureUncombined, events.FeaturesUncombined{
			Created: created,
			Deleted: deleted,
		})
	}
	c.Store.RecomputeActionable()
}
