package mode

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/store"
)

// drawState is shared by the line and polygon drawing modes. The feature
// under construction always carries one trailing vertex that follows the
// pointer; position is its index.
type drawState struct {
	featureID string
	position  int
}

// startDrawing adds an empty feature and clears the selection.
func startDrawing(c *Context, g orb.Geometry) (*drawState, error) {
	f, err := geo.New(c.Store.NewID(), g, nil)
	if err != nil {
		return nil, err
	}
	c.Store.Add(f)
	c.Store.ClearSelected()
	c.Surface.DoubleClickZoom().Disable()
	c.Store.SetActionable(store.Actionable{Trash: true})
	return &drawState{featureID: f.ID()}, nil
}

// setVertex moves the vertex at path, appending it when path is one past
// the end.
func setVertex(f *geo.Feature, path geo.CoordPath, pt orb.Point) error {
	if err := f.UpdateCoordinate(path, pt); err == nil {
		return nil
	}
	return f.AddCoordinate(path, pt)
}

// stopDrawing drops the trailing vertex, then reports the feature as
// created when it is valid and deletes it otherwise.
func stopDrawing(c *Context, st *drawState, trailing geo.CoordPath) {
	c.Surface.DoubleClickZoom().Enable()
	f, ok := c.Store.Get(st.featureID)
	if !ok {
		return
	}
	if len(f.VertexPaths()) > 0 {
		if err := f.RemoveCoordinate(trailing); err != nil {
			c.Log.Warn("drop trailing vertex %s of %s: %v", trailing, st.featureID, err)
		}
	}
	if !f.IsValid() {
		c.Store.Delete([]string{st.featureID}, store.DeleteOptions{Silent: true})
		return
	}
	c.Store.MarkDirty(st.featureID)
	Publish(c, events.TopicFeatureCreated, events.FeaturesCreated{
		Features: []*geojson.Feature{f.ToGeoJSON()},
	})
}

// finishDrawing hands the feature to simple_select; OnStop completes it.
func finishDrawing(c *Context, st *drawState) {
	if err := c.ChangeMode(SimpleSelect, Options{FeatureIDs: []string{st.featureID}}); err != nil {
		c.Log.Warn("finish drawing: %v", err)
	}
}

// cancelDrawing deletes the feature and returns to simple_select.
func cancelDrawing(c *Context, st *drawState) {
	c.Store.Delete([]string{st.featureID}, store.DeleteOptions{Silent: true})
	if err := c.ChangeMode(SimpleSelect, Options{}); err != nil {
		c.Log.Warn("cancel drawing: %v", err)
	}
}
