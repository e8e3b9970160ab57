package mode

import (
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/store"
	"github.com/dshills/geodraw/internal/surface"
)

// DrawPointMode places a single Point and hands it to simple_select.
type DrawPointMode struct{}

// NewDrawPoint creates the draw_point mode.
func NewDrawPoint() *DrawPointMode {
	return &DrawPointMode{}
}

// Name returns "draw_point".
func (m *DrawPointMode) Name() string {
	return DrawPoint
}

// OnSetup clears the selection.
func (m *DrawPointMode) OnSetup(c *Context, opts Options) (State, error) {
	c.Store.ClearSelected()
	c.SetCursor(surface.CursorAdd)
	c.Store.SetActionable(store.Actionable{Trash: true})
	return nil, nil
}

// OnStop resets the cursor.
func (m *DrawPointMode) OnStop(c *Context, state State) {
	c.SetCursor(surface.CursorNone)
}

// OnClick creates the point under the pointer.
func (m *DrawPointMode) OnClick(c *Context, state State, e mouse.Event) Result {
	f, err := geo.New(c.Store.NewID(), e.LngLat, nil)
	if err != nil {
		c.Log.Error("draw point: %v", err)
		return SkipRender
	}
	c.Store.Add(f)
	c.SetCursor(surface.CursorMove)
	Publish(c, events.TopicFeatureCreated, events.FeaturesCreated{
		Features: []*geojson.Feature{f.ToGeoJSON()},
	})
	if err := c.ChangeMode(SimpleSelect, Options{FeatureIDs: []string{f.ID()}}); err != nil {
		c.Log.Warn("finish point: %v", err)
	}
	return Render
}

// OnTap behaves as OnClick.
func (m *DrawPointMode) OnTap(c *Context, state State, e mouse.Event) Result {
	return m.OnClick(c, state, e)
}

// OnKeyUp cancels on Escape or Enter.
func (m *DrawPointMode) OnKeyUp(c *Context, state State, e key.Event) Result {
	if e.Key == key.KeyEscape || e.Key == key.KeyEnter {
		m.cancel(c)
	}
	return Render
}

// OnTrash cancels drawing.
func (m *DrawPointMode) OnTrash(c *Context, state State) {
	m.cancel(c)
}

func (m *DrawPointMode) cancel(c *Context) {
	if err := c.ChangeMode(SimpleSelect, Options{}); err != nil {
		c.Log.Warn("cancel point: %v", err)
	}
}

// ToDisplayFeatures shows every feature inactive.
func (m *DrawPointMode) ToDisplayFeatures(c *Context, state State, gf *geojson.Feature, emit Emit) {
	gf.Properties[geo.PropActive] = geo.ActiveFalse
	emit(gf)
}
