package mode

import (
	"context"

	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event"
	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/event/topic"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/logging"
	"github.com/dshills/geodraw/internal/store"
	"github.com/dshills/geodraw/internal/surface"
)

// Query is the spatial query collaborator. It returns the display features
// under point (within buffer pixels) or inside box.
type Query interface {
	FeaturesAt(point *mouse.Position, box *[2]mouse.Position, buffer float64) []*geojson.Feature
}

// HandleFunc generates the vertex and midpoint handles of a display
// feature.
type HandleFunc func(gf *geojson.Feature, opts geo.HandleOptions) []*geojson.Feature

// Settings are the options modes read at event time.
type Settings struct {
	// BoxSelect enables shift-drag box selection.
	BoxSelect bool

	// ClickBuffer is the hit radius of a click in pixels.
	ClickBuffer float64

	// TouchBuffer is the hit radius of a touch in pixels.
	TouchBuffer float64

	// UserProperties copies feature properties onto display features.
	UserProperties bool
}

// DefaultSettings returns the standard mode settings.
func DefaultSettings() Settings {
	return Settings{
		BoxSelect:   true,
		ClickBuffer: 2,
		TouchBuffer: 25,
	}
}

// Context gives modes their collaborators. One Context is shared by every
// activation of a Manager.
type Context struct {
	Store    *store.Store
	Surface  surface.Surface
	Query    Query
	Handles  HandleFunc
	Bus      event.Bus
	Settings Settings
	Log      *logging.Logger

	manager *Manager
	ctx     context.Context
}

// Context returns the context of the event being handled.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// ChangeMode replaces the active mode. Called from a handler it takes
// effect immediately; the calling mode has already been stopped when it
// returns.
func (c *Context) ChangeMode(name string, opts Options) error {
	return c.manager.ChangeMode(c.Context(), name, opts)
}

// Mode returns the name of the active mode.
func (c *Context) Mode() string {
	return c.manager.CurrentName()
}

// FeaturesAt runs the spatial query, or returns nil without one.
func (c *Context) FeaturesAt(point *mouse.Position, box *[2]mouse.Position, buffer float64) []*geojson.Feature {
	if c.Query == nil {
		return nil
	}
	return c.Query.FeaturesAt(point, box, buffer)
}

// SupplementaryPoints returns the handles of a display feature.
func (c *Context) SupplementaryPoints(gf *geojson.Feature, opts geo.HandleOptions) []*geojson.Feature {
	if c.Handles == nil {
		return geo.SupplementaryPoints(gf, opts)
	}
	return c.Handles(gf, opts)
}

// SetCursor sets the pointer hint if there is a surface.
func (c *Context) SetCursor(cur surface.Cursor) {
	if c.Surface != nil {
		c.Surface.SetCursor(cur)
	}
}

// Publish sends a mode notification to the host. Delivery errors are
// logged, never returned to the mode.
func Publish[T any](c *Context, t topic.Topic, payload T) {
	if c.Bus == nil {
		return
	}
	if err := c.Bus.Publish(c.Context(), event.NewEvent(t, payload, events.SourceMode)); err != nil {
		c.Log.Warn("publish %s: %v", t, err)
	}
}

// toGeoJSON snapshots features.
func toGeoJSON(features []*geo.Feature) []*geojson.Feature {
	out := make([]*geojson.Feature, len(features))
	for i, f := range features {
		out[i] = f.ToGeoJSON()
	}
	return out
}
