package mode

import (
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/store"
)

// StaticMode displays features and ignores input.
type StaticMode struct{}

// NewStatic creates the static mode.
func NewStatic() *StaticMode {
	return &StaticMode{}
}

// Name returns "static".
func (m *StaticMode) Name() string {
	return Static
}

// OnSetup turns every actionable flag off.
func (m *StaticMode) OnSetup(c *Context, opts Options) (State, error) {
	c.Store.SetActionable(store.Actionable{})
	return nil, nil
}

// OnStop does nothing.
func (m *StaticMode) OnStop(c *Context, state State) {}

// ToDisplayFeatures shows the feature inactive.
func (m *StaticMode) ToDisplayFeatures(c *Context, state State, gf *geojson.Feature, emit Emit) {
	gf.Properties[geo.PropActive] = geo.ActiveFalse
	emit(gf)
}
