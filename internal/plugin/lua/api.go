package lua

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/mode"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/store"
)

// drawModule builds the draw table exposed to the script.
func (m *Mode) drawModule() *lua.LTable {
	return m.state.L.SetFuncs(m.state.L.NewTable(), map[string]lua.LGFunction{
		"getSelectedIds": m.getSelectedIDs,
		"setSelected":    m.setSelected,
		"select":         m.selectFeatures,
		"deselect":       m.deselectFeatures,
		"clearSelected":  m.clearSelected,
		"addPoint":       m.addPoint,
		"deleteFeature":  m.deleteFeature,
		"changeMode":     m.changeMode,
		"getMode":        m.getMode,
		"getFeature":     m.getFeature,
		"featuresAt":     m.featuresAt,
		"setActionable":  m.setActionable,
	})
}

// context returns the context of the running hook or raises an error.
func (m *Mode) context(L *lua.LState) *mode.Context {
	if m.ctx == nil {
		L.RaiseError("%v", ErrNoContext)
	}
	return m.ctx
}

// ids collects feature ids from every argument; each may be a string or
// an array of strings.
func (m *Mode) ids(L *lua.LState) []string {
	var out []string
	for i := 1; i <= L.GetTop(); i++ {
		out = append(out, m.bridge.Strings(L.Get(i))...)
	}
	return out
}

func (m *Mode) getSelectedIDs(L *lua.LState) int {
	c := m.context(L)
	L.Push(m.bridge.StringList(c.Store.SelectedIDs()))
	return 1
}

func (m *Mode) setSelected(L *lua.LState) int {
	c := m.context(L)
	c.Store.SetSelected(m.ids(L)...)
	return 0
}

func (m *Mode) selectFeatures(L *lua.LState) int {
	c := m.context(L)
	c.Store.Select(m.ids(L)...)
	return 0
}

func (m *Mode) deselectFeatures(L *lua.LState) int {
	c := m.context(L)
	c.Store.Deselect(m.ids(L)...)
	return 0
}

func (m *Mode) clearSelected(L *lua.LState) int {
	c := m.context(L)
	c.Store.ClearSelected()
	return 0
}

// addPoint(lng, lat [, properties]) creates a Point and returns its id.
func (m *Mode) addPoint(L *lua.LState) int {
	c := m.context(L)
	pt := orb.Point{float64(L.CheckNumber(1)), float64(L.CheckNumber(2))}
	f, err := geo.New(c.Store.NewID(), pt, m.bridge.Properties(L.Get(3)))
	if err != nil {
		L.RaiseError("addPoint: %v", err)
		return 0
	}
	c.Store.Add(f)
	mode.Publish(c, events.TopicFeatureCreated, events.FeaturesCreated{
		Features: []*geojson.Feature{f.ToGeoJSON()},
	})
	L.Push(lua.LString(f.ID()))
	return 1
}

// deleteFeature(ids...) deletes features and returns how many existed.
func (m *Mode) deleteFeature(L *lua.LState) int {
	c := m.context(L)
	ids := m.ids(L)
	n := 0
	for _, id := range ids {
		if _, ok := c.Store.Get(id); ok {
			n++
		}
	}
	c.Store.Delete(ids, store.DeleteOptions{})
	L.Push(lua.LNumber(n))
	return 1
}

// changeMode(name [, opts]) returns true, or false and a message.
func (m *Mode) changeMode(L *lua.LState) int {
	c := m.context(L)
	name := L.CheckString(1)

	var opts mode.Options
	if t, ok := L.Get(2).(*lua.LTable); ok {
		opts.FeatureIDs = m.bridge.Strings(t.RawGetString("featureIds"))
		if s, ok := t.RawGetString("featureId").(lua.LString); ok {
			opts.FeatureID = string(s)
		}
		if s, ok := t.RawGetString("coordPath").(lua.LString); ok {
			opts.CoordPath = string(s)
		}
		if extra, ok := m.bridge.ToGoValue(t.RawGetString("extra")).(map[string]any); ok {
			opts.Extra = extra
		}
	}

	if err := c.ChangeMode(name, opts); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (m *Mode) getMode(L *lua.LState) int {
	c := m.context(L)
	L.Push(lua.LString(c.Mode()))
	return 1
}

// getFeature(id) returns {id, type, properties, selected} or nil.
func (m *Mode) getFeature(L *lua.LState) int {
	c := m.context(L)
	f, ok := c.Store.Get(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	t.RawSetString("id", lua.LString(f.ID()))
	t.RawSetString("type", lua.LString(f.Kind().String()))
	t.RawSetString("properties", m.bridge.ToLuaValue(map[string]any(f.Properties)))
	t.RawSetString("selected", lua.LBool(c.Store.IsSelected(f.ID())))
	L.Push(t)
	return 1
}

// featuresAt(x, y) returns the ids of features rendered under a screen
// position, nearest first.
func (m *Mode) featuresAt(L *lua.LState) int {
	c := m.context(L)
	pos := mouse.Position{X: float64(L.CheckNumber(1)), Y: float64(L.CheckNumber(2))}
	var ids []string
	seen := make(map[string]bool)
	for _, gf := range c.FeaturesAt(&pos, nil, c.Settings.ClickBuffer) {
		if geo.DisplayMeta(gf) != geo.MetaFeature {
			continue
		}
		id := geo.DisplayID(gf)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	L.Push(m.bridge.StringList(ids))
	return 1
}

// setActionable{trash=, combineFeatures=, uncombineFeatures=}
func (m *Mode) setActionable(L *lua.LState) int {
	c := m.context(L)
	t := L.CheckTable(1)
	c.Store.SetActionable(store.Actionable{
		Trash:             lua.LVAsBool(t.RawGetString("trash")),
		CombineFeatures:   lua.LVAsBool(t.RawGetString("combineFeatures")),
		UncombineFeatures: lua.LVAsBool(t.RawGetString("uncombineFeatures")),
	})
	return 0
}
