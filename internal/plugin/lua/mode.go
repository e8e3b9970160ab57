package lua

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mode"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/logging"
	"github.com/dshills/geodraw/internal/store"
)

// Hook names looked up in a script's table.
const (
	HookSetup     = "onSetup"
	HookStop      = "onStop"
	HookClick     = "onClick"
	HookMouseDown = "onMouseDown"
	HookMouseUp   = "onMouseUp"
	HookDrag      = "onDrag"
	HookKeyUp     = "onKeyUp"
	HookTrash     = "onTrash"
)

var knownHooks = map[string]bool{
	HookSetup: true, HookStop: true, HookClick: true, HookMouseDown: true,
	HookMouseUp: true, HookDrag: true, HookKeyUp: true, HookTrash: true,
}

// Mode is a drawing mode implemented by a Lua script.
type Mode struct {
	name   string
	path   string
	state  *State
	bridge *Bridge
	hooks  *lua.LTable
	log    *logging.Logger

	// ctx is the manager context of the hook being run.
	ctx *mode.Context
}

var (
	_ mode.Mode             = (*Mode)(nil)
	_ mode.ClickHandler     = (*Mode)(nil)
	_ mode.TapHandler       = (*Mode)(nil)
	_ mode.MouseDownHandler = (*Mode)(nil)
	_ mode.MouseUpHandler   = (*Mode)(nil)
	_ mode.DragHandler      = (*Mode)(nil)
	_ mode.KeyUpHandler     = (*Mode)(nil)
	_ mode.TrashHandler     = (*Mode)(nil)
)

// Load reads a mode script from path.
func Load(name, path string, opts ...StateOption) (*Mode, error) {
	m, err := newMode(name, opts, func(s *State) (*lua.LTable, error) {
		return s.LoadModule(path)
	})
	if err != nil {
		return nil, err
	}
	m.path = path
	return m, nil
}

// LoadString builds a mode from script source.
func LoadString(name, src string, opts ...StateOption) (*Mode, error) {
	return newMode(name, opts, func(s *State) (*lua.LTable, error) {
		return s.LoadModuleString(name, src)
	})
}

func newMode(name string, opts []StateOption, load func(*State) (*lua.LTable, error)) (*Mode, error) {
	s := NewState(opts...)
	m := &Mode{
		name:   name,
		state:  s,
		bridge: NewBridge(s.L),
		log:    s.log.WithComponent("lua").WithField("mode", name),
	}
	s.Sandbox().Provide("draw", m.drawModule())

	hooks, err := load(s)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("loading lua mode %s: %w", name, err)
	}
	for _, k := range m.bridge.Keys(hooks) {
		if !knownHooks[k] {
			m.log.Warn("ignoring unknown hook %s", k)
		}
	}
	m.hooks = hooks
	return m, nil
}

// Name returns the name the mode was loaded under.
func (m *Mode) Name() string {
	return m.name
}

// Path returns the script file, or "" for a mode built from source.
func (m *Mode) Path() string {
	return m.path
}

// Hooks returns the names of the hooks the script defines.
func (m *Mode) Hooks() []string {
	var out []string
	for _, k := range m.bridge.Keys(m.hooks) {
		if _, ok := m.bridge.Func(m.hooks, k); ok && knownHooks[k] {
			out = append(out, k)
		}
	}
	return out
}

// Close releases the Lua state. The mode must not be active.
func (m *Mode) Close() {
	m.state.Close()
}

// OnSetup turns the actionable flags off and runs onSetup with the entry
// options. A script error aborts the transition.
func (m *Mode) OnSetup(c *mode.Context, opts mode.Options) (mode.State, error) {
	c.Store.SetActionable(store.Actionable{})
	if _, _, err := m.call(c, HookSetup, m.optionsTable(opts)); err != nil {
		return nil, err
	}
	return nil, nil
}

// OnStop runs onStop.
func (m *Mode) OnStop(c *mode.Context, state mode.State) {
	if _, _, err := m.call(c, HookStop); err != nil {
		c.Log.Warn("%v", err)
	}
}

// OnClick runs onClick.
func (m *Mode) OnClick(c *mode.Context, state mode.State, e mouse.Event) mode.Result {
	return m.handle(c, HookClick, m.mouseTable(e))
}

// OnTap runs onClick.
func (m *Mode) OnTap(c *mode.Context, state mode.State, e mouse.Event) mode.Result {
	return m.handle(c, HookClick, m.mouseTable(e))
}

// OnMouseDown runs onMouseDown.
func (m *Mode) OnMouseDown(c *mode.Context, state mode.State, e mouse.Event) mode.Result {
	return m.handle(c, HookMouseDown, m.mouseTable(e))
}

// OnMouseUp runs onMouseUp.
func (m *Mode) OnMouseUp(c *mode.Context, state mode.State, e mouse.Event) mode.Result {
	return m.handle(c, HookMouseUp, m.mouseTable(e))
}

// OnDrag runs onDrag.
func (m *Mode) OnDrag(c *mode.Context, state mode.State, e mouse.Event) mode.Result {
	return m.handle(c, HookDrag, m.mouseTable(e))
}

// OnKeyUp runs onKeyUp.
func (m *Mode) OnKeyUp(c *mode.Context, state mode.State, e key.Event) mode.Result {
	return m.handle(c, HookKeyUp, m.keyTable(e))
}

// OnTrash runs onTrash.
func (m *Mode) OnTrash(c *mode.Context, state mode.State) {
	if _, _, err := m.call(c, HookTrash); err != nil {
		c.Log.Warn("%v", err)
	}
}

// ToDisplayFeatures shows selected features active.
func (m *Mode) ToDisplayFeatures(c *mode.Context, state mode.State, gf *geojson.Feature, emit mode.Emit) {
	if c.Store.IsSelected(geo.DisplayID(gf)) {
		gf.Properties[geo.PropActive] = geo.ActiveTrue
	} else {
		gf.Properties[geo.PropActive] = geo.ActiveFalse
	}
	emit(gf)
}

// handle runs an input hook. Returning false from the hook skips the
// render pass.
func (m *Mode) handle(c *mode.Context, hook string, arg lua.LValue) mode.Result {
	ret, ok, err := m.call(c, hook, arg)
	if err != nil {
		c.Log.Warn("%v", err)
		return mode.SkipRender
	}
	if !ok || ret == lua.LFalse {
		return mode.SkipRender
	}
	return mode.Render
}

// call runs hook if the script defines it and returns its first result.
func (m *Mode) call(c *mode.Context, hook string, args ...lua.LValue) (lua.LValue, bool, error) {
	fn, ok := m.bridge.Func(m.hooks, hook)
	if !ok {
		return lua.LNil, false, nil
	}

	prev := m.ctx
	m.ctx = c
	defer func() { m.ctx = prev }()

	ret, err := m.state.Call(fn, args...)
	if err != nil {
		return lua.LNil, true, &HookError{Mode: m.name, Hook: hook, Err: err}
	}
	if len(ret) == 0 {
		return lua.LNil, true, nil
	}
	return ret[0], true, nil
}

func (m *Mode) optionsTable(opts mode.Options) *lua.LTable {
	L := m.state.L
	t := L.NewTable()
	t.RawSetString("featureIds", m.bridge.StringList(opts.FeatureIDs))
	if opts.FeatureID != "" {
		t.RawSetString("featureId", lua.LString(opts.FeatureID))
	}
	if opts.CoordPath != "" {
		t.RawSetString("coordPath", lua.LString(opts.CoordPath))
	}
	if opts.StartPos != nil {
		t.RawSetString("lng", lua.LNumber(opts.StartPos[0]))
		t.RawSetString("lat", lua.LNumber(opts.StartPos[1]))
	}
	if len(opts.Extra) > 0 {
		t.RawSetString("extra", m.bridge.ToLuaValue(opts.Extra))
	}
	return t
}

func (m *Mode) modifiers(t *lua.LTable, mods key.Modifier) {
	t.RawSetString("shift", lua.LBool(mods.HasShift()))
	t.RawSetString("ctrl", lua.LBool(mods.HasCtrl()))
	t.RawSetString("alt", lua.LBool(mods.HasAlt()))
	t.RawSetString("meta", lua.LBool(mods.HasMeta()))
}

func (m *Mode) mouseTable(e mouse.Event) *lua.LTable {
	L := m.state.L
	t := L.NewTable()
	t.RawSetString("type", lua.LString(e.Type.String()))
	t.RawSetString("x", lua.LNumber(e.Position.X))
	t.RawSetString("y", lua.LNumber(e.Position.Y))
	t.RawSetString("lng", lua.LNumber(e.LngLat[0]))
	t.RawSetString("lat", lua.LNumber(e.LngLat[1]))
	t.RawSetString("button", lua.LString(e.Button.String()))
	m.modifiers(t, e.Modifiers)

	if e.Target != nil {
		tgt := L.NewTable()
		tgt.RawSetString("meta", lua.LString(geo.DisplayMeta(e.Target)))
		if id := geo.DisplayID(e.Target); id != "" {
			tgt.RawSetString("id", lua.LString(id))
		}
		if parent := geo.DisplayParent(e.Target); parent != "" {
			tgt.RawSetString("parent", lua.LString(parent))
		}
		if path, ok := e.Target.Properties[geo.PropCoordPath].(string); ok {
			tgt.RawSetString("coordPath", lua.LString(path))
		}
		t.RawSetString("target", tgt)
	}
	return t
}

func (m *Mode) keyTable(e key.Event) *lua.LTable {
	t := m.state.L.NewTable()
	t.RawSetString("key", lua.LString(e.Key.String()))
	if e.IsRune() {
		t.RawSetString("rune", lua.LString(string(e.Rune)))
	}
	m.modifiers(t, e.Modifiers)
	return t
}
