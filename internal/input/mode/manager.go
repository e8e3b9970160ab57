package mode

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event"
	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/logging"
	"github.com/dshills/geodraw/internal/metrics"
	"github.com/dshills/geodraw/internal/store"
	"github.com/dshills/geodraw/internal/surface"
)

// ModeChangeCallback is called when the mode changes.
type ModeChangeCallback func(from, to string)

// Deps are the collaborators shared by every mode of a Manager.
type Deps struct {
	Store    *store.Store
	Surface  surface.Surface
	Query    Query
	Handles  HandleFunc
	Bus      event.Bus
	Settings Settings
	Logger   *logging.Logger
	Metrics  *metrics.Metrics

	// Display receives the display list of every render pass.
	Display func(list []*geojson.Feature)
}

// Manager owns the active mode and routes input to it.
type Manager struct {
	// modes holds all registered modes by name.
	modes map[string]Mode
	names []string

	// current is the active mode and state its private record.
	current Mode
	state   State

	// previous is the name of the mode before the current one.
	previous string

	ctx     *Context
	display func([]*geojson.Feature)
	metrics *metrics.Metrics
	log     *logging.Logger

	transitioning bool
	depth         int

	// generation counts completed transitions.
	generation uint64

	// callbacks are notified on mode changes.
	callbacks []ModeChangeCallback
}

// NewManager creates a manager with no registered modes.
func NewManager(deps Deps) *Manager {
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}
	m := &Manager{
		modes:   make(map[string]Mode),
		display: deps.Display,
		metrics: deps.Metrics,
		log:     log.WithComponent("mode"),
	}
	m.ctx = &Context{
		Store:    deps.Store,
		Surface:  deps.Surface,
		Query:    deps.Query,
		Handles:  deps.Handles,
		Bus:      deps.Bus,
		Settings: deps.Settings,
		Log:      m.log,
		manager:  m,
	}
	return m
}

// Register adds a mode to the manager.
// If a mode with the same name exists, it is replaced.
func (m *Manager) Register(mode Mode) {
	name := mode.Name()
	if _, ok := m.modes[name]; !ok {
		m.names = append(m.names, name)
	}
	m.modes[name] = mode
}

// Unregister removes a mode from the manager.
// Returns an error if trying to unregister the current mode.
func (m *Manager) Unregister(name string) error {
	if m.current != nil && m.current.Name() == name {
		return fmt.Errorf("%w: %s", ErrActiveMode, name)
	}
	if _, ok := m.modes[name]; !ok {
		return nil
	}
	delete(m.modes, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i:i], m.names[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a mode by name, or nil if not found.
func (m *Manager) Get(name string) Mode {
	return m.modes[name]
}

// Modes returns the names of all registered modes in registration order.
func (m *Manager) Modes() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Current returns the current mode.
// Returns nil if no mode is set.
func (m *Manager) Current() Mode {
	return m.current
}

// CurrentName returns the name of the current mode.
// Returns empty string if no mode is set.
func (m *Manager) CurrentName() string {
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Previous returns the name of the previous mode.
func (m *Manager) Previous() string {
	return m.previous
}

// IsMode returns true if the current mode matches the given name.
func (m *Manager) IsMode(name string) bool {
	return m.current != nil && m.current.Name() == name
}

// Context returns the context handed to modes.
func (m *Manager) Context() *Context {
	return m.ctx
}

// SetSettings replaces the mode settings. Modes read them at event time.
func (m *Manager) SetSettings(s Settings) {
	m.ctx.Settings = s
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (m *Manager) OnChange(callback ModeChangeCallback) func() {
	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		// Remove callback by setting to nil (preserves indices)
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

// ChangeMode stops the current mode and sets up the named one, then
// publishes mode.changed.
func (m *Manager) ChangeMode(ctx context.Context, name string, opts Options) error {
	return m.transition(ctx, name, opts, true)
}

// ChangeModeQuiet changes mode without publishing mode.changed. Hosts use
// it for changes they requested themselves.
func (m *Manager) ChangeModeQuiet(ctx context.Context, name string, opts Options) error {
	return m.transition(ctx, name, opts, false)
}

func (m *Manager) transition(ctx context.Context, name string, opts Options, announce bool) error {
	if m.transitioning {
		return fmt.Errorf("%w: to %s", ErrTransitionInProgress, name)
	}
	next, ok := m.modes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}

	m.transitioning = true
	restore := m.enter(ctx)
	defer restore()

	from := m.current
	fromName := m.CurrentName()
	if from != nil {
		from.OnStop(m.ctx, m.state)
	}
	m.current, m.state = nil, nil

	state, err := next.OnSetup(m.ctx, opts)
	if err != nil {
		m.metrics.ObserveModeError(name)
		m.log.Warn("setup %s: %v", name, err)
		if from != nil {
			m.reactivate(from)
		}
		m.transitioning = false
		m.settle(ctx)
		return &ModeError{Mode: name, Hook: "setup", Err: err}
	}

	m.current, m.state = next, state
	m.previous = fromName
	m.transitioning = false
	m.generation++

	m.metrics.ObserveTransition(name)
	m.log.Debug("mode %s -> %s", fromName, name)

	for _, cb := range m.callbacks {
		if cb != nil {
			cb(fromName, name)
		}
	}
	if announce {
		Publish(m.ctx, events.TopicModeChanged, events.ModeChanged{Mode: name, Previous: fromName})
	}

	m.settle(ctx)
	return nil
}

// reactivate sets up a stopped mode again after a failed change, keeping
// the current selection.
func (m *Manager) reactivate(mode Mode) {
	opts := Options{}
	if m.ctx.Store != nil {
		opts.FeatureIDs = m.ctx.Store.SelectedIDs()
	}
	state, err := mode.OnSetup(m.ctx, opts)
	if err != nil {
		m.log.Error("reactivate %s: %v", mode.Name(), err)
		return
	}
	m.current, m.state = mode, state
}

// enter marks the start of an outermost or nested action and returns the
// function that ends it.
func (m *Manager) enter(ctx context.Context) func() {
	prev := m.ctx.ctx
	m.ctx.ctx = ctx
	m.depth++
	return func() {
		m.depth--
		m.ctx.ctx = prev
	}
}

// settle renders and publishes the queued store notifications once the
// outermost action finishes.
func (m *Manager) settle(ctx context.Context) {
	if m.depth > 1 {
		return
	}
	m.Render(ctx)
	m.flush(ctx)
}

func (m *Manager) flush(ctx context.Context) {
	if m.ctx.Store == nil {
		return
	}
	if err := m.ctx.Store.Flush(ctx); err != nil {
		m.log.Warn("flush: %v", err)
	}
}

// Dispatch routes a gesture to the active mode.
func (m *Manager) Dispatch(ctx context.Context, e mouse.Event) error {
	if m.current == nil {
		return ErrNoActiveMode
	}
	restore := m.enter(ctx)
	defer restore()

	m.metrics.ObserveEvent(e.Type.String())
	gen := m.generation
	result, handled := m.route(e)
	m.finish(ctx, gen, result, handled)
	return nil
}

func (m *Manager) route(e mouse.Event) (Result, bool) {
	c, s := m.ctx, m.state
	switch e.Type {
	case mouse.TypeClick:
		if h, ok := m.current.(ClickHandler); ok {
			return h.OnClick(c, s, e), true
		}
	case mouse.TypeTap:
		if h, ok := m.current.(TapHandler); ok {
			return h.OnTap(c, s, e), true
		}
	case mouse.TypeMouseDown:
		if h, ok := m.current.(MouseDownHandler); ok {
			return h.OnMouseDown(c, s, e), true
		}
	case mouse.TypeMouseUp:
		if h, ok := m.current.(MouseUpHandler); ok {
			return h.OnMouseUp(c, s, e), true
		}
	case mouse.TypeMouseMove:
		if h, ok := m.current.(MouseMoveHandler); ok {
			return h.OnMouseMove(c, s, e), true
		}
	case mouse.TypeDrag:
		if h, ok := m.current.(DragHandler); ok {
			return h.OnDrag(c, s, e), true
		}
	case mouse.TypeMouseOut:
		if h, ok := m.current.(MouseOutHandler); ok {
			return h.OnMouseOut(c, s, e), true
		}
	case mouse.TypeTouchStart:
		if h, ok := m.current.(TouchStartHandler); ok {
			return h.OnTouchStart(c, s, e), true
		}
	case mouse.TypeTouchMove:
		if h, ok := m.current.(TouchMoveHandler); ok {
			return h.OnTouchMove(c, s, e), true
		}
	case mouse.TypeTouchEnd:
		if h, ok := m.current.(TouchEndHandler); ok {
			return h.OnTouchEnd(c, s, e), true
		}
	}
	return SkipRender, false
}

// finish runs the render pass a handler asked for, or that a mode change
// during the handler requires, and publishes the queued store
// notifications.
func (m *Manager) finish(ctx context.Context, gen uint64, result Result, handled bool) {
	if (handled && result == Render) || gen != m.generation {
		m.Render(ctx)
	}
	m.flush(ctx)
}

// KeyDown routes a key press to the active mode.
func (m *Manager) KeyDown(ctx context.Context, e key.Event) error {
	return m.dispatchKey(ctx, e, false)
}

// KeyUp routes a key release to the active mode.
func (m *Manager) KeyUp(ctx context.Context, e key.Event) error {
	return m.dispatchKey(ctx, e, true)
}

func (m *Manager) dispatchKey(ctx context.Context, e key.Event, up bool) error {
	if m.current == nil {
		return ErrNoActiveMode
	}
	restore := m.enter(ctx)
	defer restore()

	var (
		result  = SkipRender
		handled bool
		gen     = m.generation
	)
	if up {
		m.metrics.ObserveEvent("keyup")
		if h, ok := m.current.(KeyUpHandler); ok {
			result, handled = h.OnKeyUp(m.ctx, m.state, e), true
		}
	} else {
		m.metrics.ObserveEvent("keydown")
		if h, ok := m.current.(KeyDownHandler); ok {
			result, handled = h.OnKeyDown(m.ctx, m.state, e), true
		}
	}
	m.finish(ctx, gen, result, handled)
	return nil
}

// Trash invokes the active mode's trash command.
func (m *Manager) Trash(ctx context.Context) error {
	return m.command(ctx, "trash", func() bool {
		h, ok := m.current.(TrashHandler)
		if ok {
			h.OnTrash(m.ctx, m.state)
		}
		return ok
	})
}

// Combine invokes the active mode's combine command.
func (m *Manager) Combine(ctx context.Context) error {
	return m.command(ctx, "combine_features", func() bool {
		h, ok := m.current.(CombineHandler)
		if ok {
			h.OnCombineFeatures(m.ctx, m.state)
		}
		return ok
	})
}

// Uncombine invokes the active mode's uncombine command.
func (m *Manager) Uncombine(ctx context.Context) error {
	return m.command(ctx, "uncombine_features", func() bool {
		h, ok := m.current.(UncombineHandler)
		if ok {
			h.OnUncombineFeatures(m.ctx, m.state)
		}
		return ok
	})
}

func (m *Manager) command(ctx context.Context, name string, run func() bool) error {
	if m.current == nil {
		return ErrNoActiveMode
	}
	restore := m.enter(ctx)
	defer restore()

	m.metrics.ObserveEvent(name)
	gen := m.generation
	m.finish(ctx, gen, Render, run())
	return nil
}

// Render asks the active mode to display every feature and hands the
// resulting list to the display sink. It clears the store's dirty set.
func (m *Manager) Render(ctx context.Context) []*geojson.Feature {
	start := time.Now()
	var list []*geojson.Feature
	emit := func(gf *geojson.Feature) {
		list = append(list, gf)
	}

	name := m.CurrentName()
	dirty := 0
	if m.ctx.Store != nil {
		if m.current != nil {
			for _, f := range m.ctx.Store.GetAll() {
				m.current.ToDisplayFeatures(m.ctx, m.state, f.Internal(name, m.ctx.Settings.UserProperties), emit)
			}
		}
		dirty = len(m.ctx.Store.Refresh())
	}

	if m.display != nil {
		m.display(list)
	}
	m.metrics.ObserveRender(start)
	m.log.Debug("render %s: %d displayed, %d dirty", name, len(list), dirty)

	prev := m.ctx.ctx
	m.ctx.ctx = ctx
	Publish(m.ctx, events.TopicRender, events.Rendered{Mode: name, Displayed: len(list)})
	m.ctx.ctx = prev
	return list
}

// RegisterDefaults registers the built-in modes.
func RegisterDefaults(m *Manager) {
	m.Register(NewSimpleSelect())
	m.Register(NewDirectSelect())
	m.Register(NewDrawPoint())
	m.Register(NewDrawLineString())
	m.Register(NewDrawPolygon())
	m.Register(NewStatic())
}
