package draw

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"

	"github.com/dshills/geodraw/internal/config"
	"github.com/dshills/geodraw/internal/event"
	"github.com/dshills/geodraw/internal/event/topic"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/hittest"
	"github.com/dshills/geodraw/internal/input/mode"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/logging"
	"github.com/dshills/geodraw/internal/metrics"
	"github.com/dshills/geodraw/internal/plugin/lua"
	"github.com/dshills/geodraw/internal/store"
	"github.com/dshills/geodraw/internal/surface"
)

// Deps are the host collaborators of a Draw. Only Surface is required.
type Deps struct {
	Surface surface.Surface

	// Bus carries notifications. A new bus is created when nil.
	Bus event.Bus

	Logger  *logging.Logger
	Metrics *metrics.Metrics

	// NewID generates feature ids. Defaults to store.NewID.
	NewID func() string

	// Display receives the display list after every render pass.
	Display func(list []*geojson.Feature)
}

// Draw is one drawing session.
type Draw struct {
	mu sync.Mutex

	opts    config.Options
	bus     event.Bus
	store   *store.Store
	modes   *mode.Manager
	router  *mouse.Router
	index   *hittest.Index
	surface surface.Surface
	plugins []*lua.Mode
	log     *logging.Logger
	display func([]*geojson.Feature)
	closed  bool
}

// New creates a session and enters opts.DefaultMode. Plugin modes named
// in opts are loaded and registered next to the built-in ones.
func New(ctx context.Context, deps Deps, opts config.Options) (*Draw, error) {
	if deps.Surface == nil {
		return nil, ErrNoSurface
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}
	bus := deps.Bus
	if bus == nil {
		bus = event.NewBus(event.WithObserver(deps.Metrics.ObserveTopic))
	}
	var storeOpts []store.Option
	if deps.NewID != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(deps.NewID))
	}

	d := &Draw{
		opts:    opts,
		bus:     bus,
		store:   store.New(bus, storeOpts...),
		index:   hittest.New(deps.Surface, opts.ClickBuffer, opts.TouchBuffer),
		surface: deps.Surface,
		log:     log.WithComponent("draw"),
		display: deps.Display,
	}
	d.router = mouse.NewRouter(opts.RouterConfig(), d.index.TargetAt)
	d.modes = mode.NewManager(mode.Deps{
		Store:    d.store,
		Surface:  deps.Surface,
		Query:    d.index,
		Handles:  geo.SupplementaryPoints,
		Bus:      bus,
		Settings: opts.ModeSettings(),
		Logger:   log,
		Metrics:  deps.Metrics,
		Display:  d.show,
	})
	mode.RegisterDefaults(d.modes)

	if len(opts.Plugins.Modes) > 0 {
		plugins, err := lua.RegisterModes(d.modes, opts.Plugins.Modes, lua.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("loading plugin modes: %w", err)
		}
		d.plugins = plugins
		d.log.Info("loaded %d plugin modes", len(plugins))
	}

	if err := d.modes.ChangeModeQuiet(ctx, opts.DefaultMode, mode.Options{}); err != nil {
		d.closePlugins()
		return nil, fmt.Errorf("entering %s: %w", opts.DefaultMode, err)
	}
	d.log.Debug("session started in %s", opts.DefaultMode)
	return d, nil
}

// show indexes the display list for hit testing and forwards it to the host.
func (d *Draw) show(list []*geojson.Feature) {
	d.index.Reset()
	for _, gf := range list {
		d.index.Add(gf)
	}
	if d.display != nil {
		d.display(list)
	}
}

// Close releases the plugin interpreters. The session is unusable afterwards.
func (d *Draw) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.closePlugins()
}

func (d *Draw) closePlugins() {
	for _, p := range d.plugins {
		p.Close()
	}
	d.plugins = nil
}

// Bus returns the notification bus.
func (d *Draw) Bus() event.Bus {
	return d.bus
}

// On subscribes fn to a topic pattern such as "feature.*" or "**".
func (d *Draw) On(pattern topic.Topic, fn event.HandlerFunc, opts ...event.SubscriptionOption) (event.Subscription, error) {
	return d.bus.SubscribeFunc(pattern, fn, opts...)
}

// Once is On for a single delivery.
func (d *Draw) Once(pattern topic.Topic, fn event.HandlerFunc, opts ...event.SubscriptionOption) (event.Subscription, error) {
	return d.bus.SubscribeFunc(pattern, fn, append(opts, event.WithOnce())...)
}

// Options returns the options in effect.
func (d *Draw) Options() config.Options {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts
}

// SetOptions applies new options to a running session. Buffers,
// tolerances and mode settings take effect on the next event; the default
// mode and the plugin list are only read by New.
func (d *Draw) SetOptions(opts config.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts = opts
	d.modes.SetSettings(opts.ModeSettings())
	d.router.SetConfig(opts.RouterConfig())
	d.index.SetBuffers(opts.ClickBuffer, opts.TouchBuffer)
	return nil
}

// api runs one programmatic call. With SuppressAPIEvents set the bus is
// paused for the duration, so the queued store notifications are settled
// without reaching subscribers.
func (d *Draw) api(ctx context.Context, fn func() error) error {
	if d.closed {
		return ErrClosed
	}
	if d.opts.SuppressAPIEvents && !d.bus.IsPaused() {
		d.bus.Pause()
		defer d.bus.Resume()
	}
	err := fn()
	if ferr := d.store.Flush(ctx); ferr != nil {
		d.log.Warn("flush: %v", ferr)
	}
	return err
}

// command runs a mode command. Commands act on the user's selection, so
// their notifications are published even with SuppressAPIEvents set.
func (d *Draw) command(ctx context.Context, fn func(context.Context) error) error {
	if d.closed {
		return ErrClosed
	}
	err := fn(ctx)
	if ferr := d.store.Flush(ctx); ferr != nil {
		d.log.Warn("flush: %v", ferr)
	}
	return err
}

// Add inserts the features of a FeatureCollection, Feature or bare
// geometry and returns their ids. A feature whose id is already stored
// replaces it: in place when the geometry kind matches, otherwise the old
// feature is deleted first. Nothing is added if any feature is invalid.
func (d *Draw) Add(ctx context.Context, raw []byte) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var ids []string
	err := d.api(ctx, func() error {
		var err error
		ids, err = d.add(raw)
		if err != nil {
			return err
		}
		d.modes.Render(ctx)
		return nil
	})
	return ids, err
}

func (d *Draw) add(raw []byte) ([]string, error) {
	parsed, err := geo.ParseFeatures(raw)
	if err != nil {
		return nil, err
	}
	features := make([]*geo.Feature, len(parsed))
	for i, gf := range parsed {
		f, err := geo.FromGeoJSON(gf, d.store.NewID)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		features[i] = f
	}

	ids := make([]string, len(features))
	for i, f := range features {
		if existing, ok := d.store.Get(f.ID()); ok && existing.Kind() != f.Kind() {
			d.store.Delete([]string{f.ID()}, store.DeleteOptions{Silent: true})
		}
		ids[i] = d.store.Add(f)
	}
	return ids, nil
}

// Set replaces the stored features with a FeatureCollection. Features
// whose ids are not in the collection are deleted.
func (d *Draw) Set(ctx context.Context, raw []byte) ([]string, error) {
	if !gjson.ValidBytes(raw) || gjson.GetBytes(raw, "type").String() != "FeatureCollection" {
		return nil, ErrNotCollection
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var ids []string
	err := d.api(ctx, func() error {
		var err error
		ids, err = d.add(raw)
		if err != nil {
			return err
		}
		keep := make(map[string]bool, len(ids))
		for _, id := range ids {
			keep[id] = true
		}
		var stale []string
		for _, id := range d.store.IDs() {
			if !keep[id] {
				stale = append(stale, id)
			}
		}
		d.deleteFeatures(ctx, stale)
		return nil
	})
	return ids, err
}

// Get returns a stored feature as GeoJSON.
func (d *Draw) Get(id string) (*geojson.Feature, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.store.Get(id)
	if !ok {
		return nil, false
	}
	return f.ToGeoJSON(), true
}

// GetAll returns every stored feature in insertion order.
func (d *Draw) GetAll() *geojson.FeatureCollection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return collect(d.store.GetAll())
}

// GetSelectedIDs returns the selected ids in selection order.
func (d *Draw) GetSelectedIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.SelectedIDs()
}

// GetSelected returns the selected features.
func (d *Draw) GetSelected() *geojson.FeatureCollection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return collect(d.store.Selected())
}

// GetSelectedPoints returns the selected vertices as Point features.
func (d *Draw) GetSelectedPoints() *geojson.FeatureCollection {
	d.mu.Lock()
	defer d.mu.Unlock()
	fc := geojson.NewFeatureCollection()
	fc.Features = append(fc.Features, d.store.SelectedPoints()...)
	return fc
}

func collect(features []*geo.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f.ToGeoJSON())
	}
	return fc
}

// Delete removes features by id. Unknown ids are ignored.
func (d *Draw) Delete(ctx context.Context, ids ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.api(ctx, func() error {
		d.deleteFeatures(ctx, ids)
		return nil
	})
}

// DeleteAll removes every feature.
func (d *Draw) DeleteAll(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.api(ctx, func() error {
		d.deleteFeatures(ctx, d.store.IDs())
		return nil
	})
}

// deleteFeatures removes features silently and leaves direct_select once
// the edited feature is gone.
func (d *Draw) deleteFeatures(ctx context.Context, ids []string) {
	d.store.Delete(ids, store.DeleteOptions{Silent: true})
	if d.modes.IsMode(mode.DirectSelect) && len(d.store.SelectedIDs()) == 0 {
		if err := d.modes.ChangeModeQuiet(ctx, mode.SimpleSelect, mode.Options{}); err != nil {
			d.log.Warn("leaving %s: %v", mode.DirectSelect, err)
		}
		return
	}
	d.modes.Render(ctx)
}

// SetFeatureProperty sets one user property of a stored feature.
func (d *Draw) SetFeatureProperty(ctx context.Context, id, key string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.api(ctx, func() error {
		if err := d.store.SetProperty(id, key, value); err != nil {
			return err
		}
		d.modes.Render(ctx)
		return nil
	})
}

// Mode returns the name of the active mode.
func (d *Draw) Mode() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modes.CurrentName()
}

// Modes returns the registered mode names.
func (d *Draw) Modes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modes.Modes()
}

// ChangeMode switches modes without announcing the change. Asking
// simple_select for a different selection while already in it only
// reselects, and asking direct_select for the feature it already edits
// does nothing.
func (d *Draw) ChangeMode(ctx context.Context, name string, opts mode.Options) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.api(ctx, func() error {
		current := d.modes.CurrentName()
		switch {
		case name == mode.SimpleSelect && current == mode.SimpleSelect:
			if sameSet(opts.FeatureIDs, d.store.SelectedIDs()) {
				return nil
			}
			d.store.SetSelected(opts.FeatureIDs...)
			d.modes.Render(ctx)
			return nil
		case name == mode.DirectSelect && current == mode.DirectSelect:
			if sel := d.store.SelectedIDs(); len(sel) > 0 && sel[0] == opts.FeatureID {
				return nil
			}
		}
		return d.modes.ChangeModeQuiet(ctx, name, opts)
	})
}

func sameSet(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	other := make(map[string]bool, len(b))
	for _, s := range b {
		if !set[s] {
			return false
		}
		other[s] = true
	}
	return len(set) == len(other)
}

// Trash runs the active mode's trash command.
func (d *Draw) Trash(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command(ctx, d.modes.Trash)
}

// CombineFeatures runs the active mode's combine command.
func (d *Draw) CombineFeatures(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command(ctx, d.modes.Combine)
}

// UncombineFeatures runs the active mode's uncombine command.
func (d *Draw) UncombineFeatures(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command(ctx, d.modes.Uncombine)
}

// Actionable returns the current actionable flags.
func (d *Draw) Actionable() store.Actionable {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Actionable()
}

// Render runs a render pass and hands every display feature to emit.
func (d *Draw) Render(ctx context.Context, emit mode.Emit) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for _, gf := range d.modes.Render(ctx) {
		if emit != nil {
			emit(gf)
		}
	}
	if err := d.store.Flush(ctx); err != nil {
		d.log.Warn("flush: %v", err)
	}
}

// HandleMouse routes one raw pointer report to the active mode. A zero
// LngLat is filled in by unprojecting the screen position.
func (d *Draw) HandleMouse(ctx context.Context, raw mouse.Raw) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if raw.LngLat == (orb.Point{}) {
		raw.LngLat = d.surface.Unproject(raw.Position)
	}
	for _, ev := range d.router.Handle(raw) {
		if err := d.modes.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
