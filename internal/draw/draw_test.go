package draw

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/config"
	"github.com/dshills/geodraw/internal/event"
	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/event/topic"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mode"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/metrics"
	"github.com/dshills/geodraw/internal/surface"
)

const twoPoints = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "a", "properties": {"name": "first"}, "geometry": {"type": "Point", "coordinates": [10, 10]}},
    {"type": "Feature", "id": "b", "properties": {}, "geometry": {"type": "Point", "coordinates": [40, 40]}}
  ]
}`

const square = `{
  "type": "Feature",
  "id": "sq",
  "properties": {},
  "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [20, 0], [20, 20], [0, 20], [0, 0]]]}
}`

type recorder struct {
	topics []topic.Topic
}

func (r *recorder) count(t topic.Topic) int {
	n := 0
	for _, got := range r.topics {
		if got == t {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.topics = nil
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	draw    *Draw
	rec     *recorder
	surf    *surface.Headless
	renders int
	now     time.Time
}

func newFixture(t *testing.T, mutate func(*config.Options)) *fixture {
	t.Helper()
	opts := config.Default()
	if mutate != nil {
		mutate(&opts)
	}

	f := &fixture{
		t:    t,
		ctx:  context.Background(),
		rec:  &recorder{},
		surf: surface.NewIdentity(),
		now:  time.Unix(1700000000, 0),
	}
	n := 0
	d, err := New(f.ctx, Deps{
		Surface: f.surf,
		Metrics: metrics.New(),
		NewID: func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		},
		Display: func(list []*geojson.Feature) { f.renders++ },
	}, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(d.Close)
	f.draw = d

	if _, err := d.On("**", func(ctx context.Context, ev any) error {
		f.rec.topics = append(f.rec.topics, ev.(event.TopicProvider).EventTopic())
		return nil
	}); err != nil {
		t.Fatalf("On() error = %v", err)
	}
	return f
}

func (f *fixture) add(raw string) []string {
	f.t.Helper()
	ids, err := f.draw.Add(f.ctx, []byte(raw))
	if err != nil {
		f.t.Fatalf("Add() error = %v", err)
	}
	return ids
}

// click presses and releases at the screen position of a map coordinate.
func (f *fixture) click(lng, lat float64, mods key.Modifier) {
	f.t.Helper()
	pos := f.surf.Project(orb.Point{lng, lat})
	for _, action := range []mouse.Action{mouse.ActionPress, mouse.ActionRelease} {
		f.now = f.now.Add(10 * time.Millisecond)
		raw := mouse.Raw{Action: action, Position: pos, Button: mouse.ButtonLeft, Modifiers: mods, Timestamp: f.now}
		if err := f.draw.HandleMouse(f.ctx, raw); err != nil {
			f.t.Fatalf("HandleMouse(%s) error = %v", action, err)
		}
	}
}

func (f *fixture) key(e key.Event) {
	f.t.Helper()
	if err := f.draw.HandleKey(f.ctx, e); err != nil {
		f.t.Fatalf("HandleKey(%s) error = %v", e, err)
	}
}

func ids(fc *geojson.FeatureCollection) []string {
	out := make([]string, len(fc.Features))
	for i, gf := range fc.Features {
		out[i], _ = gf.ID.(string)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew(t *testing.T) {
	f := newFixture(t, nil)
	if got := f.draw.Mode(); got != mode.SimpleSelect {
		t.Errorf("Mode() = %q, want %q", got, mode.SimpleSelect)
	}
	if f.renders == 0 {
		t.Error("New() did not render the initial mode")
	}
	if len(f.draw.Modes()) != 6 {
		t.Errorf("Modes() = %v, want the six built-in modes", f.draw.Modes())
	}
}

func TestNewErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, Deps{}, config.Default()); !errors.Is(err, ErrNoSurface) {
		t.Errorf("New() without surface error = %v, want ErrNoSurface", err)
	}

	opts := config.Default()
	opts.ClickBuffer = -1
	if _, err := New(ctx, Deps{Surface: surface.NewIdentity()}, opts); !errors.Is(err, config.ErrInvalidOptions) {
		t.Errorf("New() with bad options error = %v, want ErrInvalidOptions", err)
	}

	opts = config.Default()
	opts.Plugins.Modes = map[string]string{"broken": filepath.Join(t.TempDir(), "missing.lua")}
	if _, err := New(ctx, Deps{Surface: surface.NewIdentity()}, opts); err == nil {
		t.Error("New() with missing plugin script returned no error")
	}
}

func TestAdd(t *testing.T) {
	f := newFixture(t, nil)

	got := f.add(twoPoints)
	if !equal(got, []string{"a", "b"}) {
		t.Fatalf("Add() = %v, want [a b]", got)
	}
	if got := f.add(`{"type": "Point", "coordinates": [1, 2]}`); !equal(got, []string{"new-1"}) {
		t.Errorf("Add(geometry) = %v, want [new-1]", got)
	}

	a, ok := f.draw.Get("a")
	if !ok {
		t.Fatal("Get(a) not found")
	}
	if a.Properties["name"] != "first" {
		t.Errorf("Get(a).Properties = %v", a.Properties)
	}
	if _, ok := f.draw.Get("missing"); ok {
		t.Error("Get(missing) found a feature")
	}

	if got := ids(f.draw.GetAll()); !equal(got, []string{"a", "b", "new-1"}) {
		t.Errorf("GetAll() ids = %v, want [a b new-1]", got)
	}
}

func TestAddReplaces(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)

	f.add(`{"type": "Feature", "id": "a", "properties": {"name": "moved"}, "geometry": {"type": "Point", "coordinates": [5, 5]}}`)
	if got := ids(f.draw.GetAll()); !equal(got, []string{"a", "b"}) {
		t.Errorf("same kind: GetAll() ids = %v, want [a b]", got)
	}
	a, _ := f.draw.Get("a")
	if a.Geometry.(orb.Point) != (orb.Point{5, 5}) || a.Properties["name"] != "moved" {
		t.Errorf("same kind: Get(a) = %v %v", a.Geometry, a.Properties)
	}

	f.add(`{"type": "Feature", "id": "a", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}`)
	if got := ids(f.draw.GetAll()); !equal(got, []string{"b", "a"}) {
		t.Errorf("new kind: GetAll() ids = %v, want [b a]", got)
	}
	a, _ = f.draw.Get("a")
	if _, ok := a.Geometry.(orb.LineString); !ok {
		t.Errorf("new kind: Get(a).Geometry = %T, want LineString", a.Geometry)
	}
}

func TestAddInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "not geojson", raw: `{"type": "Circle"}`, want: geo.ErrInvalidGeoJSON},
		{name: "bad json", raw: `{`, want: geo.ErrInvalidGeoJSON},
		{
			name: "short line",
			raw:  `{"type": "FeatureCollection", "features": [{"type": "Feature", "id": "x", "geometry": {"type": "Point", "coordinates": [0, 0]}}, {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0]]}}]}`,
			want: geo.ErrInvalidGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			if _, err := f.draw.Add(f.ctx, []byte(tt.raw)); !errors.Is(err, tt.want) {
				t.Errorf("Add() error = %v, want %v", err, tt.want)
			}
			if n := len(f.draw.GetAll().Features); n != 0 {
				t.Errorf("GetAll() has %d features after a failed Add, want 0", n)
			}
		})
	}
}

func TestSet(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)
	f.add(square)

	got, err := f.draw.Set(f.ctx, []byte(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "id": "b", "geometry": {"type": "Point", "coordinates": [1, 1]}},
		{"type": "Feature", "id": "c", "geometry": {"type": "Point", "coordinates": [2, 2]}}
	]}`))
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !equal(got, []string{"b", "c"}) {
		t.Errorf("Set() = %v, want [b c]", got)
	}
	if all := ids(f.draw.GetAll()); !equal(all, []string{"b", "c"}) {
		t.Errorf("GetAll() ids = %v, want [b c]", all)
	}

	if _, err := f.draw.Set(f.ctx, []byte(square)); !errors.Is(err, ErrNotCollection) {
		t.Errorf("Set(feature) error = %v, want ErrNotCollection", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)
	if err := f.draw.ChangeMode(f.ctx, mode.SimpleSelect, mode.Options{FeatureIDs: []string{"a", "b"}}); err != nil {
		t.Fatalf("ChangeMode() error = %v", err)
	}

	if err := f.draw.Delete(f.ctx, "a", "unknown"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := ids(f.draw.GetAll()); !equal(got, []string{"b"}) {
		t.Errorf("GetAll() ids = %v, want [b]", got)
	}
	if got := f.draw.GetSelectedIDs(); !equal(got, []string{"b"}) {
		t.Errorf("GetSelectedIDs() = %v, want [b]", got)
	}

	if err := f.draw.DeleteAll(f.ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if n := len(f.draw.GetAll().Features); n != 0 {
		t.Errorf("GetAll() has %d features after DeleteAll", n)
	}
	if n := f.rec.count(events.TopicFeatureDeleted); n != 0 {
		t.Errorf("feature.deleted published %d times by the API, want 0", n)
	}
}

func TestDeleteLeavesDirectSelect(t *testing.T) {
	f := newFixture(t, nil)
	f.add(square)
	if err := f.draw.ChangeMode(f.ctx, mode.DirectSelect, mode.Options{FeatureID: "sq"}); err != nil {
		t.Fatalf("ChangeMode() error = %v", err)
	}
	if got := f.draw.Mode(); got != mode.DirectSelect {
		t.Fatalf("Mode() = %q, want %q", got, mode.DirectSelect)
	}

	if err := f.draw.Delete(f.ctx, "sq"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := f.draw.Mode(); got != mode.SimpleSelect {
		t.Errorf("Mode() = %q, want %q", got, mode.SimpleSelect)
	}
	if n := f.rec.count(events.TopicModeChanged); n != 0 {
		t.Errorf("mode.changed published %d times by the API, want 0", n)
	}
}

func TestChangeMode(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)
	f.add(square)

	renders := f.renders
	if err := f.draw.ChangeMode(f.ctx, mode.SimpleSelect, mode.Options{}); err != nil {
		t.Fatalf("ChangeMode() error = %v", err)
	}
	if f.renders != renders {
		t.Error("ChangeMode() to the same empty selection rendered")
	}

	if err := f.draw.ChangeMode(f.ctx, mode.SimpleSelect, mode.Options{FeatureIDs: []string{"b", "a"}}); err != nil {
		t.Fatalf("ChangeMode() error = %v", err)
	}
	if got := f.draw.GetSelectedIDs(); !equal(got, []string{"b", "a"}) {
		t.Errorf("GetSelectedIDs() = %v, want [b a]", got)
	}
	if got := ids(f.draw.GetSelected()); !equal(got, []string{"b", "a"}) {
		t.Errorf("GetSelected() ids = %v, want [b a]", got)
	}
	if want := (f.draw.Actionable()); !want.CombineFeatures || !want.Trash {
		t.Errorf("Actionable() = %+v after selecting two points", want)
	}

	if err := f.draw.ChangeMode(f.ctx, mode.DirectSelect, mode.Options{FeatureID: "sq", CoordPath: "0.1"}); err != nil {
		t.Fatalf("ChangeMode(direct_select) error = %v", err)
	}
	points := f.draw.GetSelectedPoints()
	if len(points.Features) != 1 || points.Features[0].Geometry.(orb.Point) != (orb.Point{20, 0}) {
		t.Errorf("GetSelectedPoints() = %v, want the vertex at [20 0]", points.Features)
	}

	if err := f.draw.ChangeMode(f.ctx, "nope", mode.Options{}); !errors.Is(err, mode.ErrUnknownMode) {
		t.Errorf("ChangeMode(nope) error = %v, want ErrUnknownMode", err)
	}
	if got := f.draw.Mode(); got != mode.DirectSelect {
		t.Errorf("Mode() = %q after a failed change, want %q", got, mode.DirectSelect)
	}
}

func TestSuppressAPIEvents(t *testing.T) {
	tests := []struct {
		name     string
		suppress bool
		want     int
	}{
		{name: "suppressed", suppress: true, want: 0},
		{name: "announced", suppress: false, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(o *config.Options) { o.SuppressAPIEvents = tt.suppress })
			f.add(twoPoints)
			f.rec.reset()

			if err := f.draw.ChangeMode(f.ctx, mode.SimpleSelect, mode.Options{FeatureIDs: []string{"a"}}); err != nil {
				t.Fatalf("ChangeMode() error = %v", err)
			}
			if n := f.rec.count(events.TopicSelectionChanged); n != tt.want {
				t.Errorf("selection.changed published %d times, want %d", n, tt.want)
			}
			if err := f.draw.Trash(f.ctx); err != nil {
				t.Fatalf("Trash() error = %v", err)
			}
			if n := f.rec.count(events.TopicFeatureDeleted); n != 1 {
				t.Errorf("feature.deleted published %d times, want 1", n)
			}
			if f.draw.Bus().IsPaused() {
				t.Error("bus left paused after an API call")
			}
		})
	}
}

func TestCombineAndUncombine(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)
	f.click(10, 10, key.ModNone)
	f.click(40, 40, key.ModShift)
	if got := f.draw.GetSelectedIDs(); !equal(got, []string{"a", "b"}) {
		t.Fatalf("GetSelectedIDs() = %v, want [a b]", got)
	}
	f.rec.reset()

	if err := f.draw.CombineFeatures(f.ctx); err != nil {
		t.Fatalf("CombineFeatures() error = %v", err)
	}
	if n := f.rec.count(events.TopicFeatureCombined); n != 1 {
		t.Errorf("feature.combined published %d times, want 1", n)
	}
	all := f.draw.GetAll()
	if len(all.Features) != 1 {
		t.Fatalf("GetAll() has %d features after combine, want 1", len(all.Features))
	}
	if _, ok := all.Features[0].Geometry.(orb.MultiPoint); !ok {
		t.Errorf("combined geometry = %T, want MultiPoint", all.Features[0].Geometry)
	}
	if got := f.draw.GetSelectedIDs(); !equal(got, ids(all)) {
		t.Errorf("GetSelectedIDs() = %v, want the combined feature", got)
	}

	if err := f.draw.UncombineFeatures(f.ctx); err != nil {
		t.Fatalf("UncombineFeatures() error = %v", err)
	}
	if n := len(f.draw.GetAll().Features); n != 2 {
		t.Errorf("GetAll() has %d features after uncombine, want 2", n)
	}
	if n := f.rec.count(events.TopicFeatureUncombined); n != 1 {
		t.Errorf("feature.uncombined published %d times, want 1", n)
	}
	if n := len(f.draw.GetSelectedIDs()); n != 2 {
		t.Errorf("GetSelectedIDs() has %d ids after uncombine, want 2", n)
	}
}

func TestOnceDeliversOnce(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)

	calls := 0
	if _, err := f.draw.Once(events.TopicSelectionChanged, func(ctx context.Context, ev any) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("Once() error = %v", err)
	}
	f.click(10, 10, key.ModNone)
	f.click(40, 40, key.ModNone)

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if n := f.rec.count(events.TopicSelectionChanged); n < 2 {
		t.Errorf("selection.changed published %d times, want at least 2", n)
	}
}

func TestSetFeatureProperty(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)

	if err := f.draw.SetFeatureProperty(f.ctx, "b", "color", "red"); err != nil {
		t.Fatalf("SetFeatureProperty() error = %v", err)
	}
	b, _ := f.draw.Get("b")
	if b.Properties["color"] != "red" {
		t.Errorf("Get(b).Properties = %v, want color=red", b.Properties)
	}
	if err := f.draw.SetFeatureProperty(f.ctx, "zz", "color", "red"); err == nil {
		t.Error("SetFeatureProperty(unknown) returned no error")
	}
}

func TestHandleMouseSelects(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)
	f.rec.reset()

	f.click(10, 10, key.ModNone)
	if got := f.draw.GetSelectedIDs(); !equal(got, []string{"a"}) {
		t.Errorf("GetSelectedIDs() = %v, want [a]", got)
	}
	if n := f.rec.count(events.TopicSelectionChanged); n != 1 {
		t.Errorf("selection.changed published %d times, want 1", n)
	}

	f.click(40, 40, key.ModShift)
	if got := f.draw.GetSelectedIDs(); !equal(got, []string{"a", "b"}) {
		t.Errorf("GetSelectedIDs() after shift click = %v, want [a b]", got)
	}

	f.click(100, 100, key.ModNone)
	if got := f.draw.GetSelectedIDs(); len(got) != 0 {
		t.Errorf("GetSelectedIDs() after clicking the map = %v, want none", got)
	}
}

func TestHandleKey(t *testing.T) {
	f := newFixture(t, nil)

	f.key(key.NewRuneEvent('1', key.ModNone))
	if got := f.draw.Mode(); got != mode.DrawPoint {
		t.Fatalf("Mode() = %q after 1, want %q", got, mode.DrawPoint)
	}
	if n := f.rec.count(events.TopicModeChanged); n != 1 {
		t.Errorf("mode.changed published %d times, want 1", n)
	}

	f.click(20, 20, key.ModNone)
	if got := f.draw.Mode(); got != mode.SimpleSelect {
		t.Errorf("Mode() = %q after drawing a point, want %q", got, mode.SimpleSelect)
	}
	if got := f.draw.GetSelectedIDs(); !equal(got, []string{"new-1"}) {
		t.Errorf("GetSelectedIDs() = %v, want [new-1]", got)
	}
	if n := f.rec.count(events.TopicFeatureCreated); n != 1 {
		t.Errorf("feature.created published %d times, want 1", n)
	}

	f.key(key.NewRuneEvent('7', key.ModNone))
	if got := f.draw.Mode(); got != mode.SimpleSelect {
		t.Errorf("Mode() = %q after 7, want %q", got, mode.SimpleSelect)
	}

	f.key(key.NewSpecialEvent(key.KeyBackspace, key.ModNone))
	if n := len(f.draw.GetAll().Features); n != 0 {
		t.Errorf("GetAll() has %d features after Backspace, want 0", n)
	}
	if n := f.rec.count(events.TopicFeatureDeleted); n != 1 {
		t.Errorf("feature.deleted published %d times, want 1", n)
	}

	f.key(key.NewRuneEvent('3', key.ModNone))
	f.key(key.NewSpecialEvent(key.KeyEscape, key.ModNone))
	if got := f.draw.Mode(); got != mode.SimpleSelect {
		t.Errorf("Mode() = %q after Escape, want %q", got, mode.SimpleSelect)
	}
}

func TestKeyBindingsDisabled(t *testing.T) {
	f := newFixture(t, func(o *config.Options) { o.KeyBindings = false })
	f.add(twoPoints)
	if err := f.draw.ChangeMode(f.ctx, mode.SimpleSelect, mode.Options{FeatureIDs: []string{"a"}}); err != nil {
		t.Fatalf("ChangeMode() error = %v", err)
	}

	f.key(key.NewRuneEvent('1', key.ModNone))
	f.key(key.NewSpecialEvent(key.KeyDelete, key.ModNone))
	if got := f.draw.Mode(); got != mode.SimpleSelect {
		t.Errorf("Mode() = %q, want %q", got, mode.SimpleSelect)
	}
	if n := len(f.draw.GetAll().Features); n != 2 {
		t.Errorf("GetAll() has %d features, want 2", n)
	}
}

func TestSetOptions(t *testing.T) {
	f := newFixture(t, nil)

	bad := config.Default()
	bad.TouchBuffer = -3
	if err := f.draw.SetOptions(bad); !errors.Is(err, config.ErrInvalidOptions) {
		t.Errorf("SetOptions(bad) error = %v, want ErrInvalidOptions", err)
	}

	next := config.Default()
	next.KeyBindings = false
	next.ClickBuffer = 6
	if err := f.draw.SetOptions(next); err != nil {
		t.Fatalf("SetOptions() error = %v", err)
	}
	if got := f.draw.Options(); got.ClickBuffer != 6 || got.KeyBindings {
		t.Errorf("Options() = %+v", got)
	}
	f.key(key.NewRuneEvent('1', key.ModNone))
	if got := f.draw.Mode(); got != mode.SimpleSelect {
		t.Errorf("Mode() = %q with key bindings off, want %q", got, mode.SimpleSelect)
	}
}

func TestRender(t *testing.T) {
	f := newFixture(t, nil)
	f.add(twoPoints)
	if err := f.draw.ChangeMode(f.ctx, mode.SimpleSelect, mode.Options{FeatureIDs: []string{"b"}}); err != nil {
		t.Fatalf("ChangeMode() error = %v", err)
	}

	active := map[string]string{}
	f.draw.Render(f.ctx, func(gf *geojson.Feature) {
		if geo.DisplayMeta(gf) == geo.MetaFeature {
			active[geo.DisplayID(gf)], _ = gf.Properties[geo.PropActive].(string)
		}
	})
	if active["a"] != geo.ActiveFalse || active["b"] != geo.ActiveTrue {
		t.Errorf("Render() active flags = %v, want a=false b=true", active)
	}
}

const pluginScript = `
return {
  onSetup = function(opts)
    draw.setActionable({trash = true})
  end,
  onClick = function(e)
    draw.addPoint(e.lng, e.lat, {source = "plugin"})
  end,
}
`

func TestPluginModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stamp.lua")
	if err := os.WriteFile(path, []byte(pluginScript), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	f := newFixture(t, func(o *config.Options) {
		o.Plugins.Modes = map[string]string{"stamp": path}
		o.DefaultMode = "stamp"
	})

	if got := f.draw.Mode(); got != "stamp" {
		t.Fatalf("Mode() = %q, want stamp", got)
	}
	if got := f.draw.Actionable(); !got.Trash {
		t.Errorf("Actionable() = %+v, want trash", got)
	}

	f.click(3, 4, key.ModNone)
	all := f.draw.GetAll()
	if len(all.Features) != 1 {
		t.Fatalf("GetAll() has %d features, want 1", len(all.Features))
	}
	gf := all.Features[0]
	if gf.Geometry.(orb.Point) != (orb.Point{3, 4}) || gf.Properties["source"] != "plugin" {
		t.Errorf("stamped feature = %v %v", gf.Geometry, gf.Properties)
	}
}

func TestClosed(t *testing.T) {
	f := newFixture(t, nil)
	f.draw.Close()
	f.draw.Close()

	if err := f.draw.HandleMouse(f.ctx, mouse.Raw{Action: mouse.ActionMove}); !errors.Is(err, ErrClosed) {
		t.Errorf("HandleMouse() error = %v, want ErrClosed", err)
	}
	if err := f.draw.HandleKey(f.ctx, key.NewRuneEvent('1', key.ModNone)); !errors.Is(err, ErrClosed) {
		t.Errorf("HandleKey() error = %v, want ErrClosed", err)
	}
	if _, err := f.draw.Add(f.ctx, []byte(twoPoints)); !errors.Is(err, ErrClosed) {
		t.Errorf("Add() error = %v, want ErrClosed", err)
	}
}
