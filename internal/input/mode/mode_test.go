package mode

import (
	"context"
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event"
	"github.com/dshills/geodraw/internal/event/topic"
	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/hittest"
	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/store"
	"github.com/dshills/geodraw/internal/surface"
)

// recorder collects every published event.
type recorder struct {
	events []any
}

func (r *recorder) reset() {
	r.events = nil
}

func (r *recorder) count(t topic.Topic) int {
	n := 0
	for _, ev := range r.events {
		if ev.(event.TopicProvider).EventTopic() == t {
			n++
		}
	}
	return n
}

// payloads returns the payloads published on t.
func payloads[T any](r *recorder, t topic.Topic) []T {
	var out []T
	for _, ev := range r.events {
		if ev.(event.TopicProvider).EventTopic() != t {
			continue
		}
		if p, ok := event.PayloadOf[T](ev); ok {
			out = append(out, p)
		}
	}
	return out
}

// harness wires a manager to an identity surface, so a map coordinate
// (x, y) sits at screen pixel (x, -y).
type harness struct {
	t       *testing.T
	ctx     context.Context
	store   *store.Store
	surf    *surface.Headless
	index   *hittest.Index
	mgr     *Manager
	rec     *recorder
	renders int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bus := event.NewBus()
	rec := &recorder{}
	if _, err := bus.SubscribeFunc("**", func(ctx context.Context, ev any) error {
		rec.events = append(rec.events, ev)
		return nil
	}); err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}

	n := 0
	st := store.New(bus, store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}))
	surf := surface.NewIdentity()
	h := &harness{
		t:     t,
		ctx:   context.Background(),
		store: st,
		surf:  surf,
		index: hittest.New(surf, 2, 25),
		rec:   rec,
	}
	h.mgr = NewManager(Deps{
		Store:    st,
		Surface:  surf,
		Query:    h.index,
		Bus:      bus,
		Settings: DefaultSettings(),
		Display: func(list []*geojson.Feature) {
			h.renders++
			h.index.Reset()
			for _, gf := range list {
				h.index.Add(gf)
			}
		},
	})
	RegisterDefaults(h.mgr)
	return h
}

// start activates a mode and forgets the events it published.
func (h *harness) start(name string, opts Options) {
	h.t.Helper()
	if err := h.mgr.ChangeMode(h.ctx, name, opts); err != nil {
		h.t.Fatalf("ChangeMode(%s) error = %v", name, err)
	}
	h.rec.reset()
}

// add inserts a feature and refreshes the display list.
func (h *harness) add(id string, g orb.Geometry) *geo.Feature {
	h.t.Helper()
	f, err := geo.New(id, g, map[string]any{"name": id})
	if err != nil {
		h.t.Fatalf("geo.New(%s) error = %v", id, err)
	}
	h.store.Add(f)
	h.mgr.Render(h.ctx)
	h.rec.reset()
	return f
}

func (h *harness) event(typ mouse.Type, lng, lat float64, mods key.Modifier) mouse.Event {
	ll := orb.Point{lng, lat}
	pos := h.surf.Project(ll)
	return mouse.Event{
		Type:      typ,
		Position:  pos,
		LngLat:    ll,
		Button:    mouse.ButtonLeft,
		Modifiers: mods,
		Target:    h.index.TargetAt(pos, false),
	}
}

func (h *harness) dispatch(e mouse.Event) {
	h.t.Helper()
	if err := h.mgr.Dispatch(h.ctx, e); err != nil {
		h.t.Fatalf("Dispatch(%s) error = %v", e.Type, err)
	}
}

func (h *harness) send(typ mouse.Type, lng, lat float64) {
	h.t.Helper()
	h.dispatch(h.event(typ, lng, lat, key.ModNone))
}

func (h *harness) shift(typ mouse.Type, lng, lat float64) {
	h.t.Helper()
	h.dispatch(h.event(typ, lng, lat, key.ModShift))
}

func (h *harness) keyUp(k key.Key) {
	h.t.Helper()
	if err := h.mgr.KeyUp(h.ctx, key.NewSpecialEvent(k, key.ModNone)); err != nil {
		h.t.Fatalf("KeyUp(%s) error = %v", k, err)
	}
}

func (h *harness) selected() []string {
	return h.store.SelectedIDs()
}

func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}}
}

func equalIDs(a, b []string) bool {
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
