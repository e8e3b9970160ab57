// Package store owns the live features and the selection set.
//
// The store is the single owner of every feature. Modes keep ids, never
// feature pointers, across handler calls. Deleting a feature removes it
// from the selection in the same call, so the selection can never name a
// feature that no longer exists.
//
// Notifications are queued while an action runs and published by Flush,
// which the mode manager calls once per dispatched event. That keeps the
// host at one selection.changed per logical user action regardless of how
// many helpers touched the selection.
//
// A Store is not safe for concurrent use; the interaction core delivers
// events one at a time.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event"
	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/geo"
)

// DeleteOptions controls Delete.
type DeleteOptions struct {
	// Silent suppresses the deleted and selection-changed notifications.
	// Used when the features are replaced within the same action.
	Silent bool
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// Store holds features in insertion order together with the selection.
type Store struct {
	bus   event.Bus
	newID func() string

	features map[string]*geo.Feature
	order    []string

	dirty      map[string]bool
	dirtyOrder []string
	deleted    []string

	selected       []string
	selectedSet    map[string]bool
	selectedCoords []Coordinate

	actionable         Actionable
	explicitActionable bool

	pendingSelection  bool
	pendingActionable bool
	pendingDeleted    []*geojson.Feature
}

// New creates an empty store publishing on bus. A nil bus disables
// notifications.
func New(bus event.Bus, opts ...Option) *Store {
	s := &Store{
		bus:         bus,
		newID:       NewID,
		features:    make(map[string]*geo.Feature),
		dirty:       make(map[string]bool),
		selectedSet: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh feature id: a random UUID in compact hex form.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewID returns an id from the store's generator.
func (s *Store) NewID() string {
	return s.newID()
}

// Add inserts f, or replaces the feature with the same id in place.
// The feature is marked dirty. It returns the feature id.
func (s *Store) Add(f *geo.Feature) string {
	id := f.ID()
	if _, ok := s.features[id]; !ok {
		s.order = append(s.order, id)
	}
	s.features[id] = f
	s.MarkDirty(id)
	return id
}

// SetProperty sets one user property and marks the feature dirty.
func (s *Store) SetProperty(id, key string, value any) error {
	f, ok := s.features[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	f.Properties[key] = value
	s.MarkDirty(id)
	return nil
}

// Get returns the feature with the given id.
func (s *Store) Get(id string) (*geo.Feature, bool) {
	f, ok := s.features[id]
	return f, ok
}

// GetAll returns the live features in insertion order.
func (s *Store) GetAll() []*geo.Feature {
	out := make([]*geo.Feature, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.features[id])
	}
	return out
}

// IDs returns the live ids in insertion order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of live features.
func (s *Store) Len() int {
	return len(s.order)
}

// Delete removes the given features. Unknown ids are ignored. Selected
// features leave the selection in the same call.
func (s *Store) Delete(ids []string, opts DeleteOptions) {
	for _, id := range ids {
		f, ok := s.features[id]
		if !ok {
			continue
		}
		delete(s.features, id)
		s.order = removeString(s.order, id)
		delete(s.dirty, id)
		s.dirtyOrder = removeString(s.dirtyOrder, id)
		s.deleted = append(s.deleted, id)

		if s.selectedSet[id] {
			delete(s.selectedSet, id)
			s.selected = removeString(s.selected, id)
			if !opts.Silent {
				s.pendingSelection = true
			}
		}
		s.dropCoordinates(id)

		if !opts.Silent {
			s.pendingDeleted = append(s.pendingDeleted, f.ToGeoJSON())
		}
	}
}

// DeleteAll removes every feature.
func (s *Store) DeleteAll(opts DeleteOptions) {
	s.Delete(s.IDs(), opts)
}

// MarkDirty flags a feature for the next render pass.
func (s *Store) MarkDirty(id string) {
	if s.dirty[id] {
		return
	}
	s.dirty[id] = true
	s.dirtyOrder = append(s.dirtyOrder, id)
}

// IsDirty reports whether the feature awaits a render pass.
func (s *Store) IsDirty(id string) bool {
	return s.dirty[id]
}

// Refresh returns the dirty ids in the order they were marked and clears
// the dirty set together with the record of deleted ids.
func (s *Store) Refresh() []string {
	out := s.dirtyOrder
	s.dirtyOrder = nil
	s.dirty = make(map[string]bool)
	s.deleted = nil
	return out
}

// Deleted returns the ids deleted since the last Refresh.
func (s *Store) Deleted() []string {
	out := make([]string, len(s.deleted))
	copy(out, s.deleted)
	return out
}

// Flush publishes the notifications queued by the current action: deleted
// features, then the selection change, then the actionable flags.
func (s *Store) Flush(ctx context.Context) error {
	if s.pendingSelection && !s.explicitActionable {
		s.RecomputeActionable()
	}

	deleted := s.pendingDeleted
	selection := s.pendingSelection
	actionable := s.pendingActionable
	s.Discard()

	if s.bus == nil {
		return nil
	}
	if len(deleted) > 0 {
		ev := event.NewEvent(events.TopicFeatureDeleted, events.FeaturesDeleted{Features: deleted}, events.SourceStore)
		if err := s.bus.Publish(ctx, ev); err != nil {
			return err
		}
	}
	if selection {
		ev := event.NewEvent(events.TopicSelectionChanged, events.SelectionChanged{
			Features: s.selectedGeoJSON(),
			Points:   s.SelectedPoints(),
		}, events.SourceStore)
		if err := s.bus.Publish(ctx, ev); err != nil {
			return err
		}
	}
	if actionable {
		ev := event.NewEvent(events.TopicActionableChanged, s.actionable.payload(), events.SourceStore)
		if err := s.bus.Publish(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops the queued notifications without publishing them.
func (s *Store) Discard() {
	s.pendingDeleted = nil
	s.pendingSelection = false
	s.pendingActionable = false
	s.explicitActionable = false
}

// HasPending reports whether Flush would publish anything.
func (s *Store) HasPending() bool {
	return len(s.pendingDeleted) > 0 || s.pendingSelection || s.pendingActionable
}

func (s *Store) selectedGeoJSON() []*geojson.Feature {
	sel := s.Selected()
	out := make([]*geojson.Feature, len(sel))
	for i, f := range sel {
		out[i] = f.ToGeoJSON()
	}
	return out
}

func removeString(list []string, v string) []string {
	for i, s := range list {
		if s == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
