package store

import (
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/geo"
)

// Coordinate names one vertex of a live feature.
type Coordinate struct {
	FeatureID string
	Path      geo.CoordPath
}

// SetSelected replaces the selection. Ids not in the store are skipped.
func (s *Store) SetSelected(ids ...string) {
	next := s.liveUnique(ids)
	if equalStrings(next, s.selected) {
		return
	}
	for _, id := range s.selected {
		s.MarkDirty(id)
	}
	s.selected = next
	s.selectedSet = make(map[string]bool, len(next))
	for _, id := range next {
		s.selectedSet[id] = true
		s.MarkDirty(id)
	}
	s.pruneCoordinates()
	s.pendingSelection = true
}

// Select adds ids to the selection, keeping existing members in place.
func (s *Store) Select(ids ...string) {
	for _, id := range s.liveUnique(ids) {
		if s.selectedSet[id] {
			continue
		}
		s.selectedSet[id] = true
		s.selected = append(s.selected, id)
		s.MarkDirty(id)
		s.pendingSelection = true
	}
}

// Deselect removes ids from the selection.
func (s *Store) Deselect(ids ...string) {
	for _, id := range ids {
		if !s.selectedSet[id] {
			continue
		}
		delete(s.selectedSet, id)
		s.selected = removeString(s.selected, id)
		s.dropCoordinates(id)
		s.MarkDirty(id)
		s.pendingSelection = true
	}
}

// ClearSelected empties the selection.
func (s *Store) ClearSelected() {
	s.SetSelected()
}

// SelectedIDs returns the selected ids in selection order.
func (s *Store) SelectedIDs() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// Selected returns the selected features in selection order.
func (s *Store) Selected() []*geo.Feature {
	out := make([]*geo.Feature, 0, len(s.selected))
	for _, id := range s.selected {
		if f, ok := s.features[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id string) bool {
	return s.selectedSet[id]
}

// SelectedInStoreOrder returns the selected features ordered by insertion
// into the store rather than by selection.
func (s *Store) SelectedInStoreOrder() []*geo.Feature {
	out := make([]*geo.Feature, 0, len(s.selected))
	for _, id := range s.order {
		if s.selectedSet[id] {
			out = append(out, s.features[id])
		}
	}
	return out
}

// SetSelectedCoordinates replaces the selected vertices.
func (s *Store) SetSelectedCoordinates(coords []Coordinate) {
	next := make([]Coordinate, 0, len(coords))
	for _, c := range coords {
		if f, ok := s.features[c.FeatureID]; ok {
			if _, err := f.CoordinateAt(c.Path); err == nil {
				next = append(next, c)
			}
		}
	}
	if equalCoordinates(next, s.selectedCoords) {
		return
	}
	s.selectedCoords = next
	s.pendingSelection = true
}

// ClearSelectedCoordinates empties the vertex selection.
func (s *Store) ClearSelectedCoordinates() {
	s.SetSelectedCoordinates(nil)
}

// SelectedCoordinates returns the selected vertices.
func (s *Store) SelectedCoordinates() []Coordinate {
	out := make([]Coordinate, len(s.selectedCoords))
	copy(out, s.selectedCoords)
	return out
}

// SelectedPoints returns the selected vertices as Point features.
func (s *Store) SelectedPoints() []*geojson.Feature {
	out := make([]*geojson.Feature, 0, len(s.selectedCoords))
	for _, c := range s.selectedCoords {
		f, ok := s.features[c.FeatureID]
		if !ok {
			continue
		}
		pt, err := f.CoordinateAt(c.Path)
		if err != nil {
			continue
		}
		out = append(out, geojson.NewFeature(pt))
	}
	return out
}

func (s *Store) dropCoordinates(id string) {
	out := s.selectedCoords[:0:0]
	for _, c := range s.selectedCoords {
		if c.FeatureID != id {
			out = append(out, c)
		}
	}
	s.selectedCoords = out
}

func (s *Store) pruneCoordinates() {
	out := s.selectedCoords[:0:0]
	for _, c := range s.selectedCoords {
		if s.selectedSet[c.FeatureID] {
			out = append(out, c)
		}
	}
	s.selectedCoords = out
}

func (s *Store) liveUnique(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, ok := s.features[id]; !ok {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func equalStrings(a, b []string) bool {
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

func equalCoordinates(a, b []Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].FeatureID != b[i].FeatureID || a[i].Path.String() != b[i].Path.String() {
			return false
		}
	}
	return true
}
