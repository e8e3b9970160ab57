package store

import (
	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/geo"
)

// Actionable describes which bulk operations the current selection permits.
type Actionable struct {
	CombineFeatures   bool
	UncombineFeatures bool
	Trash             bool
}

// ComputeActionable derives the flags from a resolved selection.
// Combine needs at least two features sharing a base kind; uncombine needs
// at least one Multi feature; trash needs anything selected.
func ComputeActionable(selected []*geo.Feature) Actionable {
	var a Actionable
	if len(selected) > 1 {
		a.CombineFeatures = true
		base := selected[0].Kind().Base()
		for _, f := range selected[1:] {
			if f.Kind().Base() != base {
				a.CombineFeatures = false
				break
			}
		}
	}
	for _, f := range selected {
		if f.IsMultiPart() {
			a.UncombineFeatures = true
			break
		}
	}
	a.Trash = len(selected) > 0
	return a
}

func (a Actionable) payload() events.ActionableChanged {
	return events.ActionableChanged{
		CombineFeatures:   a.CombineFeatures,
		UncombineFeatures: a.UncombineFeatures,
		Trash:             a.Trash,
	}
}

// Actionable returns the last published flags.
func (s *Store) Actionable() Actionable {
	return s.actionable
}

// SetActionable records explicit flags for the current action. They are
// published on the next Flush if they differ from the last snapshot.
func (s *Store) SetActionable(a Actionable) {
	s.explicitActionable = true
	s.setActionable(a)
}

// RecomputeActionable derives the flags from the current selection.
func (s *Store) RecomputeActionable() {
	s.setActionable(ComputeActionable(s.Selected()))
}

func (s *Store) setActionable(a Actionable) {
	if a == s.actionable {
		return
	}
	s.actionable = a
	s.pendingActionable = true
}
