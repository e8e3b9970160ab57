package events

import (
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/event/topic"
)

// Publishing components.
const (
	SourceStore = "store"
	SourceMode  = "mode"
	SourceAPI   = "api"
)

// Draw event topics.
const (
	// TopicSelectionChanged is published once per action that changed the selection.
	TopicSelectionChanged topic.Topic = "selection.changed"

	// TopicFeatureCreated is published when a drawing mode finishes a feature.
	TopicFeatureCreated topic.Topic = "feature.created"

	// TopicFeatureDeleted is published when features are removed without suppression.
	TopicFeatureDeleted topic.Topic = "feature.deleted"

	// TopicFeatureUpdated is published after a move or a vertex edit.
	TopicFeatureUpdated topic.Topic = "feature.updated"

	// TopicFeatureCombined is published after features were merged.
	TopicFeatureCombined topic.Topic = "feature.combined"

	// TopicFeatureUncombined is published after Multi features were split.
	TopicFeatureUncombined topic.Topic = "feature.uncombined"

	// TopicModeChanged is published after a mode transition completes.
	TopicModeChanged topic.Topic = "mode.changed"

	// TopicActionableChanged is published when the actionable flags change.
	TopicActionableChanged topic.Topic = "actionable.changed"

	// TopicRender is published after each render pass.
	TopicRender topic.Topic = "render"
)

// Update actions carried by FeatureUpdated.
const (
	ActionMove              = "move"
	ActionChangeCoordinates = "change_coordinates"
	ActionChangeProperties  = "change_properties"
)

// SelectionChanged is the payload for TopicSelectionChanged.
type SelectionChanged struct {
	// Features are the selected features in selection order.
	Features []*geojson.Feature

	// Points are the selected vertices, as Point features.
	Points []*geojson.Feature
}

// FeaturesCreated is the payload for TopicFeatureCreated.
type FeaturesCreated struct {
	Features []*geojson.Feature
}

// FeaturesDeleted is the payload for TopicFeatureDeleted.
type FeaturesDeleted struct {
	Features []*geojson.Feature
}

// FeatureUpdated is the payload for TopicFeatureUpdated.
type FeatureUpdated struct {
	// Action is one of the Action constants.
	Action string

	// Features hold the geometry after the change.
	Features []*geojson.Feature

	// Before hold the same features as they were when the gesture started.
	Before []*geojson.Feature
}

// FeaturesCombined is the payload for TopicFeatureCombined.
type FeaturesCombined struct {
	Created []*geojson.Feature
	Deleted []*geojson.Feature
}

// FeaturesUncombined is the payload for TopicFeatureUncombined.
type FeaturesUncombined struct {
	Created []*geojson.Feature
	Deleted []*geojson.Feature
}

// ModeChanged is the payload for TopicModeChanged.
type ModeChanged struct {
	Mode     string
	Previous string
}

// ActionableChanged is the payload for TopicActionableChanged.
type ActionableChanged struct {
	CombineFeatures   bool
	UncombineFeatures bool
	Trash             bool
}

// Rendered is the payload for TopicRender.
type Rendered struct {
	// Mode is the mode that produced the display list.
	Mode string

	// Displayed is the number of display features emitted.
	Displayed int
}
