// Package events defines the closed set of notifications the drawing core
// publishes to its host, one topic constant and payload struct per kind.
//
// Events are created with event.NewEvent and published on an event.Bus:
//
//	evt := event.NewEvent(events.TopicFeatureCombined,
//	    events.FeaturesCombined{Created: created, Deleted: deleted},
//	    events.SourceMode,
//	)
//	bus.Publish(ctx, evt)
//
// Feature payloads are GeoJSON snapshots taken at publish time; hosts may
// keep them without worrying about later edits.
package events
