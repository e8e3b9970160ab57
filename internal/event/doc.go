// Package event provides the notification bridge between the drawing core
// and its host.
//
// Modes and the feature store publish strongly typed events (see the events
// subpackage) on a Bus; the host subscribes to the topics it cares about.
// Delivery is synchronous: Publish returns after every matching handler has
// run, in priority order, on the caller's goroutine. This matches the
// single-threaded, event-at-a-time model of the interaction core.
//
// # Event Topics
//
// Events use hierarchical topics with dot notation:
//
//	selection.changed    - The selection set changed
//	feature.updated      - A feature's geometry or properties changed
//	feature.combined     - Features were merged into a Multi feature
//	mode.changed         - The active interaction mode changed
//
// # Wildcard Patterns
//
//	feature.*    - matches feature.created, feature.updated (single segment)
//	**           - matches every topic
//
// # Handler Failures
//
// A handler error is counted and the remaining handlers still run. A
// handler panic is recovered, reported to the PanicHandler and counted; it
// never propagates back into the publisher.
//
// # Usage
//
//	bus := event.NewBus()
//	sub, _ := bus.SubscribeFunc(events.TopicFeatureCombined, func(ctx context.Context, ev any) error {
//	    e := ev.(event.Event[events.FeaturesCombined])
//	    fmt.Println(len(e.Payload.Created))
//	    return nil
//	})
//	defer bus.Unsubscribe(sub)
package event
