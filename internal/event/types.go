package event

import "context"

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for the renderer and other handlers that must run first.
	PriorityCritical Priority = 0

	// PriorityHigh is for host state synchronisation.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for metrics and logging handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// TypedHandlerFunc handles events carrying a payload of type T.
type TypedHandlerFunc[T any] func(ctx context.Context, event Event[T]) error

// AsHandlerFunc converts a TypedHandlerFunc to a generic Handler.
// Events with a different payload type are skipped.
func AsHandlerFunc[T any](fn TypedHandlerFunc[T]) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		if e, ok := event.(Event[T]); ok {
			return fn(ctx, e)
		}
		return nil
	})
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event, false to filter it out.
type FilterFunc func(event any) bool

// Stats contains event bus statistics.
type Stats struct {
	// EventsPublished is the total number of events published with at least one subscriber.
	EventsPublished uint64

	// EventsDelivered is the total number of successful handler deliveries.
	EventsDelivered uint64

	// EventsSuppressed is the number of events dropped while the bus was paused.
	EventsSuppressed uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscribers is the current number of active subscriptions.
	ActiveSubscribers int
}

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, recovered any)

// ErrorHandler is called when a handler returns an error.
type ErrorHandler func(event any, err error)
