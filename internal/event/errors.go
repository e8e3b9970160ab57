package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrInvalidEvent is returned when an event does not carry a topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic is returned when a topic is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidSubscription is returned when a subscription is invalid.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when trying to unsubscribe a non-existent subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHandlerPanic is returned when a handler panics.
	ErrHandlerPanic = errors.New("handler panicked")
)

// PanicError wraps a panic value as an error.
type PanicError struct {
	// Topic is the topic of the event being delivered.
	Topic string

	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "handler panic on topic " + e.Topic
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
