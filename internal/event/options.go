package event

import "github.com/dshills/geodraw/internal/event/topic"

// BusOption configures an event Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// panicHandler is called when a handler panics.
	panicHandler PanicHandler

	// errorHandler is called when a handler returns an error.
	errorHandler ErrorHandler

	// observer is told about every published topic.
	observer func(t topic.Topic)
}

// defaultBusConfig returns the default configuration.
func defaultBusConfig() busConfig {
	return busConfig{}
}

// WithPanicHandler sets the panic handler for the bus.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithErrorHandler sets the handler error callback.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

// WithObserver registers a callback invoked once per published event,
// before delivery. Metrics use it to count notifications by topic.
func WithObserver(fn func(t topic.Topic)) BusOption {
	return func(c *busConfig) {
		c.observer = fn
	}
}
