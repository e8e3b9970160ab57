package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/geodraw/internal/event/topic"
)

// Bus is the notification bridge between the drawing core and its host.
type Bus interface {
	// Publish delivers event synchronously to every matching subscriber.
	Publish(ctx context.Context, event any) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)

	// SubscribeFunc registers a function handler for a topic pattern.
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe removes a subscription.
	Unsubscribe(sub Subscription) error

	// Pause suppresses delivery until Resume.
	Pause()

	// Resume restarts delivery.
	Resume()

	// IsPaused reports whether delivery is suppressed.
	IsPaused() bool

	// Stats returns delivery counters.
	Stats() Stats
}

type bus struct {
	registry *Registry
	config   busConfig
	paused   atomic.Bool
	seq      atomic.Uint64

	eventsPublished  atomic.Uint64
	eventsDelivered  atomic.Uint64
	eventsSuppressed atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a new synchronous event bus.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{
		registry: NewRegistry(),
		config:   config,
	}
}

func (b *bus) Pause() {
	b.paused.Store(true)
}

func (b *bus) Resume() {
	b.paused.Store(false)
}

func (b *bus) IsPaused() bool {
	return b.paused.Load()
}

// Publish delivers the event to all matching handlers in priority order.
// Handler errors and panics are counted and reported but do not stop
// delivery; Publish only fails when the event carries no topic.
func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	t := tp.EventTopic()
	if !t.IsValid() || t.IsWildcard() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, t)
	}
	if b.paused.Load() {
		b.eventsSuppressed.Add(1)
		return nil
	}
	if b.config.observer != nil {
		b.config.observer(t)
	}

	subs := b.registry.match(t)
	if len(subs) == 0 {
		return nil
	}
	b.eventsPublished.Add(1)

	for _, sub := range subs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !sub.shouldDeliver(event) {
			continue
		}
		if sub.config.Once {
			b.registry.remove(sub.id)
		}
		if err := b.deliver(ctx, t, sub, event); err != nil {
			b.handlerErrors.Add(1)
			if b.config.errorHandler != nil {
				b.config.errorHandler(event, err)
			}
			continue
		}
		b.eventsDelivered.Add(1)
	}
	return nil
}

func (b *bus) deliver(ctx context.Context, t topic.Topic, sub *subscription, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, r)
			}
			err = &PanicError{Topic: t.String(), Value: r}
		}
	}()
	return sub.handler.Handle(ctx, event)
}

func (b *bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	sub := newSubscription(uuid.NewString(), pattern, handler, b.seq.Add(1), opts...)
	b.registry.add(sub)
	return sub, nil
}

func (b *bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	if !b.registry.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		EventsSuppressed:  b.eventsSuppressed.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.Count(),
	}
}
