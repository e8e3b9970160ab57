package event

import (
	"sync/atomic"

	"github.com/dshills/geodraw/internal/event/topic"
)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStatePaused means the subscription is temporarily not receiving events.
	SubscriptionStatePaused

	// SubscriptionStateCancelled means the subscription has been permanently cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is a handle to a registered handler.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed pattern.
	Topic() topic.Topic

	// State returns the current state.
	State() SubscriptionState

	// Pause stops delivery until Resume is called.
	Pause()

	// Resume restarts delivery.
	Resume()
}

// SubscriptionConfig holds per-subscription settings.
type SubscriptionConfig struct {
	// Priority orders handlers; lower runs first.
	Priority Priority

	// Filter drops events for which it returns false.
	Filter FilterFunc

	// Once cancels the subscription after the first delivery.
	Once bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// DefaultSubscriptionConfig returns the default subscription configuration.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

// WithPriority sets the handler priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets an event filter.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce makes the subscription fire only once.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

type subscription struct {
	id      string
	topic   topic.Topic
	handler Handler
	config  SubscriptionConfig
	state   atomic.Int32
	seq     uint64
}

func newSubscription(id string, t topic.Topic, h Handler, seq uint64, opts ...SubscriptionOption) *subscription {
	cfg := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &subscription{
		id:      id,
		topic:   t,
		handler: h,
		config:  cfg,
		seq:     seq,
	}
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Topic() topic.Topic {
	return s.topic
}

func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

func (s *subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

func (s *subscription) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStatePaused))
}

func (s *subscription) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionStatePaused), int32(SubscriptionStateActive))
}

func (s *subscription) cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
}

// shouldDeliver checks state and filter.
func (s *subscription) shouldDeliver(event any) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(event) {
		return false
	}
	return true
}
