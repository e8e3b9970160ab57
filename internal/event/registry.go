package event

import (
	"sort"
	"sync"

	"github.com/dshills/geodraw/internal/event/topic"
)

// Registry manages subscriptions organized by topic pattern.
type Registry struct {
	mu      sync.RWMutex
	subs    map[topic.Topic][]*subscription
	byID    map[string]*subscription
	matcher *topic.Matcher
}

// NewRegistry creates a new subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		subs:    make(map[topic.Topic][]*subscription),
		byID:    make(map[string]*subscription),
		matcher: topic.NewMatcher(),
	}
}

func (r *Registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs[sub.topic] = append(r.subs[sub.topic], sub)
	r.byID[sub.id] = sub
	r.matcher.Add(sub.topic)
}

func (r *Registry) remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[subID]
	if !ok {
		return false
	}
	subs := r.subs[sub.topic]
	for i, s := range subs {
		if s.id == subID {
			r.subs[sub.topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[sub.topic]) == 0 {
		delete(r.subs, sub.topic)
		r.matcher.Remove(sub.topic)
	}
	delete(r.byID, subID)
	sub.cancel()
	return true
}

// match returns the subscriptions whose pattern matches t, ordered by
// priority and then by subscription order.
func (r *Registry) match(t topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*subscription
	for _, pattern := range r.matcher.Match(t) {
		all = append(all, r.subs[pattern]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].config.Priority != all[j].config.Priority {
			return all[i].config.Priority < all[j].config.Priority
		}
		return all[i].seq < all[j].seq
	})
	return all
}

// Count returns the number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Topics returns the subscribed patterns.
func (r *Registry) Topics() []topic.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]topic.Topic, 0, len(r.subs))
	for t := range r.subs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clear removes every subscription.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.byID {
		sub.cancel()
	}
	r.subs = make(map[topic.Topic][]*subscription)
	r.byID = make(map[string]*subscription)
	r.matcher.Clear()
}
