package event

import "sync"

// registry stores subscriptions grouped by topic, preserving subscription
// order within each topic. It is safe for concurrent use.
type registry struct {
	mu      sync.RWMutex
	byID    map[string]*subscription
	ordered map[Topic][]*subscription
}

func newRegistry() *registry {
	return &registry{
		byID:    make(map[string]*subscription),
		ordered: make(map[Topic][]*subscription),
	}
}

// add registers a subscription.
func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[sub.id] = sub
	r.ordered[sub.topic] = append(r.ordered[sub.topic], sub)
}

// remove deletes a subscription by ID. Returns false if it was not held.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)

	subs := r.ordered[sub.topic]
	for i, s := range subs {
		if s.id == id {
			r.ordered[sub.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.ordered[sub.topic]) == 0 {
		delete(r.ordered, sub.topic)
	}
	return true
}

// matchActive returns the active subscriptions for a topic in subscription order.
func (r *registry) matchActive(t Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.ordered[t]
	if len(subs) == 0 {
		return nil
	}

	active := make([]*subscription, 0, len(subs))
	for _, s := range subs {
		if s.IsActive() {
			active = append(active, s)
		}
	}
	return active
}

// countActive returns the number of active subscriptions for a topic.
func (r *registry) countActive(t Topic) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.ordered[t] {
		if s.IsActive() {
			n++
		}
	}
	return n
}
