package event

import (
	"context"
	"sync/atomic"
)

// PanicHandler is called when a subscribed handler panics during delivery.
type PanicHandler func(event any, recovered any)

// Bus is a synchronous input event bus. Hosts publish key and mouse-button
// transitions; the input-state tracker subscribes to the four input topics.
type Bus struct {
	registry *registry

	panicHandler PanicHandler

	// Stats
	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler installs a hook for recovered handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.panicHandler = h
	}
}

// NewBus creates a new event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		registry: newRegistry(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for a topic and returns the Subscription
// handle needed to unregister the same handler later.
// Safe for concurrent use.
func (b *Bus) Subscribe(t Topic, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !t.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(t, handler)
	b.registry.add(sub)
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *Bus) SubscribeFunc(t Topic, fn HandlerFunc) (Subscription, error) {
	return b.Subscribe(t, fn)
}

// Unsubscribe cancels a subscription and removes it from the bus.
// Unsubscribing a subscription the bus no longer holds returns
// ErrSubscriptionNotFound; callers treating stop as best-effort may ignore it.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()
	if !b.registry.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Publish delivers an event synchronously to every active subscriber of the
// event's topic, in subscription order, on the caller's goroutine. Handler
// errors and panics are absorbed: a panic is routed to the panic hook, and
// neither interrupts delivery to the remaining subscribers.
func (b *Bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	t := tp.EventTopic()
	if !t.IsValid() {
		return ErrInvalidTopic
	}

	subs := b.registry.matchActive(t)
	if len(subs) == 0 {
		return nil
	}

	b.eventsPublished.Add(1)
	for _, sub := range subs {
		b.dispatch(ctx, event, sub)
	}
	return nil
}

// dispatch invokes one handler, recovering panics.
func (b *Bus) dispatch(ctx context.Context, event any, sub *subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(event, r)
			}
		}
	}()

	if err := sub.handler.Handle(ctx, event); err != nil {
		b.handlerErrors.Add(1)
		return
	}
	b.eventsDelivered.Add(1)
}

// SubscriberCount returns the number of active subscriptions for a topic.
func (b *Bus) SubscriberCount(t Topic) int {
	return b.registry.countActive(t)
}

// Stats is a snapshot of bus counters.
type Stats struct {
	EventsPublished uint64
	EventsDelivered uint64
	HandlerErrors   uint64
	HandlerPanics   uint64
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	return Stats{
		EventsPublished: b.eventsPublished.Load(),
		EventsDelivered: b.eventsDelivered.Load(),
		HandlerErrors:   b.handlerErrors.Load(),
		HandlerPanics:   b.handlerPanics.Load(),
	}
}
