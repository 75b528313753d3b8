package event

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync/atomic"
)

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

// Subscription is the handle returned by Bus.Subscribe. Callers retain it
// so the exact registered handler can be unregistered later.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic.
	Topic() Topic

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Cancel permanently stops delivery to this subscription.
	// Cancel does not remove the subscription from the bus; use
	// Bus.Unsubscribe for that.
	Cancel()
}

// subscription is the internal Subscription implementation.
type subscription struct {
	id        string
	topic     Topic
	handler   Handler
	cancelled atomic.Bool
}

func newSubscription(topic Topic, handler Handler) *subscription {
	return &subscription{
		id:      generateID(),
		topic:   topic,
		handler: handler,
	}
}

// ID returns the subscription ID.
func (s *subscription) ID() string { return s.id }

// Topic returns the subscribed topic.
func (s *subscription) Topic() Topic { return s.topic }

// IsActive returns true if the subscription has not been cancelled.
func (s *subscription) IsActive() bool { return !s.cancelled.Load() }

// Cancel permanently stops delivery.
func (s *subscription) Cancel() { s.cancelled.Store(true) }

// generateID creates a random subscription identifier.
func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure is not recoverable in any useful way here;
		// fall back to a fixed marker rather than panicking the host loop.
		return "sub-rand-unavailable"
	}
	return hex.EncodeToString(b)
}
