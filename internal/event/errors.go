package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidTopic is returned when a topic is empty or not one of the input topics.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidEvent is returned when an event carries no topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidSubscription is returned when a nil subscription is passed to Unsubscribe.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when unsubscribing a subscription the bus does not hold.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
