package event

import "fmt"

// Topic identifies one of the four input notification channels.
type Topic string

const (
	// TopicKeyDown is published when a keyboard key is pressed.
	TopicKeyDown Topic = "input.key.down"

	// TopicKeyUp is published when a keyboard key is released.
	TopicKeyUp Topic = "input.key.up"

	// TopicMouseDown is published when a mouse button is pressed.
	TopicMouseDown Topic = "input.mouse.down"

	// TopicMouseUp is published when a mouse button is released.
	TopicMouseUp Topic = "input.mouse.up"
)

// IsValid reports whether t is one of the four input topics.
func (t Topic) IsValid() bool {
	switch t {
	case TopicKeyDown, TopicKeyUp, TopicMouseDown, TopicMouseUp:
		return true
	default:
		return false
	}
}

// TopicProvider is implemented by events that know their own topic.
// The bus uses it to route an event to subscribers.
type TopicProvider interface {
	EventTopic() Topic
}

// KeyEvent is a keyboard press or release notification.
// The direction is carried by the topic.
type KeyEvent struct {
	Topic Topic
	Label string
}

// EventTopic implements TopicProvider.
func (e KeyEvent) EventTopic() Topic { return e.Topic }

// String returns a human-readable form, e.g. "input.key.down(Space)".
func (e KeyEvent) String() string {
	return fmt.Sprintf("%s(%s)", e.Topic, e.Label)
}

// KeyDown builds a key press event for the given key label.
func KeyDown(label string) KeyEvent {
	return KeyEvent{Topic: TopicKeyDown, Label: label}
}

// KeyUp builds a key release event for the given key label.
func KeyUp(label string) KeyEvent {
	return KeyEvent{Topic: TopicKeyUp, Label: label}
}

// MouseEvent is a mouse button press or release notification.
// The direction is carried by the topic.
type MouseEvent struct {
	Topic  Topic
	Button int
}

// EventTopic implements TopicProvider.
func (e MouseEvent) EventTopic() Topic { return e.Topic }

// String returns a human-readable form, e.g. "input.mouse.down(0)".
func (e MouseEvent) String() string {
	return fmt.Sprintf("%s(%d)", e.Topic, e.Button)
}

// MouseDown builds a button press event for the given button ordinal.
func MouseDown(button int) MouseEvent {
	return MouseEvent{Topic: TopicMouseDown, Button: button}
}

// MouseUp builds a button release event for the given button ordinal.
func MouseUp(button int) MouseEvent {
	return MouseEvent{Topic: TopicMouseUp, Button: button}
}
