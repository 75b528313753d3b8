package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/keyflux/internal/event"
	"github.com/dshills/keyflux/internal/input"
	"github.com/dshills/keyflux/internal/logging"
)

// ErrAlreadyStarted is returned by Start when listeners are already
// registered. Callers treating Start as idempotent may ignore it; the
// guard exists so listeners are never registered twice.
var ErrAlreadyStarted = errors.New("input state already started")

// Source is the slice of the event bus the tracker needs: listener
// registration and symmetric unregistration. *event.Bus satisfies it.
type Source interface {
	Subscribe(t event.Topic, h event.Handler) (event.Subscription, error)
	Unsubscribe(sub event.Subscription) error
}

// State tracks the live pressed/released state of raw inputs and resolves
// named actions against it. Safe for concurrent use; sources may deliver
// events from a different goroutine than the one polling the queries.
type State struct {
	mu      sync.RWMutex
	source  Source
	pressed map[input.ID]bool
	actions map[string]input.ID

	// Retained subscription handles so Stop unregisters exactly the
	// listeners Start registered. Non-empty iff started.
	subs []event.Subscription

	log *logging.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used for the log-only side channel
// (unresolved action names, listener bookkeeping).
func WithLogger(l *logging.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a tracker bound to an event source. Both maps start empty;
// no listeners are registered until Start.
func New(source Source, opts ...Option) *State {
	s := &State{
		source:  source,
		pressed: make(map[input.ID]bool),
		actions: make(map[string]input.ID),
		log:     logging.Null,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the down and up listeners for both the keyboard and mouse
// channels. A second Start without an intervening Stop returns
// ErrAlreadyStarted and registers nothing, so duplicate listeners are
// impossible.
func (s *State) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subs) > 0 {
		return ErrAlreadyStarted
	}

	listeners := []struct {
		topic   event.Topic
		handler event.HandlerFunc
	}{
		{event.TopicKeyDown, s.keyListener(true)},
		{event.TopicKeyUp, s.keyListener(false)},
		{event.TopicMouseDown, s.mouseListener(true)},
		{event.TopicMouseUp, s.mouseListener(false)},
	}

	subs := make([]event.Subscription, 0, len(listeners))
	for _, l := range listeners {
		sub, err := s.source.Subscribe(l.topic, l.handler)
		if err != nil {
			// Roll back the partial registration.
			for _, registered := range subs {
				_ = s.source.Unsubscribe(registered)
			}
			return fmt.Errorf("subscribing %s: %w", l.topic, err)
		}
		subs = append(subs, sub)
	}

	s.subs = subs
	s.log.Debug("input state started, %d listeners registered", len(subs))
	return nil
}

// Stop unregisters all listeners and clears the pressed-state map. The
// action map is untouched. Safe to call when never started or already
// stopped; every query afterwards reports not-pressed until new events or
// manual triggers arrive.
func (s *State) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		// Best effort: a subscription the source no longer holds is
		// already unregistered.
		_ = s.source.Unsubscribe(sub)
	}
	s.subs = nil
	clear(s.pressed)
	s.log.Debug("input state stopped")
}

// Started reports whether listeners are currently registered.
func (s *State) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs) > 0
}

// keyListener builds the handler recording key transitions.
func (s *State) keyListener(down bool) event.HandlerFunc {
	return func(_ context.Context, ev any) error {
		ke, ok := ev.(event.KeyEvent)
		if !ok {
			return event.ErrInvalidEvent
		}
		s.record(input.Key(ke.Label), down)
		return nil
	}
}

// mouseListener builds the handler recording mouse-button transitions.
func (s *State) mouseListener(down bool) event.HandlerFunc {
	return func(_ context.Context, ev any) error {
		me, ok := ev.(event.MouseEvent)
		if !ok {
			return event.ErrInvalidEvent
		}
		s.record(input.MouseButton(me.Button), down)
		return nil
	}
}

// record writes one transition into the pressed-state map.
func (s *State) record(id input.ID, down bool) {
	s.mu.Lock()
	s.pressed[id] = down
	s.mu.Unlock()
}

// AddAction binds name to an input identifier. Any previous binding for
// name is silently replaced; the identifier is not validated.
func (s *State) AddAction(name string, id input.ID) {
	s.mu.Lock()
	s.actions[name] = id
	s.mu.Unlock()
}

// Action returns the identifier bound to name, and whether a binding exists.
func (s *State) Action(name string) (input.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.actions[name]
	return id, ok
}

// ActionPress marks the input bound to name as pressed, exactly as if the
// host had delivered a down event for it. Unbound names are a silent no-op.
func (s *State) ActionPress(name string) {
	s.trigger(name, true)
}

// ActionRelease marks the input bound to name as released. Unbound names
// are a silent no-op.
func (s *State) ActionRelease(name string) {
	s.trigger(name, false)
}

func (s *State) trigger(name string, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Presence check, not truthiness: mouse button 0 is a real binding.
	id, ok := s.actions[name]
	if !ok {
		s.log.Debug("trigger for unbound action %q ignored", name)
		return
	}
	s.pressed[id] = down
}

// IsActionPressed reports whether the input bound to name is currently
// pressed. False when the action is unbound or its input was never observed.
func (s *State) IsActionPressed(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.actions[name]
	if !ok {
		return false
	}
	return s.pressed[id]
}

// IsKeyPressed reports whether the key with the given label is currently
// pressed. Keys never observed report false.
func (s *State) IsKeyPressed(label string) bool {
	return s.IsPressed(input.Key(label))
}

// IsMouseButtonPressed reports whether the mouse button with the given
// ordinal is currently pressed. Buttons never observed report false.
func (s *State) IsMouseButtonPressed(button int) bool {
	return s.IsPressed(input.MouseButton(button))
}

// IsPressed reports the pressed state for an arbitrary identifier.
func (s *State) IsPressed(id input.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pressed[id]
}

// IsAnythingPressed reports whether at least one tracked input is currently
// held down.
func (s *State) IsAnythingPressed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, down := range s.pressed {
		if down {
			return true
		}
	}
	return false
}

// Pressed returns a snapshot of the identifiers currently held down.
// Order is unspecified.
func (s *State) Pressed() []input.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]input.ID, 0, len(s.pressed))
	for id, down := range s.pressed {
		if down {
			ids = append(ids, id)
		}
	}
	return ids
}
