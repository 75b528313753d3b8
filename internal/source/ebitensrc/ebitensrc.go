// Package ebitensrc bridges an ebiten game loop into the input event bus.
//
// Ebiten exposes input as per-frame polling rather than callbacks, so this
// adapter diffs the watched keys and mouse buttons against the previous
// frame and synthesizes down/up events for every transition. Call Poll once
// per Update.
package ebitensrc

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dshills/keyflux/internal/event"
)

// Publisher is the slice of the event bus the source needs.
// *event.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// Source polls ebiten input state and publishes transitions.
// Use from the game's Update goroutine only.
type Source struct {
	bus Publisher

	keys    []ebiten.Key
	buttons []ebiten.MouseButton

	keyDown    map[ebiten.Key]bool
	buttonDown map[ebiten.MouseButton]bool

	// Poll seams, replaceable in tests.
	keyPressed    func(ebiten.Key) bool
	buttonPressed func(ebiten.MouseButton) bool
}

// Option configures a Source.
type Option func(*Source)

// WithKeys restricts the watched key set. Default is every ebiten key.
func WithKeys(keys ...ebiten.Key) Option {
	return func(s *Source) {
		s.keys = keys
	}
}

// WithMouseButtons restricts the watched button set. Default is buttons
// 0 through ebiten.MouseButtonMax.
func WithMouseButtons(buttons ...ebiten.MouseButton) Option {
	return func(s *Source) {
		s.buttons = buttons
	}
}

// New creates a poll-diff source.
func New(bus Publisher, opts ...Option) *Source {
	s := &Source{
		bus:           bus,
		keyDown:       make(map[ebiten.Key]bool),
		buttonDown:    make(map[ebiten.MouseButton]bool),
		keyPressed:    ebiten.IsKeyPressed,
		buttonPressed: ebiten.IsMouseButtonPressed,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.keys == nil {
		s.keys = allKeys()
	}
	if s.buttons == nil {
		s.buttons = allButtons()
	}
	return s
}

// Poll samples the watched inputs and publishes a down or up for every one
// whose state changed since the previous Poll.
func (s *Source) Poll() {
	ctx := context.Background()

	for _, k := range s.keys {
		now := s.keyPressed(k)
		if now == s.keyDown[k] {
			continue
		}
		s.keyDown[k] = now
		if now {
			_ = s.bus.Publish(ctx, event.KeyDown(k.String()))
		} else {
			_ = s.bus.Publish(ctx, event.KeyUp(k.String()))
		}
	}

	for _, b := range s.buttons {
		now := s.buttonPressed(b)
		if now == s.buttonDown[b] {
			continue
		}
		s.buttonDown[b] = now
		if now {
			_ = s.bus.Publish(ctx, event.MouseDown(int(b)))
		} else {
			_ = s.bus.Publish(ctx, event.MouseUp(int(b)))
		}
	}
}

// Reset forgets the remembered state so the next Poll re-reports every
// held input as a fresh down. Useful after the tracker restarts.
func (s *Source) Reset() {
	clear(s.keyDown)
	clear(s.buttonDown)
}

func allKeys() []ebiten.Key {
	keys := make([]ebiten.Key, 0, int(ebiten.KeyMax)+1)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		keys = append(keys, k)
	}
	return keys
}

func allButtons() []ebiten.MouseButton {
	buttons := make([]ebiten.MouseButton, 0, int(ebiten.MouseButtonMax)+1)
	for b := ebiten.MouseButton(0); b <= ebiten.MouseButtonMax; b++ {
		buttons = append(buttons, b)
	}
	return buttons
}
