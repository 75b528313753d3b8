// Package term bridges a tcell terminal into the input event bus.
//
// Mouse buttons get true press/release pairs derived by diffing the button
// mask of successive mouse events. Terminals do not report key releases, so
// each key event is published as a down immediately followed by an up - a
// keystroke becomes a tap. Hosts needing held keys should use the glfwsrc
// or ebitensrc adapters instead.
package term

import (
	"context"
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyflux/internal/event"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("terminal source already started")

// Publisher is the slice of the event bus the source needs.
// *event.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// Source owns a tcell screen and publishes its input events on the bus.
type Source struct {
	screen tcell.Screen
	bus    Publisher

	mu      sync.Mutex
	started bool
	buttons tcell.ButtonMask // mask as of the previous mouse event

	wg sync.WaitGroup
}

// New creates a source on a new tcell screen.
func New(bus Publisher) (*Source, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, bus), nil
}

// NewWithScreen creates a source on an existing screen. Used with tcell's
// simulation screen in tests.
func NewWithScreen(screen tcell.Screen, bus Publisher) *Source {
	return &Source{screen: screen, bus: bus}
}

// Screen exposes the underlying screen so a host can draw on it.
func (s *Source) Screen() tcell.Screen {
	return s.screen
}

// Start initializes the screen, enables mouse reporting, and begins
// translating terminal events into bus publishes.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnableMouse()
	s.started = true

	s.wg.Add(1)
	go s.run()
	return nil
}

// Stop finalizes the screen and waits for the event loop to exit.
// Safe to call when never started.
func (s *Source) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	// Fini interrupts PollEvent, which then returns nil and ends the loop.
	s.screen.Fini()
	s.wg.Wait()
}

func (s *Source) run() {
	defer s.wg.Done()
	ctx := context.Background()

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}

		switch tev := ev.(type) {
		case *tcell.EventKey:
			label := keyLabel(tev)
			_ = s.bus.Publish(ctx, event.KeyDown(label))
			_ = s.bus.Publish(ctx, event.KeyUp(label))
		case *tcell.EventMouse:
			s.publishButtonDiff(ctx, tev.Buttons())
		}
	}
}

// publishButtonDiff compares the event's button mask with the previous one
// and publishes a down or up for every button whose bit changed.
func (s *Source) publishButtonDiff(ctx context.Context, mask tcell.ButtonMask) {
	s.mu.Lock()
	prev := s.buttons
	s.buttons = mask & buttonBits
	now := s.buttons
	s.mu.Unlock()

	for ordinal := 0; ordinal < buttonCount; ordinal++ {
		bit := tcell.ButtonMask(1) << ordinal
		was := prev&bit != 0
		is := now&bit != 0
		switch {
		case is && !was:
			_ = s.bus.Publish(ctx, event.MouseDown(ordinal))
		case !is && was:
			_ = s.bus.Publish(ctx, event.MouseUp(ordinal))
		}
	}
}

// tcell reports eight buttons, Button1 through Button8, as the low mask
// bits. Ordinal 0 is Button1, the primary button.
const (
	buttonCount = 8
	buttonBits  = tcell.ButtonMask(1)<<buttonCount - 1
)

// keyLabel names a key event. Runes name themselves, except space, which
// gets the conventional "Space" label; special keys use tcell's key names.
func keyLabel(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "Space"
		}
		return string(ev.Rune())
	}
	if name, ok := tcell.KeyNames[ev.Key()]; ok {
		return name
	}
	return ev.Name()
}
