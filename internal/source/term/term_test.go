package term

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyflux/internal/event"
)

const eventTimeout = 5 * time.Second

// recorder collects published events in order.
type recorder struct {
	events chan any
}

func newRecorder(t *testing.T, bus *event.Bus) *recorder {
	t.Helper()
	r := &recorder{events: make(chan any, 64)}
	for _, topic := range []event.Topic{
		event.TopicKeyDown, event.TopicKeyUp,
		event.TopicMouseDown, event.TopicMouseUp,
	} {
		_, err := bus.SubscribeFunc(topic, func(_ context.Context, ev any) error {
			r.events <- ev
			return nil
		})
		if err != nil {
			t.Fatalf("SubscribeFunc(%s) error = %v", topic, err)
		}
	}
	return r
}

func (r *recorder) next(t *testing.T) any {
	t.Helper()
	select {
	case ev := <-r.events:
		return ev
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for a published event")
		return nil
	}
}

func newSimSource(t *testing.T) (tcell.SimulationScreen, *recorder, *Source) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	bus := event.NewBus()
	rec := newRecorder(t, bus)

	src := NewWithScreen(screen, bus)
	if err := src.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(src.Stop)
	return screen, rec, src
}

func TestKeyEventBecomesTap(t *testing.T) {
	screen, rec, _ := newSimSource(t)

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)

	down := rec.next(t)
	if ke, ok := down.(event.KeyEvent); !ok || ke.Topic != event.TopicKeyDown || ke.Label != "Space" {
		t.Fatalf("first event = %v, want key down Space", down)
	}
	up := rec.next(t)
	if ke, ok := up.(event.KeyEvent); !ok || ke.Topic != event.TopicKeyUp || ke.Label != "Space" {
		t.Fatalf("second event = %v, want key up Space", up)
	}
}

func TestMouseMaskDiffing(t *testing.T) {
	screen, rec, _ := newSimSource(t)

	// Press primary, then press secondary while primary held, then
	// release both.
	screen.InjectMouse(1, 1, tcell.Button1, tcell.ModNone)
	screen.InjectMouse(1, 1, tcell.Button1|tcell.Button2, tcell.ModNone)
	screen.InjectMouse(1, 1, tcell.ButtonNone, tcell.ModNone)

	want := []event.MouseEvent{
		event.MouseDown(0),
		event.MouseDown(1),
		event.MouseUp(0),
		event.MouseUp(1),
	}
	for i, w := range want {
		got := rec.next(t)
		me, ok := got.(event.MouseEvent)
		if !ok || me != w {
			t.Fatalf("event %d = %v, want %v", i, got, w)
		}
	}
}

func TestMouseMoveWithoutButtonChangePublishesNothing(t *testing.T) {
	screen, rec, _ := newSimSource(t)

	screen.InjectMouse(1, 1, tcell.ButtonNone, tcell.ModNone)
	screen.InjectMouse(2, 2, tcell.ButtonNone, tcell.ModNone)
	// A key tap afterwards proves the loop processed the moves.
	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)

	first := rec.next(t)
	if ke, ok := first.(event.KeyEvent); !ok || ke.Label != "a" {
		t.Fatalf("first published event = %v, want the key tap", first)
	}
}

func TestStartIsGuarded(t *testing.T) {
	_, _, src := newSimSource(t)
	if err := src.Start(); err != ErrAlreadyStarted {
		t.Fatalf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	src := NewWithScreen(tcell.NewSimulationScreen("UTF-8"), event.NewBus())
	src.Stop() // must not panic or hang
}

func TestKeyLabel(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"space_rune", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "Space"},
		{"letter_rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{"digit_rune", tcell.NewEventKey(tcell.KeyRune, '0', tcell.ModNone), "0"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "Esc"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter"},
		{"arrow_up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "Up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyLabel(tt.ev); got != tt.want {
				t.Errorf("keyLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
