// Package glfwsrc bridges a GLFW window into the input event bus.
//
// GLFW delivers real press and release callbacks for both keyboards and
// mouse buttons, so this is the adapter of choice for held-key gameplay.
// Callbacks fire on the main thread inside glfw.PollEvents; the bus handles
// cross-goroutine delivery to the tracker.
package glfwsrc

import (
	"context"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/dshills/keyflux/internal/event"
)

// Publisher is the slice of the event bus the source needs.
// *event.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// Source installs key and mouse-button callbacks on a window and publishes
// the transitions. The previously installed callbacks are retained so
// Uninstall restores the window exactly as it found it.
type Source struct {
	window *glfw.Window
	bus    Publisher

	prevKey   glfw.KeyCallback
	prevMouse glfw.MouseButtonCallback
	installed bool
}

// Install sets the window's key and mouse-button callbacks. The returned
// Source must be kept to Uninstall the same callbacks later.
// Must be called on the main thread, like all GLFW window operations.
func Install(window *glfw.Window, bus Publisher) *Source {
	s := &Source{window: window, bus: bus}
	s.prevKey = window.SetKeyCallback(s.keyCallback)
	s.prevMouse = window.SetMouseButtonCallback(s.mouseButtonCallback)
	s.installed = true
	return s
}

// Uninstall restores the callbacks that were installed before Install.
// Safe to call twice. Must be called on the main thread.
func (s *Source) Uninstall() {
	if !s.installed {
		return
	}
	s.installed = false
	s.window.SetKeyCallback(s.prevKey)
	s.window.SetMouseButtonCallback(s.prevMouse)
}

func (s *Source) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	ctx := context.Background()
	label := keyLabel(key, scancode)

	switch action {
	case glfw.Press:
		_ = s.bus.Publish(ctx, event.KeyDown(label))
	case glfw.Release:
		_ = s.bus.Publish(ctx, event.KeyUp(label))
	}
	// glfw.Repeat carries no state transition and is ignored.

	if s.prevKey != nil {
		s.prevKey(w, key, scancode, action, mods)
	}
}

func (s *Source) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	ctx := context.Background()

	switch action {
	case glfw.Press:
		_ = s.bus.Publish(ctx, event.MouseDown(int(button)))
	case glfw.Release:
		_ = s.bus.Publish(ctx, event.MouseUp(int(button)))
	}

	if s.prevMouse != nil {
		s.prevMouse(w, button, action, mods)
	}
}

// keyLabel names a GLFW key. Named non-printable keys come from the
// special table; printable keys ask GLFW for the layout-specific name;
// anything else falls back to the numeric code.
func keyLabel(key glfw.Key, scancode int) string {
	if name, ok := specialKeyName(key); ok {
		return name
	}
	if name := glfw.GetKeyName(key, scancode); name != "" {
		return name
	}
	return fmt.Sprintf("Key%d", int(key))
}

// specialKeyName maps the non-printable GLFW keys to stable labels.
func specialKeyName(key glfw.Key) (string, bool) {
	name, ok := specialKeys[key]
	return name, ok
}

var specialKeys = map[glfw.Key]string{
	glfw.KeySpace:        "Space",
	glfw.KeyEscape:       "Esc",
	glfw.KeyEnter:        "Enter",
	glfw.KeyTab:          "Tab",
	glfw.KeyBackspace:    "Backspace",
	glfw.KeyInsert:       "Insert",
	glfw.KeyDelete:       "Delete",
	glfw.KeyRight:        "Right",
	glfw.KeyLeft:         "Left",
	glfw.KeyDown:         "Down",
	glfw.KeyUp:           "Up",
	glfw.KeyPageUp:       "PgUp",
	glfw.KeyPageDown:     "PgDn",
	glfw.KeyHome:         "Home",
	glfw.KeyEnd:          "End",
	glfw.KeyCapsLock:     "CapsLock",
	glfw.KeyScrollLock:   "ScrollLock",
	glfw.KeyNumLock:      "NumLock",
	glfw.KeyPrintScreen:  "PrintScreen",
	glfw.KeyPause:        "Pause",
	glfw.KeyF1:           "F1",
	glfw.KeyF2:           "F2",
	glfw.KeyF3:           "F3",
	glfw.KeyF4:           "F4",
	glfw.KeyF5:           "F5",
	glfw.KeyF6:           "F6",
	glfw.KeyF7:           "F7",
	glfw.KeyF8:           "F8",
	glfw.KeyF9:           "F9",
	glfw.KeyF10:          "F10",
	glfw.KeyF11:          "F11",
	glfw.KeyF12:          "F12",
	glfw.KeyLeftShift:    "LShift",
	glfw.KeyLeftControl:  "LCtrl",
	glfw.KeyLeftAlt:      "LAlt",
	glfw.KeyLeftSuper:    "LSuper",
	glfw.KeyRightShift:   "RShift",
	glfw.KeyRightControl: "RCtrl",
	glfw.KeyRightAlt:     "RAlt",
	glfw.KeyRightSuper:   "RSuper",
}
