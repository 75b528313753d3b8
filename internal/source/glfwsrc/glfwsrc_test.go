package glfwsrc

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Callback installation needs a live window and the main thread, so tests
// cover the pure label mapping only.
func TestSpecialKeyName(t *testing.T) {
	tests := []struct {
		name string
		key  glfw.Key
		want string
		ok   bool
	}{
		{"space", glfw.KeySpace, "Space", true},
		{"escape", glfw.KeyEscape, "Esc", true},
		{"arrow_up", glfw.KeyUp, "Up", true},
		{"f5", glfw.KeyF5, "F5", true},
		{"printable_a", glfw.KeyA, "", false},
		{"printable_digit", glfw.Key0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := specialKeyName(tt.key)
			if ok != tt.ok || got != tt.want {
				t.Errorf("specialKeyName(%v) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}
