package input

import "fmt"

// Kind discriminates the two identifier domains.
type Kind uint8

const (
	// KindNone is the zero identifier's kind.
	KindNone Kind = iota

	// KindKey identifies a keyboard key by label.
	KindKey

	// KindMouse identifies a mouse button by ordinal.
	KindMouse
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindMouse:
		return "mouse"
	default:
		return "none"
	}
}

// ID identifies a single physical input: a keyboard key or a mouse button.
// It is comparable and usable as a map key. The zero ID identifies nothing;
// check IsZero before treating one as a real input.
type ID struct {
	kind   Kind
	label  string
	button int
}

// Key builds the identifier for a keyboard key label, e.g. "Space" or "a".
func Key(label string) ID {
	return ID{kind: KindKey, label: label}
}

// MouseButton builds the identifier for a mouse button ordinal.
// Button 0 is the primary button and is a legitimate identifier; callers
// must distinguish it from the zero ID by kind, never by value.
func MouseButton(button int) ID {
	return ID{kind: KindMouse, button: button}
}

// Kind returns the identifier's domain.
func (id ID) Kind() Kind { return id.kind }

// Label returns the key label. Empty for non-key identifiers.
func (id ID) Label() string { return id.label }

// Button returns the mouse button ordinal. Zero for non-mouse identifiers.
func (id ID) Button() int { return id.button }

// IsZero reports whether the identifier names no input.
func (id ID) IsZero() bool { return id.kind == KindNone }

// String returns a tagged, unambiguous form: key:Space, mouse:0.
func (id ID) String() string {
	switch id.kind {
	case KindKey:
		return "key:" + id.label
	case KindMouse:
		return fmt.Sprintf("mouse:%d", id.button)
	default:
		return "none"
	}
}
