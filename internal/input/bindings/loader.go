package bindings

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/dshills/keyflux/internal/input"
)

// Sentinel errors for bindings documents.
var (
	// ErrInvalidJSON is returned when the document is not valid JSON.
	ErrInvalidJSON = errors.New("bindings: invalid JSON document")

	// ErrNoBindings is returned when the document has no bindings array.
	ErrNoBindings = errors.New("bindings: missing bindings array")
)

// Binder is the slice of the tracker the bindings layer needs.
// *state.State satisfies it.
type Binder interface {
	AddAction(name string, id input.ID)
}

// Binding pairs an action name with the input identifier it aliases.
type Binding struct {
	Action string
	ID     input.ID
}

// Set is an ordered collection of bindings parsed from one document.
type Set struct {
	// Name is the document's optional identifier.
	Name string

	// Bindings preserve document order; later entries for the same
	// action win when applied.
	Bindings []Binding
}

// Apply installs every binding on the binder in document order.
func (s *Set) Apply(b Binder) {
	for _, binding := range s.Bindings {
		b.AddAction(binding.Action, binding.ID)
	}
}

// Load parses a bindings document.
func Load(data []byte) (*Set, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	doc := gjson.ParseBytes(data)
	raw := doc.Get("bindings")
	if !raw.Exists() || !raw.IsArray() {
		return nil, ErrNoBindings
	}

	set := &Set{Name: doc.Get("name").String()}

	var parseErr error
	i := -1
	raw.ForEach(func(_, entry gjson.Result) bool {
		i++
		binding, err := parseBinding(entry)
		if err != nil {
			parseErr = fmt.Errorf("bindings: entry %d: %w", i, err)
			return false
		}
		set.Bindings = append(set.Bindings, binding)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return set, nil
}

// LoadFile parses a bindings document from a file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bindings: reading %s: %w", path, err)
	}
	return Load(data)
}

// parseBinding validates one entry. Exactly one of "key" and "mouseButton"
// must be present; "mouseButton": 0 is a legitimate binding.
func parseBinding(entry gjson.Result) (Binding, error) {
	action := entry.Get("action")
	if !action.Exists() || action.String() == "" {
		return Binding{}, errors.New("empty action")
	}

	key := entry.Get("key")
	button := entry.Get("mouseButton")

	switch {
	case key.Exists() && button.Exists():
		return Binding{}, fmt.Errorf("action %q binds both a key and a mouse button", action.String())
	case key.Exists():
		if key.String() == "" {
			return Binding{}, fmt.Errorf("action %q: empty key label", action.String())
		}
		return Binding{Action: action.String(), ID: input.Key(key.String())}, nil
	case button.Exists():
		n := button.Int()
		if float64(n) != button.Float() || n < 0 {
			return Binding{}, fmt.Errorf("action %q: mouse button must be a non-negative integer", action.String())
		}
		return Binding{Action: action.String(), ID: input.MouseButton(int(n))}, nil
	default:
		return Binding{}, fmt.Errorf("action %q binds neither a key nor a mouse button", action.String())
	}
}
