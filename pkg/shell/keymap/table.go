package keymap

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Binding pairs a chord with the action it triggers.
type Binding[A any] struct {
	Chord  Chord
	Action A
}

// Table maps chords to actions. Rebinding a chord replaces its action but
// keeps the chord's original position in Bindings.
type Table[A comparable] struct {
	mu      sync.RWMutex
	order   []Chord
	actions map[Chord]A
}

// NewTable creates an empty table.
func NewTable[A comparable]() *Table[A] {
	return &Table[A]{actions: make(map[Chord]A)}
}

// Bind parses spec and binds it to action.
func (t *Table[A]) Bind(spec string, action A) error {
	c, err := ParseChord(spec)
	if err != nil {
		return err
	}
	t.Set(c, action)
	return nil
}

// Set binds an already parsed chord.
func (t *Table[A]) Set(c Chord, action A) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.actions[c]; !exists {
		t.order = append(t.order, c)
	}
	t.actions[c] = action
}

// Lookup resolves a key event to its bound action.
func (t *Table[A]) Lookup(msg tea.KeyMsg) (A, bool) {
	return t.lookup(FromKeyMsg(msg))
}

// LookupChord resolves a chord spec to its bound action.
func (t *Table[A]) LookupChord(spec string) (A, bool) {
	c, err := ParseChord(spec)
	if err != nil {
		var zero A
		return zero, false
	}
	return t.lookup(c)
}

func (t *Table[A]) lookup(c Chord) (A, bool) {
	if c.IsZero() {
		var zero A
		return zero, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.actions[c]
	return a, ok
}

// Bindings returns all bindings in first-bound order.
func (t *Table[A]) Bindings() []Binding[A] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Binding[A], 0, len(t.order))
	for _, c := range t.order {
		out = append(out, Binding[A]{Chord: c, Action: t.actions[c]})
	}
	return out
}

// ChordsFor returns every chord bound to action, in first-bound order.
func (t *Table[A]) ChordsFor(action A) []Chord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Chord
	for _, c := range t.order {
		if t.actions[c] == action {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of bound chords.
func (t *Table[A]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.actions)
}

// Equal reports whether both tables hold the same chord to action mapping.
// Binding order is not compared.
func (t *Table[A]) Equal(other *Table[A]) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	if len(t.actions) != len(other.actions) {
		return false
	}
	for c, a := range t.actions {
		if b, ok := other.actions[c]; !ok || a != b {
			return false
		}
	}
	return true
}
