package theme

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

// ErrInvalidStateName is returned when a primitive state name does not match
// the ^:[A-Za-z]+$ grammar.
var ErrInvalidStateName = errors.New("invalid state name")

// stateNamePattern is the fixed grammar for primitive state names.
var stateNamePattern = regexp.MustCompile(`^:[A-Za-z]+$`)

type stateKind uint8

const (
	kindNone stateKind = iota
	kindPrimitive
	kindComposite
)

// StateKey is the comparable identity of a State.
//
// A primitive's key is its name. A composite's key is its children's keys
// wrapped in brackets, so Compose(s) and s never share a key while two
// composites built from equal ordered children always do.
// The zero StateKey identifies NotAState.
type StateKey string

// State is an interaction-state descriptor: a primitive named state, a
// composite of ordered child states, or the NotAState sentinel.
//
// States are values. Use Key or Equal to compare them; State itself holds
// slices and is not comparable with ==.
//
// Next consumes the state: after the leaves have been drained the state yields
// nothing further. Copies taken before the first Next call are independent.
type State struct {
	kind      stateKind
	name      string
	raw       any
	rawType   reflect.Type
	optionSet bool
	children  []State
	key       StateKey

	// decomposition cursor
	started   bool
	exhausted bool
	pending   []State
}

// NotAState is the canonical empty state. Compose with no arguments returns it.
var NotAState = State{}

// ParseStateName validates name and creates a primitive state carrying raw.
func ParseStateName(name string, raw any) (State, error) {
	if !stateNamePattern.MatchString(name) {
		return State{}, fmt.Errorf("%w: %q must match %s", ErrInvalidStateName, name, stateNamePattern)
	}
	return State{
		kind:    kindPrimitive,
		name:    name,
		raw:     raw,
		rawType: reflect.TypeOf(raw),
		key:     StateKey(name),
	}, nil
}

// NewState creates a primitive state.
//
// A name violating the state grammar is a configuration error and panics.
// Use ParseStateName for names that come from data.
func NewState(name string, raw any) State {
	s, err := ParseStateName(name, raw)
	if err != nil {
		panic(fmt.Sprintf("theme.NewState: %v", err))
	}
	return s
}

// NewOptionSetState creates a primitive state whose raw value is one member
// of a bit-flag set (like ControlState). Composites whose children are all
// option-set states of the same raw type report IsOptionSet.
func NewOptionSetState(name string, raw any) State {
	s := NewState(name, raw)
	s.optionSet = true
	return s
}

// Compose builds a composite state from ordered children.
//
// Compose() returns NotAState. Compose(s) returns a new composite that is not
// equal to s even though it decomposes to the same leaves.
func Compose(states ...State) State {
	if len(states) == 0 {
		return NotAState
	}

	children := make([]State, len(states))
	for i, s := range states {
		children[i] = s.fresh()
	}

	var name, key strings.Builder
	key.WriteByte('[')
	for _, c := range children {
		switch c.kind {
		case kindComposite:
			name.WriteByte('[')
			name.WriteString(c.name)
			name.WriteByte(']')
		case kindPrimitive:
			name.WriteString(c.name)
		}
		key.WriteString(string(c.childKey()))
	}
	key.WriteByte(']')

	return State{
		kind:      kindComposite,
		name:      name.String(),
		optionSet: composedOptionSet(children),
		children:  children,
		key:       StateKey(key.String()),
	}
}

// composedOptionSet is true only when every child is an option-set state of
// one raw type.
func composedOptionSet(children []State) bool {
	var t reflect.Type
	for i, c := range children {
		if !c.IsOptionSet() {
			return false
		}
		ct := c.RawType()
		if i == 0 {
			t = ct
			continue
		}
		if ct != t {
			return false
		}
	}
	return true
}

// childKey is the key a state contributes inside a composite key.
// NotAState contributes a placeholder so (a, NotAState) differs from (a).
func (s State) childKey() StateKey {
	if s.kind == kindNone {
		return "_"
	}
	return s.key
}

// fresh returns a copy of s with its decomposition cursor reset.
func (s State) fresh() State {
	s.started = false
	s.exhausted = false
	s.pending = nil
	return s
}

// Key returns the comparable identity of s.
func (s State) Key() StateKey {
	return s.key
}

// Equal reports whether s and o have the same identity.
func (s State) Equal(o State) bool {
	return s.key == o.key
}

// Name returns the state name. A composite's name concatenates its children's
// names, bracketing nested composites. NotAState has an empty name.
func (s State) Name() string {
	return s.name
}

// Raw returns the opaque raw value. For a composite it is the slice of the
// children's raw values.
func (s State) Raw() any {
	if s.kind != kindComposite {
		return s.raw
	}
	raws := make([]any, len(s.children))
	for i, c := range s.children {
		raws[i] = c.Raw()
	}
	return raws
}

// RawType returns the dynamic type of the raw value.
func (s State) RawType() reflect.Type {
	if s.kind == kindComposite {
		return reflect.TypeFor[[]any]()
	}
	return s.rawType
}

// IsOptionSet reports whether s is (or is composed only of) bit-flag states
// of a single raw type.
func (s State) IsOptionSet() bool {
	return s.optionSet
}

// IsPrimitive reports whether s is a primitive named state.
func (s State) IsPrimitive() bool { return s.kind == kindPrimitive }

// IsComposite reports whether s was built by Compose.
func (s State) IsComposite() bool { return s.kind == kindComposite }

// IsNotAState reports whether s is the NotAState sentinel.
func (s State) IsNotAState() bool { return s.kind == kindNone }

// IsNormal reports whether s is the built-in Normal state.
func (s State) IsNormal() bool { return s.key == Normal.key }

// IsPassThrough reports whether lookups for s fall through to the base style.
func (s State) IsPassThrough() bool {
	return s.IsNotAState() || s.IsNormal()
}

// Children returns a copy of the composite's direct children.
func (s State) Children() []State {
	return slices.Clone(s.children)
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s.kind == kindNone {
		return "<not-a-state>"
	}
	if s.kind == kindComposite {
		return string(s.key)
	}
	return s.name
}

// Next returns the next primitive leaf, left to right.
//
// Next consumes the receiver: nested composites are decomposed in place,
// NotAState children are skipped, and once every leaf has been returned the
// state stays exhausted. A primitive yields itself once.
func (s *State) Next() (State, bool) {
	if s.exhausted {
		return NotAState, false
	}
	if !s.started {
		s.started = true
		switch s.kind {
		case kindPrimitive:
			s.pending = []State{s.fresh()}
		case kindComposite:
			s.pending = slices.Clone(s.children)
		}
	}

	for len(s.pending) > 0 {
		head := s.pending[0]
		s.pending = s.pending[1:]
		switch head.kind {
		case kindPrimitive:
			return head.fresh(), true
		case kindComposite:
			s.pending = append(slices.Clone(head.children), s.pending...)
		}
	}

	s.exhausted = true
	s.pending = nil
	return NotAState, false
}

// All returns an iterator over the primitive leaves of s.
//
// All iterates a fresh copy, so it neither consumes nor depends on the
// receiver's cursor.
func (s State) All() iter.Seq[State] {
	return func(yield func(State) bool) {
		c := s.fresh()
		for {
			leaf, ok := c.Next()
			if !ok || !yield(leaf) {
				return
			}
		}
	}
}

// Leaves collects the primitive leaves of s.
func (s State) Leaves() []State {
	return slices.Collect(s.All())
}
