package theme

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownState is returned when a state name is not in the state table.
var ErrUnknownState = errors.New("unknown state")

// ControlState is the bit-flag set backing the built-in control states.
type ControlState uint

const (
	ControlNormal      ControlState = 0
	ControlHighlighted ControlState = 1 << 0
	ControlDisabled    ControlState = 1 << 1
	ControlSelected    ControlState = 1 << 2
	ControlFocused     ControlState = 1 << 3
)

// Built-in states.
var (
	Normal      = NewOptionSetState(":normal", ControlNormal)
	Highlighted = NewOptionSetState(":highlighted", ControlHighlighted)
	Disabled    = NewOptionSetState(":disabled", ControlDisabled)
	Selected    = NewOptionSetState(":selected", ControlSelected)
	Focused     = NewOptionSetState(":focused", ControlFocused)
)

// stateTable maps primitive names to registered states.
type stateTable struct {
	mu     sync.RWMutex
	states map[string]State
}

var table = newStateTable(Normal, Highlighted, Disabled, Selected, Focused)

func newStateTable(builtins ...State) *stateTable {
	t := &stateTable{states: make(map[string]State, len(builtins))}
	for _, s := range builtins {
		t.states[s.name] = s
	}
	return t
}

// RegisterState adds a primitive state to the named state table, replacing
// any state registered under the same name.
func RegisterState(s State) error {
	if !s.IsPrimitive() {
		return fmt.Errorf("register %s: only primitive states can be registered", s)
	}
	table.mu.Lock()
	defer table.mu.Unlock()
	table.states[s.name] = s.fresh()
	return nil
}

// LookupState returns the registered primitive state with the given name.
func LookupState(name string) (State, bool) {
	table.mu.RLock()
	defer table.mu.RUnlock()
	s, ok := table.states[name]
	return s, ok
}

// RegisteredStates returns the names in the state table, sorted.
func RegisteredStates() []string {
	table.mu.RLock()
	defer table.mu.RUnlock()
	names := make([]string, 0, len(table.states))
	for name := range table.states {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// lookupOrDefine returns the registered state for name, registering a new
// primitive (raw value = name) when the name is valid but unknown.
func lookupOrDefine(name string) (State, error) {
	if s, ok := LookupState(name); ok {
		return s, nil
	}
	s, err := ParseStateName(name, name)
	if err != nil {
		return State{}, err
	}
	table.mu.Lock()
	defer table.mu.Unlock()
	if existing, ok := table.states[name]; ok {
		return existing, nil
	}
	table.states[name] = s
	return s, nil
}

func lookupStrict(name string) (State, error) {
	if !stateNamePattern.MatchString(name) {
		return State{}, fmt.Errorf("%w: %q", ErrInvalidStateName, name)
	}
	s, ok := LookupState(name)
	if !ok {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return s, nil
}

// ParseState rebuilds a state from its textual form.
//
// The text is a sequence of primitive names and bracketed groups:
//
//	":highlighted"            primitive
//	":highlighted:selected"   Compose(Highlighted, Selected)
//	":disabled[:a:b]"         Compose(Disabled, Compose(a, b))
//	"[:highlighted]"          Compose(Highlighted)
//	"[:highlighted_]"         Compose(Highlighted, NotAState)
//
// A single top-level item is returned as is; several are composed. Since a
// state's Key uses this syntax, ParseState(s.Key()) reproduces s.
// Every primitive name must already be registered.
func ParseState(text string) (State, error) {
	return parseState(text, lookupStrict)
}

// ParseStateDefining is ParseState, except that valid but unknown primitive
// names are registered on the fly. Stylesheet decoding uses it so sheets can
// introduce application-specific states.
func ParseStateDefining(text string) (State, error) {
	return parseState(text, lookupOrDefine)
}

func parseState(text string, lookup func(string) (State, error)) (State, error) {
	if text == "" {
		return State{}, fmt.Errorf("%w: empty state", ErrInvalidStateName)
	}
	p := &stateParser{text: text, lookup: lookup}
	items, err := p.sequence()
	if err != nil {
		return State{}, err
	}
	if p.pos != len(p.text) {
		return State{}, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrInvalidStateName, p.text[p.pos], p.pos, text)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return Compose(items...), nil
}

type stateParser struct {
	text   string
	pos    int
	lookup func(string) (State, error)
}

// sequence parses items until ']' or end of input.
func (p *stateParser) sequence() ([]State, error) {
	var items []State
	for p.pos < len(p.text) {
		switch p.text[p.pos] {
		case ']':
			return items, nil
		case '[':
			p.pos++
			children, err := p.sequence()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.text) || p.text[p.pos] != ']' {
				return nil, fmt.Errorf("%w: unclosed '[' in %q", ErrInvalidStateName, p.text)
			}
			p.pos++
			items = append(items, Compose(children...))
		case '_':
			p.pos++
			items = append(items, NotAState)
		case ':':
			start := p.pos
			p.pos++
			for p.pos < len(p.text) && isStateLetter(p.text[p.pos]) {
				p.pos++
			}
			s, err := p.lookup(p.text[start:p.pos])
			if err != nil {
				return nil, err
			}
			items = append(items, s)
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrInvalidStateName, p.text[p.pos], p.pos, p.text)
		}
	}
	return items, nil
}

func isStateLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
