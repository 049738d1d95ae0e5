package style

import (
	"slices"
	"strings"

	"github.com/roach88/themer/internal/theme"
)

// Collection is a base Style plus sub-styles for specific states.
//
// Lookups are exact: a sub-style stored under Compose(Highlighted, Selected)
// is never returned for Highlighted alone. Normal and NotAState always map to
// the base style and cannot hold a sub-style.
//
// The zero Collection is empty and ready to use.
type Collection struct {
	Style
	states map[theme.StateKey]stateEntry
}

type stateEntry struct {
	state theme.State
	style *Style
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Base returns the collection's base style.
func (c *Collection) Base() *Style {
	return &c.Style
}

// SetOwner attaches o to the base style and every sub-style.
func (c *Collection) SetOwner(o Owner) {
	c.Style.owner = o
	c.Style.role = ChangeBase
	for _, e := range c.states {
		e.style.owner = o
		e.style.role = ChangeStateStyle
	}
}

// StyleFor returns the style stored for state. Normal and NotAState return
// the base style.
func (c *Collection) StyleFor(state theme.State) (*Style, bool) {
	if state.IsPassThrough() {
		return &c.Style, true
	}
	e, ok := c.states[state.Key()]
	if !ok {
		return nil, false
	}
	return e.style, true
}

// SetStyle stores s under state, adopting it into this collection's owner.
// A nil s removes the state. Normal and NotAState are ignored.
func (c *Collection) SetStyle(s *Style, state theme.State) {
	if state.IsPassThrough() {
		return
	}
	if s == nil {
		c.RemoveStyle(state)
		return
	}
	if c.states == nil {
		c.states = make(map[theme.StateKey]stateEntry)
	}
	c.adopt(s)
	c.states[state.Key()] = stateEntry{state: state, style: s}
	c.Style.notify(ChangeStateTable)
}

// StyleOrCreate returns the style for state, creating an empty owned
// sub-style on first access. Normal and NotAState return the base style.
func (c *Collection) StyleOrCreate(state theme.State) *Style {
	if s, ok := c.StyleFor(state); ok {
		return s
	}
	s := NewStyle()
	c.SetStyle(s, state)
	return s
}

// RemoveStyle deletes the sub-style for state and returns it, detached from
// the owner.
func (c *Collection) RemoveStyle(state theme.State) (*Style, bool) {
	if state.IsPassThrough() {
		return nil, false
	}
	e, ok := c.states[state.Key()]
	if !ok {
		return nil, false
	}
	delete(c.states, state.Key())
	e.style.owner = nil
	c.Style.notify(ChangeStateTable)
	return e.style, true
}

// States returns the states that hold a sub-style, sorted by key.
func (c *Collection) States() []theme.State {
	out := make([]theme.State, 0, len(c.states))
	for _, e := range c.states {
		out = append(out, e.state)
	}
	slices.SortFunc(out, func(a, b theme.State) int {
		return strings.Compare(string(a.Key()), string(b.Key()))
	})
	return out
}

// StateCount returns the number of state sub-styles.
func (c *Collection) StateCount() int {
	return len(c.states)
}

// IsEmpty reports whether the collection holds no attributes and no states.
func (c *Collection) IsEmpty() bool {
	return c.Style.Len() == 0 && len(c.states) == 0
}

// Clone deep-copies the collection. The copy has no owner.
func (c *Collection) Clone() *Collection {
	out := &Collection{Style: *c.Style.Clone()}
	if len(c.states) > 0 {
		out.states = make(map[theme.StateKey]stateEntry, len(c.states))
		for k, e := range c.states {
			out.states[k] = stateEntry{state: e.state, style: e.style.Clone()}
		}
	}
	return out
}

func (c *Collection) adopt(s *Style) {
	s.owner = c.Style.owner
	s.role = ChangeStateStyle
}
