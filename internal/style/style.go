package style

import (
	"iter"
	"maps"
	"slices"

	"github.com/roach88/themer/internal/theme"
)

// ChangeKind says which part of a collection a mutation touched.
type ChangeKind uint8

const (
	// ChangeBase is a write to a collection's base attributes.
	ChangeBase ChangeKind = iota

	// ChangeStateStyle is a write to a state sub-style's attributes.
	ChangeStateStyle

	// ChangeStateTable is a structural change to the state map
	// (a sub-style added, replaced or removed).
	ChangeStateTable
)

// String implements fmt.Stringer.
func (k ChangeKind) String() string {
	switch k {
	case ChangeBase:
		return "base"
	case ChangeStateStyle:
		return "state_style"
	case ChangeStateTable:
		return "state_table"
	default:
		return "unknown"
	}
}

// Owner is notified after every mutation of a style it owns.
type Owner interface {
	StyleChanged(kind ChangeKind)
}

// Style is a map from attribute to value.
//
// The zero Style is empty and ready to use. Style is not safe for concurrent
// use; all writes happen on the engine's loop.
type Style struct {
	values map[theme.Attribute]any
	owner  Owner
	role   ChangeKind
}

// NewStyle creates an empty style.
func NewStyle() *Style {
	return &Style{}
}

// NewStyleFrom creates a style holding a copy of values.
func NewStyleFrom(values map[theme.Attribute]any) *Style {
	return &Style{values: maps.Clone(values)}
}

// Owner returns the style's owner, or nil.
func (s *Style) Owner() Owner {
	return s.owner
}

func (s *Style) changed() {
	s.notify(s.role)
}

func (s *Style) notify(kind ChangeKind) {
	if s.owner != nil {
		s.owner.StyleChanged(kind)
	}
}

// Value returns the value stored for attr. A stored nil returns (nil, true).
func (s *Style) Value(attr theme.Attribute) (any, bool) {
	v, ok := s.values[attr]
	return v, ok
}

// Contains reports whether attr is present, including with a nil value.
func (s *Style) Contains(attr theme.Attribute) bool {
	_, ok := s.values[attr]
	return ok
}

// SetValue stores v for attr. Setting nil removes the attribute.
func (s *Style) SetValue(v any, attr theme.Attribute) {
	if v == nil {
		s.RemoveValue(attr)
		return
	}
	if s.values == nil {
		s.values = make(map[theme.Attribute]any)
	}
	s.values[attr] = v
	s.changed()
}

// UpdateValue stores v for attr, keeping a nil v as an explicit value, and
// returns the previous value.
func (s *Style) UpdateValue(v any, attr theme.Attribute) (old any, existed bool) {
	if s.values == nil {
		s.values = make(map[theme.Attribute]any)
	}
	old, existed = s.values[attr]
	s.values[attr] = v
	s.changed()
	return old, existed
}

// RemoveValue deletes attr and returns the removed value.
func (s *Style) RemoveValue(attr theme.Attribute) (any, bool) {
	old, ok := s.values[attr]
	if !ok {
		return nil, false
	}
	delete(s.values, attr)
	s.changed()
	return old, true
}

// Setting is SetValue returning s for chaining.
func (s *Style) Setting(v any, attr theme.Attribute) *Style {
	s.SetValue(v, attr)
	return s
}

// Updating is UpdateValue returning s for chaining.
func (s *Style) Updating(v any, attr theme.Attribute) *Style {
	s.UpdateValue(v, attr)
	return s
}

// Len returns the number of stored attributes.
func (s *Style) Len() int {
	return len(s.values)
}

// Attributes returns the stored attributes, sorted.
func (s *Style) Attributes() []theme.Attribute {
	return slices.Sorted(maps.Keys(s.values))
}

// All iterates attributes and values in attribute order.
func (s *Style) All() iter.Seq2[theme.Attribute, any] {
	return func(yield func(theme.Attribute, any) bool) {
		for _, attr := range s.Attributes() {
			if !yield(attr, s.values[attr]) {
				return
			}
		}
	}
}

// Values returns a copy of the attribute map.
func (s *Style) Values() map[theme.Attribute]any {
	out := make(map[theme.Attribute]any, len(s.values))
	maps.Copy(out, s.values)
	return out
}

// Clone copies the values. The copy has no owner.
func (s *Style) Clone() *Style {
	return &Style{values: maps.Clone(s.values)}
}

// fill copies every attribute of src that s does not contain yet, keeping
// explicit nils. It bypasses owner notification; only Merge uses it, on
// unowned results.
func (s *Style) fill(src *Style) {
	for attr, v := range src.values {
		if _, ok := s.values[attr]; ok {
			continue
		}
		if s.values == nil {
			s.values = make(map[theme.Attribute]any, len(src.values))
		}
		s.values[attr] = v
	}
}
