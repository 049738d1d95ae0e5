package theme

import (
	"errors"
	"fmt"
	"strings"
)

// Theme is a named appearance context.
//
// Theme is a comparable value type: two themes are equal iff their names are
// equal, so Theme can be used directly as a map key.
type Theme struct {
	name string
}

// Default is the theme every process starts with when no preference is stored.
var Default = New("default")

// ErrEmptyTheme is returned by ParseTheme for blank input.
var ErrEmptyTheme = errors.New("theme name must not be empty")

// New creates a theme with the given name.
func New(name string) Theme {
	return Theme{name: name}
}

// ParseTheme creates a theme from untrusted input (flags, config, storage).
// Surrounding whitespace is trimmed; a blank name is rejected.
func ParseTheme(name string) (Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Theme{}, ErrEmptyTheme
	}
	return New(name), nil
}

// Name returns the theme name.
func (t Theme) Name() string {
	return t.name
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	return t.name
}

// IsZero reports whether t is the zero Theme (no name).
func (t Theme) IsZero() bool {
	return t.name == ""
}

// Attribute names one styleable property ("color", "font", ...).
// Equality is raw string equality.
type Attribute string

// String implements fmt.Stringer.
func (a Attribute) String() string {
	return string(a)
}

// ErrEmptyIdentifier is returned by NewIdentifier for an empty name.
var ErrEmptyIdentifier = errors.New("identifier must not be empty")

// Identifier names a bucket of styles inside a stylesheet or a class registry.
//
// The zero Identifier is not a valid identifier; use NewIdentifier or
// MustIdentifier to construct one.
type Identifier struct {
	name string
}

// NewIdentifier creates an identifier from untrusted input.
func NewIdentifier(name string) (Identifier, error) {
	if name == "" {
		return Identifier{}, ErrEmptyIdentifier
	}
	return Identifier{name: name}, nil
}

// MustIdentifier creates an identifier from a static name.
//
// An empty name is a configuration error and panics.
func MustIdentifier(name string) Identifier {
	id, err := NewIdentifier(name)
	if err != nil {
		panic(fmt.Sprintf("theme.MustIdentifier: %v", err))
	}
	return id
}

// String implements fmt.Stringer.
func (i Identifier) String() string {
	return i.name
}

// IsZero reports whether i is the zero Identifier.
func (i Identifier) IsZero() bool {
	return i.name == ""
}
