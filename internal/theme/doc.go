// Package theme provides the identity types of the appearance engine.
//
// This package contains value types only. Every other internal package
// imports theme; theme imports nothing internal. This keeps identity as the
// foundational layer with no circular dependencies.
//
// Types:
//   - Theme: a named, switchable appearance context (equality by name)
//   - Identifier: a non-empty name selecting a stylesheet bucket
//   - Attribute: an opaque key naming one styleable property
//   - State: a primitive or composite interaction-state descriptor
//
// Key constraints:
//   - Primitive state names match ^:[A-Za-z]+$
//   - Composite states compare by construction, so Compose(s) never equals s
//   - Normal and NotAState are pass-through states in style lookups
package theme
