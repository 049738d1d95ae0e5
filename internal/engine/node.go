package engine

import (
	"context"

	"github.com/roach88/themer/internal/registry"
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

// Node is a styleable object in the UI graph.
//
// The engine keys its side table by Node, so implementations must be
// comparable and should be pointer types: two distinct nodes must never
// compare equal.
type Node interface {
	// Class names the node's type. It selects the class-level styles and is
	// the default stylesheet identifier.
	Class() string

	// StyleSheetName names the stylesheet the node reads, or "" for none.
	StyleSheetName() string

	// Dependents returns the nodes that follow this node's updates, in order.
	Dependents() []Node

	// ForwardsUpdates reports whether update requests propagate to Dependents.
	ForwardsUpdates() bool

	// ApplyAppearance delivers the effective styles for t. The collection is
	// shared with the engine cache and must be treated as read-only.
	ApplyAppearance(t theme.Theme, styles *style.Collection)
}

// NodeID is the engine-assigned identity of an attached node.
type NodeID int64

// RootProvider returns the roots of the node graph. ApplyTheme requests an
// update on each of them.
type RootProvider func() []Node

// SheetProvider loads a stylesheet for a theme. A nil collection with a nil
// error means the sheet does not exist.
type SheetProvider interface {
	Load(t theme.Theme, key registry.SheetKey) (*registry.Collection, error)
}

// Persister stores the name of the last applied theme.
type Persister interface {
	LoadTheme(ctx context.Context) (name string, found bool, err error)
	SaveTheme(ctx context.Context, name string) error
}

// ThemeChange describes one successful ApplyTheme call.
type ThemeChange struct {
	Token    string
	Previous theme.Theme
	Current  theme.Theme
}

// Listener is called after the current theme changed and before the roots
// are asked to update.
type Listener func(ctx context.Context, change ThemeChange)
