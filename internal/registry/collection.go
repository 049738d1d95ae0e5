package registry

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

// Collection maps identifiers to style collections for a single theme.
type Collection struct {
	theme  theme.Theme
	owner  style.Owner
	styles map[theme.Identifier]*style.Collection
}

// NewCollection creates an empty collection for t.
func NewCollection(t theme.Theme) *Collection {
	return &Collection{
		theme:  t,
		styles: make(map[theme.Identifier]*style.Collection),
	}
}

// Theme returns the theme the collection belongs to.
func (c *Collection) Theme() theme.Theme {
	return c.theme
}

// SetOwner attaches o to the collection and every style it holds.
func (c *Collection) SetOwner(o style.Owner) {
	c.owner = o
	for _, s := range c.styles {
		s.SetOwner(o)
	}
}

func (c *Collection) changed() {
	if c.owner != nil {
		c.owner.StyleChanged(style.ChangeStateTable)
	}
}

// StylesFor returns the styles for id, creating an empty entry on first use.
func (c *Collection) StylesFor(id theme.Identifier) *style.Collection {
	if s, ok := c.styles[id]; ok {
		return s
	}
	s := style.NewCollection()
	c.Set(id, s)
	return s
}

// StylesIfPresent returns the styles for id without creating them.
func (c *Collection) StylesIfPresent(id theme.Identifier) (*style.Collection, bool) {
	s, ok := c.styles[id]
	return s, ok
}

// Set stores s under id, adopting it into the collection's owner.
// A nil s removes the entry.
func (c *Collection) Set(id theme.Identifier, s *style.Collection) {
	if s == nil {
		c.Remove(id)
		return
	}
	if c.styles == nil {
		c.styles = make(map[theme.Identifier]*style.Collection)
	}
	s.SetOwner(c.owner)
	c.styles[id] = s
	c.changed()
}

// Remove deletes the entry for id.
func (c *Collection) Remove(id theme.Identifier) bool {
	s, ok := c.styles[id]
	if !ok {
		return false
	}
	s.SetOwner(nil)
	delete(c.styles, id)
	c.changed()
	return true
}

// Identifiers returns the identifiers with an entry, sorted.
func (c *Collection) Identifiers() []theme.Identifier {
	ids := make([]theme.Identifier, 0, len(c.styles))
	for id := range c.styles {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b theme.Identifier) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.styles)
}

// Clone returns a deep copy without an owner.
func (c *Collection) Clone() *Collection {
	out := NewCollection(c.theme)
	for id, s := range c.styles {
		out.styles[id] = s.Clone()
	}
	return out
}

// DidReceiveMemoryWarning is the memory-pressure hook. Entries live until
// process exit, so it only records the event.
func (c *Collection) DidReceiveMemoryWarning(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("memory warning ignored",
		"theme", c.theme.Name(),
		"entries", len(c.styles))
}
