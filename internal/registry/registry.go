package registry

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

// SheetKey identifies a stylesheet: the bundle that defines it plus the
// sheet name.
type SheetKey struct {
	Bundle string
	Name   string
}

// String renders the key as "bundle#name".
func (k SheetKey) String() string {
	return k.Bundle + "#" + k.Name
}

// Registry owns the class-level styles and the decoded stylesheet memo for
// every theme.
//
// Registry is not safe for concurrent use; like the engine it is confined to
// the loop goroutine.
type Registry struct {
	themes     map[theme.Theme]*buckets
	generation uint64
	logger     *slog.Logger
}

type buckets struct {
	classes *Collection
	sheets  map[SheetKey]*Collection
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		themes: make(map[theme.Theme]*buckets),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StyleChanged implements style.Owner. Every mutation of a shared style
// advances the generation.
func (r *Registry) StyleChanged(style.ChangeKind) {
	r.generation++
}

// Generation returns a counter that advances on every shared-style mutation.
func (r *Registry) Generation() uint64 {
	return r.generation
}

func (r *Registry) bucketsFor(t theme.Theme) *buckets {
	b, ok := r.themes[t]
	if !ok {
		classes := NewCollection(t)
		classes.SetOwner(r)
		b = &buckets{
			classes: classes,
			sheets:  make(map[SheetKey]*Collection),
		}
		r.themes[t] = b
	}
	return b
}

// Classes returns the class-level collection for t, creating it on first use.
func (r *Registry) Classes(t theme.Theme) *Collection {
	return r.bucketsFor(t).classes
}

// ClassStyles returns the styles for class under t, creating them on first
// use. An empty class name is a configuration error and panics.
func (r *Registry) ClassStyles(t theme.Theme, class string) *style.Collection {
	return r.Classes(t).StylesFor(theme.MustIdentifier(class))
}

// ClassStylesIfPresent returns the styles for class under t without creating
// anything.
func (r *Registry) ClassStylesIfPresent(t theme.Theme, class string) (*style.Collection, bool) {
	b, ok := r.themes[t]
	if !ok {
		return nil, false
	}
	id, err := theme.NewIdentifier(class)
	if err != nil {
		return nil, false
	}
	return b.classes.StylesIfPresent(id)
}

// Sheet returns the memoised stylesheet for key under t.
func (r *Registry) Sheet(t theme.Theme, key SheetKey) (*Collection, bool) {
	b, ok := r.themes[t]
	if !ok {
		return nil, false
	}
	c, ok := b.sheets[key]
	return c, ok
}

// SetSheet memoises a decoded stylesheet. The registry takes ownership of c.
// A nil c drops the memo entry so the sheet is loaded again on next use.
func (r *Registry) SetSheet(t theme.Theme, key SheetKey, c *Collection) {
	b := r.bucketsFor(t)
	if c == nil {
		if old, ok := b.sheets[key]; ok {
			old.SetOwner(nil)
			delete(b.sheets, key)
			r.generation++
		}
		return
	}
	c.SetOwner(r)
	b.sheets[key] = c
	r.generation++
	r.logger.Debug("stylesheet memoised",
		"theme", t.Name(),
		"sheet", key.String(),
		"identifiers", c.Len())
}

// Sheets returns the memoised stylesheet keys for t, sorted.
func (r *Registry) Sheets(t theme.Theme) []SheetKey {
	b, ok := r.themes[t]
	if !ok {
		return nil
	}
	keys := make([]SheetKey, 0, len(b.sheets))
	for k := range b.sheets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b SheetKey) int {
		return cmp.Or(strings.Compare(a.Bundle, b.Bundle), strings.Compare(a.Name, b.Name))
	})
	return keys
}

// Themes returns every theme the registry holds styles for, sorted by name.
func (r *Registry) Themes() []theme.Theme {
	out := make([]theme.Theme, 0, len(r.themes))
	for t := range r.themes {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b theme.Theme) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

// DidReceiveMemoryWarning forwards the memory-pressure hook to every
// collection. Nothing is released.
func (r *Registry) DidReceiveMemoryWarning() {
	for _, t := range r.Themes() {
		b := r.themes[t]
		b.classes.DidReceiveMemoryWarning(r.logger)
		for _, k := range r.Sheets(t) {
			b.sheets[k].DidReceiveMemoryWarning(r.logger)
		}
	}
}
