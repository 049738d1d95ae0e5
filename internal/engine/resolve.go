package engine

import (
	"github.com/roach88/themer/internal/registry"
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

// Sources are the three style tiers of a node for one theme, highest
// priority first. An absent tier is nil.
type Sources struct {
	Private *style.Collection
	Sheet   *style.Collection
	Class   *style.Collection
}

// List returns the tiers in priority order.
func (s Sources) List() []*style.Collection {
	return []*style.Collection{s.Private, s.Sheet, s.Class}
}

// Styles returns the node's private styles for t, creating them on first
// access. Writes to the result schedule an update for the node.
func (e *Engine) Styles(node Node, t theme.Theme) *style.Collection {
	rec := e.recordFor(node)
	if c, ok := rec.private[t]; ok {
		return c
	}
	if rec.private == nil {
		rec.private = make(map[theme.Theme]*style.Collection)
	}
	c := style.NewCollection()
	c.SetOwner(nodeOwner{e: e, id: rec.id})
	rec.private[t] = c
	rec.cache.invalidate()
	return c
}

// StylesIfPresent returns the node's private styles for t without creating
// them.
func (e *Engine) StylesIfPresent(node Node, t theme.Theme) (*style.Collection, bool) {
	rec, ok := e.lookup(node)
	if !ok {
		return nil, false
	}
	c, ok := rec.private[t]
	return c, ok
}

// SetIdentifier sets the stylesheet identifier for node and schedules an
// update. The zero Identifier restores the default (the class name).
func (e *Engine) SetIdentifier(node Node, id theme.Identifier) {
	rec := e.recordFor(node)
	if rec.identifier == id {
		return
	}
	rec.identifier = id
	rec.cache.invalidate()
	e.RequestUpdate(node)
}

// Identifier returns the identifier selecting the node's stylesheet bucket.
func (e *Engine) Identifier(node Node) (theme.Identifier, bool) {
	if rec, ok := e.lookup(node); ok && !rec.identifier.IsZero() {
		return rec.identifier, true
	}
	id, err := theme.NewIdentifier(node.Class())
	if err != nil {
		return theme.Identifier{}, false
	}
	return id, true
}

// Sources returns the node's style tiers for t. Looking up the stylesheet
// tier may load and memoise the sheet.
func (e *Engine) Sources(node Node, t theme.Theme) Sources {
	return e.sourcesFor(e.recordFor(node), t)
}

// Computed returns the node's effective styles for the current theme, or nil
// when no tier resolved. The result is cached and must be treated as
// read-only.
func (e *Engine) Computed(node Node) *style.Collection {
	return e.computedFor(e.recordFor(node), e.current)
}

// Resolve returns the node's effective style for state under the current
// theme. Lookups are exact; Normal and NotAState return the base style.
func (e *Engine) Resolve(node Node, state theme.State) (*style.Style, bool) {
	c := e.Computed(node)
	if c == nil {
		return nil, false
	}
	return c.StyleFor(state)
}

func (e *Engine) sourcesFor(rec *record, t theme.Theme) Sources {
	var src Sources
	if c, ok := rec.private[t]; ok {
		src.Private = c
	}
	src.Sheet = e.sheetStyles(rec, t)
	if c, ok := e.registry.ClassStylesIfPresent(t, rec.node.Class()); ok {
		src.Class = c
	}
	return src
}

// computedFor returns the cached merge for t, recomputing it when the theme
// or registry generation moved or a private mutation invalidated it.
func (e *Engine) computedFor(rec *record, t theme.Theme) *style.Collection {
	src := e.sourcesFor(rec, t)
	gen := e.registry.Generation()

	c := &rec.cache
	if c.valid && c.theme == t && c.generation == gen {
		if !c.baseStale {
			return c.computed
		}
		if c.computed != nil {
			style.MergeBase(c.computed, src.List()...)
			c.baseStale = false
			return c.computed
		}
	}

	*c = cacheEntry{
		valid:      true,
		theme:      t,
		generation: gen,
		computed:   style.Merge(src.List()...),
	}
	return c.computed
}

func (e *Engine) sheetStyles(rec *record, t theme.Theme) *style.Collection {
	name := rec.node.StyleSheetName()
	if name == "" {
		return nil
	}
	id, ok := rec.identifier, !rec.identifier.IsZero()
	if !ok {
		var err error
		if id, err = theme.NewIdentifier(rec.node.Class()); err != nil {
			return nil
		}
	}

	key := registry.SheetKey{Bundle: e.locateBundle(rec.node.Class()), Name: name}
	sheet, ok := e.registry.Sheet(t, key)
	if !ok {
		sheet = e.loadSheet(rec, t, key)
		if sheet == nil {
			return nil
		}
	}

	s, ok := sheet.StylesIfPresent(id)
	if !ok {
		return nil
	}
	return s
}

// loadSheet asks the provider once per (theme, key). Failures and missing
// sheets are memoised as empty collections.
func (e *Engine) loadSheet(rec *record, t theme.Theme, key registry.SheetKey) *registry.Collection {
	if e.provider == nil {
		return nil
	}

	loaded, err := e.provider.Load(t, key)
	if err != nil {
		rerr := NewProviderError(rec.id, key.String(), err)
		e.logger.Warn("stylesheet load failed",
			"code", rerr.Code,
			"node", rec.id,
			"sheet", key.String(),
			"theme", t.Name(),
			"error", err,
		)
		loaded = nil
	}
	if loaded == nil {
		e.logger.Debug("stylesheet absent", "sheet", key.String(), "theme", t.Name())
		loaded = registry.NewCollection(t)
	}

	e.registry.SetSheet(t, key, loaded)
	return loaded
}
