package engine

import (
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

// record is the side-table entry for one attached node.
type record struct {
	id         NodeID
	node       Node
	identifier theme.Identifier
	private    map[theme.Theme]*style.Collection

	needsUpdate bool
	applied     theme.Theme
	hasApplied  bool
	applyCount  int

	cache cacheEntry
}

// cacheEntry is the computed style of a node, valid for one theme and one
// registry generation.
type cacheEntry struct {
	valid      bool
	theme      theme.Theme
	generation uint64
	baseStale  bool
	computed   *style.Collection
}

func (c *cacheEntry) invalidate() {
	*c = cacheEntry{}
}

// nodeOwner routes private style mutations back to the node's record.
// It holds the ID, not the node, so a detached node's styles go quiet.
type nodeOwner struct {
	e  *Engine
	id NodeID
}

// StyleChanged implements style.Owner.
func (o nodeOwner) StyleChanged(kind style.ChangeKind) {
	rec, ok := o.e.records[o.id]
	if !ok {
		return
	}
	if kind == style.ChangeBase && o.e.reuseOnBaseEdit {
		rec.cache.baseStale = true
	} else {
		rec.cache.invalidate()
	}
	o.e.RequestUpdate(rec.node)
}

// recordFor returns the node's record, attaching the node on first use.
func (e *Engine) recordFor(node Node) *record {
	if id, ok := e.ids[node]; ok {
		return e.records[id]
	}
	rec := &record{
		id:   e.clock.Next(),
		node: node,
	}
	e.ids[node] = rec.id
	e.records[rec.id] = rec
	e.logger.Debug("node attached", "node", rec.id, "class", node.Class())
	return rec
}

func (e *Engine) lookup(node Node) (*record, bool) {
	id, ok := e.ids[node]
	if !ok {
		return nil, false
	}
	return e.records[id], true
}

// ID returns the node's NodeID if it is attached.
func (e *Engine) ID(node Node) (NodeID, bool) {
	id, ok := e.ids[node]
	return id, ok
}

// Attach registers node and requests an update when the theme it last
// applied is not the current theme (including never having applied one).
func (e *Engine) Attach(node Node) NodeID {
	rec := e.recordFor(node)
	if !rec.hasApplied || rec.applied != e.current {
		e.RequestUpdate(node)
	}
	return rec.id
}

// Detach drops the node's record: its private styles, cache and pending
// state. A task already posted for the node becomes a no-op.
func (e *Engine) Detach(node Node) bool {
	rec, ok := e.lookup(node)
	if !ok {
		return false
	}
	for _, c := range rec.private {
		c.SetOwner(nil)
	}
	delete(e.ids, node)
	delete(e.records, rec.id)
	e.logger.Debug("node detached", "node", rec.id, "pending", rec.needsUpdate)
	return true
}

// NeedsUpdate reports whether the node has an update pending.
func (e *Engine) NeedsUpdate(node Node) bool {
	rec, ok := e.lookup(node)
	return ok && rec.needsUpdate
}

// AppliedTheme returns the theme the node last applied.
func (e *Engine) AppliedTheme(node Node) (theme.Theme, bool) {
	rec, ok := e.lookup(node)
	if !ok || !rec.hasApplied {
		return theme.Theme{}, false
	}
	return rec.applied, true
}

// ApplyCount returns how many apply passes ran for the node.
func (e *Engine) ApplyCount(node Node) int {
	rec, ok := e.lookup(node)
	if !ok {
		return 0
	}
	return rec.applyCount
}
