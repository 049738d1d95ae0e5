package style

import "github.com/roach88/themer/internal/theme"

// Merge combines collections into one effective collection.
//
// Sources are ordered highest priority first; nil sources are skipped. Base
// attributes are filled first-present-wins, so a higher source's value (even
// an explicit nil) is never overwritten by a lower one. For every state held
// by any source, the sub-styles stored under that exact state are merged the
// same way. Merge never decomposes composite states.
//
// Merge returns nil when every source is nil. The result is a fresh,
// unowned collection that shares no storage with the sources.
func Merge(sources ...*Collection) *Collection {
	var out *Collection
	for _, src := range sources {
		if src == nil {
			continue
		}
		if out == nil {
			out = NewCollection()
		}
		out.Style.fill(&src.Style)
		for key, e := range src.states {
			dst, ok := out.states[key]
			if !ok {
				if out.states == nil {
					out.states = make(map[theme.StateKey]stateEntry)
				}
				dst = stateEntry{state: e.state, style: NewStyle()}
				out.states[key] = dst
			}
			dst.style.fill(e.style)
		}
	}
	return out
}

// MergeBase recomputes only the base attributes of computed from sources,
// keeping its state sub-styles. computed must be unowned.
func MergeBase(computed *Collection, sources ...*Collection) {
	computed.Style.values = nil
	for _, src := range sources {
		if src == nil {
			continue
		}
		computed.Style.fill(&src.Style)
	}
}
