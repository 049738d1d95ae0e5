// Package style provides the attribute storage model of the appearance
// engine.
//
// A Style maps attributes to opaque values. A Collection is a base Style plus
// per-state sub-styles keyed by exact state identity. Merge combines ordered
// collections into one effective collection, highest priority first.
//
// Storage never interprets values; coercion to colors, fonts and so on is a
// separate concern (see package coerce). A stored nil is distinct from an
// absent attribute.
//
// Mutations report to an optional Owner so the engine can schedule updates
// and discard computed styles. The owner is a small handle, never the styled
// node itself.
package style
