// Package registry holds the shared, process-wide style sources.
//
// A Collection maps identifiers to style collections for one theme; it is
// what a stylesheet decodes into. A Registry owns, per theme, the class-level
// styles (keyed by class name) and the memo of decoded stylesheets (keyed by
// bundle and sheet name).
//
// Everything a Registry holds is owned by the Registry and outlives every
// styled node. Any mutation of a shared style bumps the registry generation,
// which the engine compares against to discard stale computed styles.
// Nothing is ever evicted.
package registry
