// Package engine implements theme resolution and the appearance update
// scheduler.
//
// The engine tracks styled nodes in a side table, merges their three style
// sources into one effective collection per theme, caches that result, and
// schedules debounced appearance updates that fan out through the node graph.
//
// ARCHITECTURE:
//
// Side Table:
// Nodes are never extended. Each node gets an engine-assigned NodeID from a
// logical Clock; per-node state (private styles, pending flag, cache, applied
// theme) lives in a record keyed by that ID. Scheduled tasks capture the ID,
// never the node, so a detached node's pending task is a no-op.
//
// Resolution Cascade (highest priority first):
// 1. Private styles (per node, per theme, created on first access)
// 2. Stylesheet styles (node's sheet name + identifier, memoised per theme)
// 3. Class styles (registry bucket for the node's class)
// Attributes are filled first-present-wins; state sub-styles match exact keys.
//
// Update Flow:
// 1. A style write reaches the owning record through style.Owner
// 2. The record's cache is discarded and RequestUpdate marks the node pending
// 3. RequestUpdate posts exactly one task to the Loop and fans out to
//    dependents when the node forwards updates
// 4. The task runs ApplyIfNeeded: clear the flag, resolve, notify the node
//
// CONCURRENCY:
//
// The engine is confined to one goroutine: the goroutine that runs its Loop.
// Only EventLoop.Post and EventLoop.Stop are safe from other goroutines.
// Ordering is deterministic: tasks run in post order and fan-out is a
// pre-order walk of the dependents graph.
package engine
