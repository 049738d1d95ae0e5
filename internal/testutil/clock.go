// Package testutil holds deterministic helpers for tests and the scenario
// harness: a resettable sequence clock and a predictable pass-token
// generator.
package testutil

import "sync/atomic"

// DeterministicClock numbers trace events in a scenario run. The first
// event is 1; Reset rewinds so a rerun numbers its events identically.
type DeterministicClock struct {
	seq atomic.Int64
}

func NewDeterministicClock() *DeterministicClock {
	return new(DeterministicClock)
}

// Next numbers the next event.
func (c *DeterministicClock) Next() int64 { return c.seq.Add(1) }

// Current is the number of the last event, or 0 before the first.
func (c *DeterministicClock) Current() int64 { return c.seq.Load() }

func (c *DeterministicClock) Reset() { c.seq.Store(0) }
