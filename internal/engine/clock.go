package engine

import "sync/atomic"

// Clock hands out NodeIDs in attach order.
//
// IDs start after the clock's origin and are never reused by one engine, so
// a detached and re-attached node gets a fresh ID. Safe for concurrent use.
type Clock struct {
	last atomic.Int64
}

// NewClock returns a clock whose first ID is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock whose first ID is origin+1. Tests use it to
// keep IDs from separate engines apart.
func NewClockAt(origin NodeID) *Clock {
	c := &Clock{}
	c.last.Store(int64(origin))
	return c
}

// Next allocates an ID.
func (c *Clock) Next() NodeID {
	return NodeID(c.last.Add(1))
}

// Last returns the most recently allocated ID, or the origin.
func (c *Clock) Last() NodeID {
	return NodeID(c.last.Load())
}
