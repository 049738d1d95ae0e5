package engine

// DefaultMaxFanout is the default number of nodes one RequestUpdate call may
// mark pending. It bounds the walk when a graph provider returns an
// ever-growing dependents list.
const DefaultMaxFanout = 100000

// FanoutQuota counts the nodes marked pending by one RequestUpdate walk.
//
// Re-visits never count: a node that is already pending stops the walk along
// that edge, so cycles in the dependents graph terminate on their own. The
// quota only catches graphs that keep producing new nodes.
type FanoutQuota struct {
	limit   int
	current int
}

// NewFanoutQuota creates a quota with the given limit.
func NewFanoutQuota(limit int) *FanoutQuota {
	return &FanoutQuota{limit: limit}
}

// Check counts one more node. It returns a FANOUT_EXCEEDED RuntimeError once
// the limit is passed.
func (q *FanoutQuota) Check(root NodeID) error {
	q.current++
	if q.current > q.limit {
		return NewFanoutError(root, q.current, q.limit)
	}
	return nil
}

// Current returns the number of nodes counted so far.
func (q *FanoutQuota) Current() int {
	return q.current
}

// Limit returns the configured limit.
func (q *FanoutQuota) Limit() int {
	return q.limit
}
