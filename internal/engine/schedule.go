package engine

// RequestUpdate marks node pending and schedules one apply task for it.
//
// A node that is already pending is left alone, so any number of requests
// before the next tick produce a single apply. When the node forwards
// updates, its dependents are requested too, synchronously, in pre-order.
// The walk stops at pending nodes, so it terminates on cyclic graphs; the
// fan-out quota bounds graphs that keep growing.
func (e *Engine) RequestUpdate(node Node) {
	root := e.recordFor(node)
	quota := NewFanoutQuota(e.maxFanout)

	stack := []Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rec := e.recordFor(n)
		if rec.needsUpdate {
			continue
		}
		if err := quota.Check(root.id); err != nil {
			e.logger.Error("update fan-out exceeded",
				"code", ErrCodeFanoutExceeded,
				"node", root.id,
				"visited", quota.Current(),
				"limit", quota.Limit(),
				"pending", len(stack),
			)
			return
		}

		rec.needsUpdate = true
		id := rec.id
		e.loop.Post(func() { e.applyID(id) })

		if !n.ForwardsUpdates() {
			continue
		}
		deps := n.Dependents()
		for i := len(deps) - 1; i >= 0; i-- {
			if deps[i] != nil {
				stack = append(stack, deps[i])
			}
		}
	}
}

// ApplyIfNeeded runs the node's apply pass now if it is pending.
// It returns false when there was nothing to do.
func (e *Engine) ApplyIfNeeded(node Node) bool {
	rec, ok := e.lookup(node)
	if !ok {
		return false
	}
	return e.applyRecord(rec)
}

// applyID is the scheduled task body.
func (e *Engine) applyID(id NodeID) {
	rec, ok := e.records[id]
	if !ok {
		e.logger.Debug("apply skipped: node detached", "node", id)
		return
	}
	e.applyRecord(rec)
}

func (e *Engine) applyRecord(rec *record) bool {
	if !rec.needsUpdate {
		return false
	}
	rec.needsUpdate = false

	t := e.current
	computed := e.computedFor(rec, t)
	rec.applied = t
	rec.hasApplied = true
	rec.applyCount++

	if computed == nil && !e.notifyAbsent {
		e.logger.Debug("apply: no styles resolved", "node", rec.id, "theme", t.Name())
		return true
	}

	e.logger.Debug("apply appearance",
		"node", rec.id,
		"class", rec.node.Class(),
		"theme", t.Name(),
		"resolved", computed != nil,
	)
	rec.node.ApplyAppearance(t, computed)
	return true
}
