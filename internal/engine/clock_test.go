package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_StartsAfterOrigin(t *testing.T) {
	c := NewClock()
	assert.Equal(t, NodeID(0), c.Last())
	assert.Equal(t, NodeID(1), c.Next())

	c = NewClockAt(100)
	assert.Equal(t, NodeID(100), c.Last())
	assert.Equal(t, NodeID(101), c.Next())
	assert.Equal(t, NodeID(101), c.Last())
}

func TestClock_ConcurrentIDsAreUnique(t *testing.T) {
	c := NewClock()
	const goroutines, perGoroutine = 50, 100

	var wg sync.WaitGroup
	ids := make(chan NodeID, goroutines*perGoroutine)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				ids <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[NodeID]bool)
	for id := range ids {
		require.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
	assert.Equal(t, NodeID(goroutines*perGoroutine), c.Last())
}

func TestClock_AttachDrawsIDs(t *testing.T) {
	e := New(WithClock(NewClockAt(41)), WithLogger(discardLogger()))

	a, b := newTestNode("A"), newTestNode("B")
	assert.Equal(t, NodeID(42), e.Attach(a))
	assert.Equal(t, NodeID(43), e.Attach(b))
	assert.Equal(t, NodeID(42), e.Attach(a), "re-attaching keeps the ID")

	require.True(t, e.Detach(a))
	assert.Equal(t, NodeID(44), e.Attach(a), "a detached node gets a fresh ID")
}
