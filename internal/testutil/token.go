package testutil

import (
	"fmt"
	"sync"
)

// DefaultTokenPrefix is used when a scenario names no token prefix.
const DefaultTokenPrefix = "test-pass"

// SequentialTokens generates pass tokens "<prefix>-1", "<prefix>-2", ...
//
// It satisfies engine.TokenGenerator. Unlike engine.FixedGenerator it never
// runs out, so scenarios need not declare how many theme switches they make.
type SequentialTokens struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialTokens creates a generator. An empty prefix uses
// DefaultTokenPrefix.
func NewSequentialTokens(prefix string) *SequentialTokens {
	if prefix == "" {
		prefix = DefaultTokenPrefix
	}
	return &SequentialTokens{prefix: prefix}
}

// Generate returns the next token.
func (g *SequentialTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
