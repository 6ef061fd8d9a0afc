package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/pickupgames/internal/dependencies/ids"
)

// MockIDs is a deterministic id generator for testing.
// It is safe for concurrent use.
type MockIDs struct {
	mu     sync.Mutex
	queued []string // returned in order before falling back to sequential ids
	index  int
	next   int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// NewID returns the next queued id, or "id-N" once the queue is drained
func (g *MockIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.index < len(g.queued) {
		id := g.queued[g.index]
		g.index++
		return id
	}
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

// Queue adds ids to be returned by NewID
func (g *MockIDs) Queue(values ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queued = append(g.queued, values...)
}

// Reset clears queued ids and restarts the sequence
func (g *MockIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queued = nil
	g.index = 0
	g.next = 0
}
