package pipeline

import "sync"

// Guard prevents concurrent runs over the same output file set. The
// solver writes its tour file in place, so two runs sharing an output
// directory and instance name would silently corrupt each other.
type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewGuard returns an empty guard.
func NewGuard() *Guard {
	return &Guard{active: make(map[string]struct{})}
}

// TryAcquire claims key. It returns false when a run holding the same
// key is still active.
func (g *Guard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

// Release frees key. Releasing an unheld key is a no-op.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}

// defaultGuard serializes runs within this process.
var defaultGuard = NewGuard()
