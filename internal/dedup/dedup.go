package dedup

import "sync"

// Guard remembers keys seen during one invocation. Nothing is persisted, so
// a new Guard starts empty.
type Guard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{seen: make(map[string]struct{})}
}

// Seen records key and reports whether it had been recorded before.
// Empty keys are never considered duplicates.
func (g *Guard) Seen(key string) bool {
	if key == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[key]; ok {
		return true
	}
	g.seen[key] = struct{}{}
	return false
}

func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
