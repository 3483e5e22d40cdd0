package aggregator

import "sync"

// Board keeps the newest published result of one page.
// Results from an older session epoch, or from the same epoch with an older
// sequence token, are dropped.
type Board[T any] struct {
	mu     sync.RWMutex
	latest Result[T]
	set    bool
}

// Publish stores r unless a newer cycle was already published. Reports whether r was kept.
func (b *Board[T]) Publish(r Result[T]) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.set && b.latest.newer(r) {
		return false
	}
	b.latest = r
	b.set = true
	return true
}

// Latest returns the newest published result
func (b *Board[T]) Latest() (Result[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.set
}
