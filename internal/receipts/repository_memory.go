package receipts

import (
	"context"
	"sync"
)

// InMemoryRepository keeps receipts in process memory. The default when no
// database is configured, and the repository tests run against.
type InMemoryRepository struct {
	mu       sync.RWMutex
	receipts []Receipt
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Save(_ context.Context, receipt Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, receipt)
	return nil
}

func (r *InMemoryRepository) List(_ context.Context, limit int) ([]Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.receipts) {
		limit = len(r.receipts)
	}

	out := make([]Receipt, 0, limit)
	for i := len(r.receipts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.receipts[i])
	}
	return out, nil
}

func (r *InMemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.receipts), nil
}
