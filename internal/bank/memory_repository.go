package bank

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Bank
}

// NewMemoryRepository constructs an in-memory repository for tests and
// development mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Bank)}
}

func (r *memoryRepository) Create(_ context.Context, b Bank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[b.UUID] = b
	return nil
}

func (r *memoryRepository) ByUUID(_ context.Context, uuid string) (Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.storage[uuid]
	if !ok {
		return Bank{}, ErrNotFound
	}
	return b, nil
}

func (r *memoryRepository) ByBIN(_ context.Context, bin int) (Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.storage {
		if b.BIN == bin {
			return b, nil
		}
	}
	return Bank{}, ErrNotFound
}
