package payment

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Payment
}

// NewMemoryRepository constructs an in-memory payment store for tests and
// development mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Payment)}
}

func (r *memoryRepository) Create(_ context.Context, p Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[p.UUID]; exists {
		return errors.New("payment exists")
	}
	r.storage[p.UUID] = p
	return nil
}

func (r *memoryRepository) Update(_ context.Context, p Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[p.UUID]; !exists {
		return ErrNotFound
	}
	r.storage[p.UUID] = p
	return nil
}

func (r *memoryRepository) ByUUID(_ context.Context, uuid string) (Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.storage[uuid]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return p, nil
}
