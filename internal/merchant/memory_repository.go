package merchant

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu        sync.RWMutex
	clients   map[string]Client
	cardTypes map[string]CardType
	pos       map[string]POS
}

// NewMemoryRepository constructs an in-memory registry for tests and
// development mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		clients:   make(map[string]Client),
		cardTypes: make(map[string]CardType),
		pos:       make(map[string]POS),
	}
}

func (r *memoryRepository) CreateClient(_ context.Context, c Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[c.UUID]; exists {
		return errors.New("client exists")
	}
	r.clients[c.UUID] = c
	return nil
}

func (r *memoryRepository) UpdateClient(_ context.Context, c Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[c.UUID]; !exists {
		return ErrNotFound
	}
	r.clients[c.UUID] = c
	return nil
}

func (r *memoryRepository) ClientByUUID(_ context.Context, uuid string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[uuid]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) CreateCardType(_ context.Context, ct CardType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cardTypes[ct.UUID] = ct
	return nil
}

func (r *memoryRepository) CardTypeByUUID(_ context.Context, uuid string) (CardType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.cardTypes[uuid]
	if !ok {
		return CardType{}, ErrNotFound
	}
	return ct, nil
}

func (r *memoryRepository) CardTypeByName(_ context.Context, name string) (CardType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ct := range r.cardTypes {
		if ct.Name == name {
			return ct, nil
		}
	}
	return CardType{}, ErrNotFound
}

func (r *memoryRepository) CreatePos(_ context.Context, p POS) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pos[p.UUID]; exists {
		return errors.New("pos exists")
	}
	r.pos[p.UUID] = p
	return nil
}

func (r *memoryRepository) PosByUUID(_ context.Context, uuid string) (POS, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pos[uuid]
	if !ok {
		return POS{}, ErrNotFound
	}
	return p, nil
}
