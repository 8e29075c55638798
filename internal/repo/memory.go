package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/hos-planner/internal/domain"
)

// memoryKVRepo keeps values in process memory. Used by tests and by
// STORE_BACKEND=memory, where the session lasts as long as the process.
type memoryKVRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKVRepo constructs an empty in-memory KVRepo.
func NewMemoryKVRepo() KVRepo {
	return &memoryKVRepo{values: make(map[string]string)}
}

func (r *memoryKVRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return "", fmt.Errorf("repo.KVRepo.Get: %w", domain.ErrNotFound)
	}
	return v, nil
}

func (r *memoryKVRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *memoryKVRepo) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}
