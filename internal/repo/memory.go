package repo

import (
	"context"
	"sync"
)

// MemoryRepo keeps snapshots for the lifetime of the process only.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]byte)}
}

func (r *MemoryRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, ErrorNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *MemoryRepo) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	r.data[key] = v
	return nil
}

func (r *MemoryRepo) Close() error { return nil }
