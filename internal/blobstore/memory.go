package blobstore

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store for tests and local experiments. Safe for
// concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

func (s *MemStore) Put(ctx context.Context, path string, data []byte, progress ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrNetwork, path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[path] = cp

	if progress != nil {
		progress(1)
	}
	return nil
}

func (s *MemStore) Get(ctx context.Context, path string, progress ProgressFunc) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrNetwork, path, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	if progress != nil {
		progress(1)
	}
	return cp, nil
}

func (s *MemStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrNetwork, path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path) // absent is success
	return nil
}

// Len reports how many objects the store currently holds.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Has reports whether an object exists at path.
func (s *MemStore) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[path]
	return ok
}

var _ Store = (*MemStore)(nil)
