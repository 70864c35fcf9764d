package store

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store for tests and ephemeral runs. Nothing
// survives process exit.
type MemStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMem creates an empty MemStore.
func NewMem() *MemStore {
	return &MemStore{m: make(map[string]string)}
}

func (s *MemStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *MemStore) Migrate(context.Context) error { return nil }

func (s *MemStore) Close() error { return nil }
