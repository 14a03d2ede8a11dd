package wallet

import (
	"context"
	"errors"
	"sync"
)

// ErrEmptyKey is returned when a store is asked to write an empty key.
var ErrEmptyKey = errors.New("wallet: preference key is required")

// KeyValueStore persists small string preferences such as the theme.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// InMemoryKeyValueStore is a concurrency-safe store for tests and demos.
type InMemoryKeyValueStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewInMemoryKeyValueStore creates an empty store.
func NewInMemoryKeyValueStore() *InMemoryKeyValueStore {
	return &InMemoryKeyValueStore{data: make(map[string]string)}
}

// Get returns the stored value and whether it exists.
func (s *InMemoryKeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

// Set stores value under key.
func (s *InMemoryKeyValueStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}
