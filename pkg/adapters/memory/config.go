package memory

import (
	"context"
	"maps"
	"sync"
)

// ConfigStore implements ports.ConfigStore in memory.
// Safe for concurrent use.
type ConfigStore struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewConfigStore creates a store seeded with a copy of initial.
func NewConfigStore(initial map[string]string) *ConfigStore {
	data := make(map[string]string, len(initial))
	maps.Copy(data, initial)
	return &ConfigStore{data: data}
}

// Load returns a copy of every key so the caller can't mutate the store.
func (s *ConfigStore) Load(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data), nil
}

// Set stores value under key.
func (s *ConfigStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes key.
func (s *ConfigStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
