package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Memory keeps records in process memory. Records are stored encoded, the
// same way the persistent backends hold them.
type Memory struct {
	kvRepository
	store *memoryStore
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	store := &memoryStore{data: make(map[string][]byte)}
	return &Memory{
		kvRepository: kvRepository{kv: store},
		store:        store,
	}
}

// PutRaw stores data under key as is, bypassing encoding.
func (m *Memory) PutRaw(key string, data []byte) {
	_ = m.store.put(context.Background(), key, data)
}

type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func (s *memoryStore) get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (s *memoryStore) put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(value)
	return nil
}

func (s *memoryStore) delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memoryStore) keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}
