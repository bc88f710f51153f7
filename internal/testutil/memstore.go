package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"automl-platform-service/internal/core/domain"
)

// MemStore is an in-memory ObjectStore for tests that need real blob state
// rather than expectations.
type MemStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// FailPut and FailDelete, when set, force the next matching call to
	// fail so consistency paths can be exercised.
	FailPut    error
	FailDelete error
}

func NewMemStore() *MemStore {
	return &MemStore{blobs: map[string][]byte{}}
}

func (s *MemStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut != nil {
		return s.FailPut
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[key] = cp
	return nil
}

func (s *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete != nil {
		return s.FailDelete
	}
	if _, ok := s.blobs[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.blobs, key)
	return nil
}

func (s *MemStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := []string{}
	for k := range s.blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemStore) Stat(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return int64(len(data)), nil
}

// Len reports how many blobs the store holds.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Has reports whether a key exists.
func (s *MemStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok
}
