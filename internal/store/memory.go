package store

import (
	"sync"

	"github.com/aruizh/wind-history/internal/wind"
)

// MemoryStore is a concurrency-safe in-memory history, used when no durable
// cache is wanted and as the backing store in tests.
type MemoryStore struct {
	mu  sync.RWMutex
	obs []wind.Observation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]wind.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]wind.Observation, len(s.obs))
	copy(out, s.obs)
	return out, nil
}

func (s *MemoryStore) Save(obs []wind.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.obs = make([]wind.Observation, len(obs))
	copy(s.obs, obs)
	return nil
}
