package cache

import (
	"sync"
)

// MemoryStore keeps entries in a process-local map. Used in tests and as
// the no-persistence backend; entries do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

func (s *MemoryStore) Load(topic string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[topic].Clone(), nil
}

func (s *MemoryStore) Save(entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Topic] = entry.Clone()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
