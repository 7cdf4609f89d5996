package journal

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in memory for tests and short-lived processes.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Query(_ context.Context, q Query) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []Entry
	for _, e := range s.entries {
		if q.matches(e) {
			res = append(res, e)
		}
	}
	return res, nil
}

func (s *MemoryStore) Close() error { return nil }
