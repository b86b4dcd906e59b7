package store

import (
	"sync"

	"focustrack/internal/session"
)

// MemoryStore is the non-persistent fallback log. It exists so the app
// still runs (without history surviving restarts) when the file store
// is unavailable, and doubles as the test store.
type MemoryStore struct {
	mu   sync.Mutex
	recs []session.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(rec session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemoryStore) ReadAll() ([]session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.Record, len(s.recs))
	copy(out, s.recs)
	return out, nil
}

func (s *MemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = nil
	return nil
}
