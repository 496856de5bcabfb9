package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Result
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Result),
	}
}

// Save persists a copy of the result in memory.
func (s *Store) Save(_ context.Context, result *domain.Result) error {
	if result.ID == "" {
		return errors.New("result has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[result.ID] = result.Clone()
	return nil
}

// Load retrieves a copy of the result so callers can't mutate the store through it.
func (s *Store) Load(_ context.Context, id string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.data[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return result.Clone(), nil
}

// Delete removes the result.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored result summaries, newest first.
func (s *Store) List(_ context.Context) ([]domain.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Summary, 0, len(s.data))
	for _, r := range s.data {
		out = append(out, r.Summarize())
	}
	domain.SortSummaries(out)
	return out, nil
}
