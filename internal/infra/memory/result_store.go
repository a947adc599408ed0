package memory

import (
	"context"
	"fmt"
	"sync"

	"quiz-widget/internal/domain"
)

// ResultStore keeps finished sessions in memory.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]domain.Result)}
}

func (s *ResultStore) SaveResult(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.SessionID] = result
	return nil
}

func (s *ResultStore) GetResult(_ context.Context, sessionID string) (domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[sessionID]
	if !ok {
		return domain.Result{}, fmt.Errorf("%w: result %s", domain.ErrSessionNotFound, sessionID)
	}
	return result, nil
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
