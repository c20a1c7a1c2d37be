// Package store persists the only durable local state the client keeps: the
// set of livers this device has reviewed, and the search history.
package store

import (
	"context"
	"strings"
	"sync"
)

// SearchHistoryLimit caps the history at the most recent entries.
const SearchHistoryLimit = 10

type Store interface {
	HasReviewed(ctx context.Context, liverID string) (bool, error)
	MarkReviewed(ctx context.Context, liverID string) error

	// Search history is most-recent-first, capped at SearchHistoryLimit,
	// deduplicated by exact string match.
	SearchHistory(ctx context.Context) ([]string, error)
	AddSearchTerm(ctx context.Context, term string) error
	RemoveSearchTerm(ctx context.Context, term string) error
	ClearSearchHistory(ctx context.Context) error

	Close() error
}

// MemoryStore keeps state for the process lifetime only. It backs tests and
// the "memory" config backend.
type MemoryStore struct {
	mu       sync.Mutex
	reviewed map[string]struct{}
	history  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reviewed: make(map[string]struct{})}
}

func (s *MemoryStore) HasReviewed(_ context.Context, liverID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reviewed[liverID]
	return ok, nil
}

func (s *MemoryStore) MarkReviewed(_ context.Context, liverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewed[liverID] = struct{}{}
	return nil
}

func (s *MemoryStore) SearchHistory(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out, nil
}

func (s *MemoryStore) AddSearchTerm(_ context.Context, term string) error {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = removeTerm(s.history, trimmed)
	s.history = append([]string{trimmed}, s.history...)
	if len(s.history) > SearchHistoryLimit {
		s.history = s.history[:SearchHistoryLimit]
	}
	return nil
}

func (s *MemoryStore) RemoveSearchTerm(_ context.Context, term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = removeTerm(s.history, term)
	return nil
}

func (s *MemoryStore) ClearSearchHistory(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func removeTerm(history []string, term string) []string {
	out := history[:0]
	for _, t := range history {
		if t != term {
			out = append(out, t)
		}
	}
	return out
}
