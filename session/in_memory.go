package session

import (
	"context"
	"sync"

	"github.com/kaiwahq/kaiwa/core"
)

// InMemoryStore keeps ordered per-session turn history in process memory.
// Turns are stored by value and returned as defensive copies; callers can
// never mutate the history retroactively.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu    sync.RWMutex
	turns map[string][]core.Turn
}

// NewInMemoryStore creates an empty conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{turns: map[string][]core.Turn{}}
}

// Append adds a turn to the session's history.
func (s *InMemoryStore) Append(_ context.Context, sessionID string, turn core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

// History returns the most recent turns for the session, oldest first. A
// limit of 0 returns the full history.
func (s *InMemoryStore) History(_ context.Context, sessionID string, limit int) ([]core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[sessionID]
	start := 0
	if limit > 0 && len(stored) > limit {
		start = len(stored) - limit
	}
	out := make([]core.Turn, len(stored)-start)
	copy(out, stored[start:])
	return out, nil
}
