package quiz

import (
	"context"
	"sync"
	"time"
)

// Store keeps one Attempt per session id.
type Store interface {
	// Put stores a, replacing whatever the session held.
	Put(ctx context.Context, sessionID string, a Attempt) error
	// Take removes and returns the session's attempt. It returns nil, nil when
	// nothing live is stored.
	Take(ctx context.Context, sessionID string) (*Attempt, error)
}

// MemoryStore is a Store for a single process.
type MemoryStore struct {
	mu       sync.Mutex
	attempts map[string]Attempt
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attempts: make(map[string]Attempt),
		now:      time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, sessionID string, a Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, held := range s.attempts {
		if held.Expired(now) {
			delete(s.attempts, id)
		}
	}
	s.attempts[sessionID] = a
	return nil
}

func (s *MemoryStore) Take(ctx context.Context, sessionID string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[sessionID]
	if !ok {
		return nil, nil
	}
	delete(s.attempts, sessionID)
	if a.Expired(s.now()) {
		return nil, nil
	}
	return &a, nil
}

// Len reports how many attempts are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}
