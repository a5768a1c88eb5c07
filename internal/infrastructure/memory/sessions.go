package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"county-revenue/internal/domain"
)

type sessionEntry struct {
	user      domain.User
	expiresAt time.Time
}

// SessionStore keeps live session ids in process memory.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]sessionEntry
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]sessionEntry), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, tokenID string, user domain.User, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.entries[tokenID] = sessionEntry{user: user, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Load(_ context.Context, tokenID string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[tokenID]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: session %s", domain.ErrNotFound, tokenID)
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, tokenID)
		return domain.User{}, fmt.Errorf("%w: session %s expired", domain.ErrNotFound, tokenID)
	}
	return e.user, nil
}

func (s *SessionStore) Delete(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[tokenID]; !ok {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, tokenID)
	}
	delete(s.entries, tokenID)
	return nil
}

// sweep drops expired sessions. Callers hold mu.
func (s *SessionStore) sweep() {
	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
