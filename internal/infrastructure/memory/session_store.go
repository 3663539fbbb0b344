package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rlunar/ionize/internal/domain"
)

type sessionEntry struct {
	username string
	expires  time.Time
}

// SessionStore keeps login sessions in process memory. Expired entries are
// dropped lazily on read.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry

	// now overrides the clock in tests
	now func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: map[string]sessionEntry{},
		now:      time.Now,
	}
}

func (s *SessionStore) Create(ctx context.Context, username string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.sessions[token] = sessionEntry{username: username, expires: s.now().Add(ttl)}
	return token, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return "", domain.ErrSessionExpired()
	}
	if s.now().After(e.expires) {
		delete(s.sessions, token)
		return "", domain.ErrSessionExpired()
	}
	return e.username, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
