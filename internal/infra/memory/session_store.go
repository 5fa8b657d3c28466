package memory

import (
	"context"
	"sync"
	"time"

	"blurt-quest-service/internal/domain"
	"github.com/google/uuid"
)

// SessionStore is an in-memory implementation of app.SessionStore. Tokens are
// opaque UUIDs bound to a username with a fixed validity window.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu     sync.Mutex
	tokens map[string]session
}

type session struct {
	username  string
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return NewSessionStoreWithClock(ttl, time.Now)
}

// NewSessionStoreWithClock allows deterministic expiry in tests.
func NewSessionStoreWithClock(ttl time.Duration, clock func() time.Time) *SessionStore {
	return &SessionStore{
		ttl:    ttl,
		clock:  clock,
		tokens: make(map[string]session),
	}
}

func (s *SessionStore) Issue(_ context.Context, username string) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = session{username: username, expiresAt: s.clock().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	if !sess.expiresAt.After(s.clock()) {
		delete(s.tokens, token)
		return "", domain.ErrUnauthorized
	}
	return sess.username, nil
}
