package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bdotrack/bdo-api/internal/domains/users/ports"
)

// DefaultSessionTTL applies when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

type session struct {
	username  string
	expiresAt time.Time
}

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithTTL(DefaultSessionTTL, time.Now)
}

func NewSessionStoreWithTTL(ttl time.Duration, now func() time.Time) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &SessionStore{sessions: map[string]session{}, ttl: ttl, now: now}
}

func (s *SessionStore) Save(_ context.Context, username, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{username: username, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *SessionStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, token)
		return false, nil
	}
	return true, nil
}

func (s *SessionStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.username == username {
			delete(s.sessions, token)
		}
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
