// Package memory provides an in-memory session store for development and
// tests. State does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	identity []byte
	token    string
	hasBlob  bool
	hasToken bool
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) ReadIdentity(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasBlob {
		return nil, domain.ErrNoSession
	}
	blob := make([]byte, len(s.identity))
	copy(blob, s.identity)
	return blob, nil
}

func (s *SessionStore) WriteIdentity(_ context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = make([]byte, len(blob))
	copy(s.identity, blob)
	s.hasBlob = true
	return nil
}

func (s *SessionStore) ReadToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasToken {
		return "", domain.ErrNoSession
	}
	return s.token, nil
}

func (s *SessionStore) WriteToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.hasToken = true
	return nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.token = ""
	s.hasBlob = false
	s.hasToken = false
	return nil
}

func (s *SessionStore) Ping(_ context.Context) error {
	return nil
}
