package places

import (
	"sync"

	"github.com/google/uuid"
)

// SessionToken groups the predictions of one address search with the
// selection that ends it, so the provider bills them as one session.
type SessionToken string

func newSessionToken() SessionToken {
	return SessionToken(uuid.NewString())
}

// Sessions holds the current session token. Only a successful submission
// renews it; queries read it.
type Sessions struct {
	mu      sync.RWMutex
	current SessionToken
}

func NewSessions() *Sessions {
	return &Sessions{current: newSessionToken()}
}

// Current returns the token queries should carry.
func (s *Sessions) Current() SessionToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Renew ends the current session and returns the new token.
func (s *Sessions) Renew() SessionToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = newSessionToken()
	return s.current
}
