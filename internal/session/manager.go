// Package session keeps the process-wide table of admin login sessions.
//
// Sessions live only in memory and are lost on restart. Expiry is sliding:
// every successful Validate pushes expires_at out by the TTL. There is no
// background sweep; an expired entry stays in the table until the next
// lookup of its token removes it.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/MichaelDViau/Kunaay-Demo/internal/util"
)

// DefaultTTL is the idle lifetime of a session.
const DefaultTTL = 8 * time.Hour

// tokenBytes is the entropy of a session token before encoding.
const tokenBytes = 32

// Session is a logged-in admin.
type Session struct {
	Token     string
	UserID    uint
	Username  string
	ExpiresAt time.Time
}

// Manager issues, validates, refreshes and revokes sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	nowF     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.nowF = now }
}

// NewManager returns an empty session table. A non-positive ttl means DefaultTTL.
func NewManager(ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		nowF:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the sliding lifetime applied on create and on every validation.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for the user and returns its token.
// Token collisions are not checked; 32 random bytes make them negligible.
func (m *Manager) Create(userID uint, username string) (string, error) {
	token, err := util.RandomToken(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = &Session{
		Token:     token,
		UserID:    userID,
		Username:  username,
		ExpiresAt: m.nowF().Add(m.ttl),
	}
	return token, nil
}

// Validate returns the session for token and extends its expiry.
// Unknown tokens report false; expired ones are deleted and report false.
func (m *Manager) Validate(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	now := m.nowF()
	if s.ExpiresAt.Before(now) {
		delete(m.sessions, token)
		return Session{}, false
	}
	s.ExpiresAt = now.Add(m.ttl)
	return *s, true
}

// Revoke deletes the session. Unknown tokens are ignored.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Len returns the number of entries held, including expired ones not yet reaped.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
