package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultIdleTimeout = 300 * time.Second

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session is the server-side state behind one opaque handle. Authenticated
// stays false between the password step and the TOTP step.
type Session struct {
	Handle        string
	Username      string
	CreatedAt     time.Time
	LastSeen      time.Time
	Authenticated bool
}

// Manager owns all live sessions. Expiry is lazy: a session past the idle
// timeout is dropped when it is next touched, and Start prunes stale records
// opportunistically.
type Manager struct {
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
	mu          sync.Mutex
}

type Option func(*Manager)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(idleTimeout time.Duration, opts ...Option) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	m := &Manager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates a pending session bound to username and returns its handle.
func (m *Manager) Start(username string) string {
	now := m.now()
	handle := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked(now)
	m.sessions[handle] = &Session{
		Handle:    handle,
		Username:  username,
		CreatedAt: now,
		LastSeen:  now,
	}
	return handle
}

// Touch validates the handle, enforces the idle timeout, and refreshes
// LastSeen. An expired session is removed and reported as ErrExpired.
func (m *Manager) Touch(handle string) (Session, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return Session{}, ErrNotFound
	}
	if now.Sub(s.LastSeen) > m.idleTimeout {
		delete(m.sessions, handle)
		return Session{}, ErrExpired
	}

	s.LastSeen = now
	return *s, nil
}

// Authenticate marks the session as fully authenticated after the second
// factor succeeds.
func (m *Manager) Authenticate(handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return ErrNotFound
	}
	s.Authenticated = true
	return nil
}

// End removes the session. Ending an unknown handle is not an error.
func (m *Manager) End(handle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, handle)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) pruneLocked(now time.Time) {
	for handle, s := range m.sessions {
		if now.Sub(s.LastSeen) > m.idleTimeout {
			delete(m.sessions, handle)
		}
	}
}
