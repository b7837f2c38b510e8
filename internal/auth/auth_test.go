package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pawmark/auth-service/internal/account"
	"github.com/pawmark/auth-service/internal/config"
	"github.com/pawmark/auth-service/internal/notify"
	"github.com/pawmark/auth-service/internal/session"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:         "test-secret-key",
		TokenExpiration:   time.Hour,
		TOTPIssuer:        "PawMark Auth",
		MinPasswordLength: 8,
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// mockNotifier captures deliveries and can be told to fail.
type mockNotifier struct {
	mu          sync.Mutex
	failNext    bool
	enrollments []string
	resetCodes  map[string]string
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{resetCodes: make(map[string]string)}
}

func (n *mockNotifier) SendEnrollment(contact, username, enrollmentURI string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failNext {
		n.failNext = false
		return notify.ErrDeliveryFailed
	}
	n.enrollments = append(n.enrollments, username)
	return nil
}

func (n *mockNotifier) SendResetCode(contact, username, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failNext {
		n.failNext = false
		return notify.ErrDeliveryFailed
	}
	n.resetCodes[username] = code
	return nil
}

func (n *mockNotifier) lastResetCode(username string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resetCodes[username]
}

type testEnv struct {
	service  *Service
	repo     *account.MockRepository
	guard    *account.Guard
	sessions *session.Manager
	notifier *mockNotifier
	clock    *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	clock := newFakeClock()
	repo := account.NewMockRepository()
	guard := account.NewGuard(repo, 3, zap.NewNop())
	sessions := session.NewManager(300*time.Second, session.WithClock(clock.Now))
	notifier := newMockNotifier()

	svc := NewService(
		newTestConfig(),
		newTestLogger(t),
		repo,
		guard,
		sessions,
		notifier,
		WithClock(clock.Now),
	)

	return &testEnv{
		service:  svc,
		repo:     repo,
		guard:    guard,
		sessions: sessions,
		notifier: notifier,
		clock:    clock,
	}
}
