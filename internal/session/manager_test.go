package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestManager_StartAndTouch(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(300*time.Second, WithClock(clock.Now))

	handle := m.Start("alice")
	require.NotEmpty(t, handle)

	sess, err := m.Touch(handle)
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
	assert.False(t, sess.Authenticated)
}

func TestManager_Touch_UnknownHandle(t *testing.T) {
	m := NewManager(300 * time.Second)

	_, err := m.Touch("no-such-handle")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_IdleTimeout(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(300*time.Second, WithClock(clock.Now))

	handle := m.Start("alice")

	// Activity inside the window keeps the session alive.
	clock.Advance(200 * time.Second)
	_, err := m.Touch(handle)
	require.NoError(t, err)

	// 301 seconds of silence expires it.
	clock.Advance(301 * time.Second)
	_, err = m.Touch(handle)
	assert.ErrorIs(t, err, ErrExpired)

	// The expired session is gone, not just flagged.
	_, err = m.Touch(handle)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_TouchRefreshesLastSeen(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(300*time.Second, WithClock(clock.Now))

	handle := m.Start("alice")

	// Repeated touches each reset the idle window.
	for i := 0; i < 5; i++ {
		clock.Advance(250 * time.Second)
		_, err := m.Touch(handle)
		require.NoError(t, err)
	}
}

func TestManager_Authenticate(t *testing.T) {
	m := NewManager(300 * time.Second)

	handle := m.Start("alice")
	require.NoError(t, m.Authenticate(handle))

	sess, err := m.Touch(handle)
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)

	assert.ErrorIs(t, m.Authenticate("no-such-handle"), ErrNotFound)
}

func TestManager_End(t *testing.T) {
	m := NewManager(300 * time.Second)

	handle := m.Start("alice")
	m.End(handle)

	_, err := m.Touch(handle)
	assert.ErrorIs(t, err, ErrNotFound)

	// Ending twice is fine.
	m.End(handle)
}

func TestManager_StartPrunesExpired(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(300*time.Second, WithClock(clock.Now))

	m.Start("alice")
	m.Start("bob")
	require.Equal(t, 2, m.Len())

	clock.Advance(301 * time.Second)
	m.Start("carol")
	assert.Equal(t, 1, m.Len())
}

func TestManager_ConcurrentTouches(t *testing.T) {
	m := NewManager(300 * time.Second)
	handle := m.Start("alice")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Touch(handle)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
