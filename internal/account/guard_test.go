package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGuard(t *testing.T) (*Guard, Repository) {
	repo := NewMockRepository()
	guard := NewGuard(repo, 3, zap.NewNop())
	return guard, repo
}

func seedAccount(t *testing.T, repo Repository, username string) {
	err := repo.Create(&Account{
		Username:     username,
		PasswordHash: "x",
		TOTPSecret:   "y",
		Role:         RoleUser,
	})
	require.NoError(t, err)
}

func TestGuard_RecordFailure(t *testing.T) {
	guard, repo := newTestGuard(t)
	seedAccount(t, repo, "bob")

	tests := []struct {
		name          string
		wantRemaining int
		wantLocked    bool
	}{
		{name: "first failure", wantRemaining: 2, wantLocked: false},
		{name: "second failure", wantRemaining: 1, wantLocked: false},
		{name: "third failure locks", wantRemaining: 0, wantLocked: true},
		{name: "failure past the threshold stays locked", wantRemaining: 0, wantLocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, locked, err := guard.RecordFailure("bob")
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, remaining)
			assert.Equal(t, tt.wantLocked, locked)
		})
	}

	locked, err := guard.IsLocked("bob")
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestGuard_RecordFailure_UnknownAccount(t *testing.T) {
	guard, _ := newTestGuard(t)

	_, _, err := guard.RecordFailure("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGuard_RecordSuccess(t *testing.T) {
	guard, repo := newTestGuard(t)
	seedAccount(t, repo, "bob")

	_, _, err := guard.RecordFailure("bob")
	require.NoError(t, err)
	_, _, err = guard.RecordFailure("bob")
	require.NoError(t, err)

	require.NoError(t, guard.RecordSuccess("bob"))

	acct, err := repo.GetByUsername("bob")
	require.NoError(t, err)
	assert.Equal(t, 0, acct.FailedAttempts)
	assert.NotNil(t, acct.LastActive)
	assert.False(t, acct.Locked)
}

func TestGuard_AdminUnlock(t *testing.T) {
	guard, repo := newTestGuard(t)
	seedAccount(t, repo, "bob")

	for i := 0; i < 3; i++ {
		_, _, err := guard.RecordFailure("bob")
		require.NoError(t, err)
	}

	locked, err := guard.IsLocked("bob")
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, guard.AdminUnlock("bob"))

	acct, err := repo.GetByUsername("bob")
	require.NoError(t, err)
	assert.False(t, acct.Locked)
	assert.Equal(t, 0, acct.FailedAttempts)
}

func TestGuard_AdminLock(t *testing.T) {
	guard, repo := newTestGuard(t)
	seedAccount(t, repo, "bob")

	require.NoError(t, guard.AdminLock("bob"))

	locked, err := guard.IsLocked("bob")
	require.NoError(t, err)
	assert.True(t, locked)
}
