package account

import (
	"time"

	"go.uber.org/zap"
)

const DefaultMaxAttempts = 3

// Guard enforces the lockout policy: consecutive failed password checks lock
// the account at the configured threshold, and only an admin override clears
// the lock. TOTP failures never pass through the guard.
type Guard struct {
	repo        Repository
	maxAttempts int
	log         *zap.Logger
}

func NewGuard(repo Repository, maxAttempts int, log *zap.Logger) *Guard {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Guard{
		repo:        repo,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// RecordFailure increments the failed-attempt counter and locks the account
// when the threshold is reached. It reports the remaining attempts and
// whether the account is now locked.
func (g *Guard) RecordFailure(username string) (remaining int, locked bool, err error) {
	err = g.repo.Update(username, func(acct *Account) error {
		acct.FailedAttempts++
		if acct.FailedAttempts >= g.maxAttempts {
			acct.Locked = true
		}
		remaining = g.maxAttempts - acct.FailedAttempts
		if remaining < 0 {
			remaining = 0
		}
		locked = acct.Locked
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	if locked {
		g.log.Warn("account locked after repeated failures",
			zap.String("username", username),
			zap.Int("max_attempts", g.maxAttempts))
	}
	return remaining, locked, nil
}

// RecordSuccess resets the counter and stamps the last successful login.
func (g *Guard) RecordSuccess(username string) error {
	return g.repo.Update(username, func(acct *Account) error {
		acct.FailedAttempts = 0
		now := time.Now()
		acct.LastActive = &now
		return nil
	})
}

func (g *Guard) IsLocked(username string) (bool, error) {
	acct, err := g.repo.GetByUsername(username)
	if err != nil {
		return false, err
	}
	return acct.Locked, nil
}

// AdminLock locks the account regardless of the attempt counter.
func (g *Guard) AdminLock(username string) error {
	return g.repo.Update(username, func(acct *Account) error {
		acct.Locked = true
		return nil
	})
}

// AdminUnlock clears the lock and the attempt counter.
func (g *Guard) AdminUnlock(username string) error {
	return g.repo.Update(username, func(acct *Account) error {
		acct.Locked = false
		acct.FailedAttempts = 0
		return nil
	})
}
