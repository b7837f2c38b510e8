package account

import (
	"sync"
)

// MockRepository is an in-memory Repository used by tests and available to
// other packages' tests.
type MockRepository struct {
	accounts map[string]*Account
	mu       sync.Mutex
	nextID   uint
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		accounts: make(map[string]*Account),
	}
}

func (r *MockRepository) Create(acct *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[acct.Username]; exists {
		return ErrAlreadyExists
	}

	r.nextID++
	stored := *acct
	stored.ID = r.nextID
	r.accounts[acct.Username] = &stored
	return nil
}

func (r *MockRepository) GetByUsername(username string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, exists := r.accounts[username]
	if !exists {
		return nil, ErrNotFound
	}

	// Copy so callers cannot mutate stored state without Update.
	out := *acct
	return &out, nil
}

func (r *MockRepository) Update(username string, mutate func(*Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, exists := r.accounts[username]
	if !exists {
		return ErrNotFound
	}

	working := *acct
	if err := mutate(&working); err != nil {
		return err
	}

	r.accounts[username] = &working
	return nil
}
