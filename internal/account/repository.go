package account

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("account not found")
	ErrAlreadyExists = errors.New("account already exists")
)

// Repository owns Account records. Update serializes mutations per username
// so concurrent requests cannot lose writes to the attempt counter or lock
// state.
type Repository interface {
	Create(acct *Account) error
	GetByUsername(username string) (*Account, error)
	Update(username string, mutate func(*Account) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(acct *Account) error {
	if _, err := r.GetByUsername(acct.Username); err == nil {
		return ErrAlreadyExists
	}
	if err := r.db.Create(acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *repository) GetByUsername(username string) (*Account, error) {
	var acct Account
	if err := r.db.Where("username = ?", username).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acct, nil
}

// Update runs mutate inside a transaction holding a row lock on the account,
// then writes the mutated fields back.
func (r *repository) Update(username string, mutate func(*Account) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var acct Account
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("username = ?", username).
			First(&acct).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := mutate(&acct); err != nil {
			return err
		}

		return tx.Save(&acct).Error
	})
}
