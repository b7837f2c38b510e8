package account

import (
	"time"

	"gorm.io/gorm"
)

// Roles recognized by the admin middleware.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is one registered user plus its security metadata. Username is
// immutable after creation; PasswordHash and TOTPSecret never hold plaintext
// material.
type Account struct {
	ID              uint   `gorm:"primaryKey"`
	Username        string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	TOTPSecret      string `gorm:"not null"`
	RecoveryContact string
	Role            string `gorm:"default:user"`
	FailedAttempts  int    `gorm:"not null;default:0"`
	Locked          bool   `gorm:"not null;default:false"`
	LastActive      *time.Time
	ResetCode       string
	ResetCodeExpiry *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Account) TableName() string {
	return "accounts"
}
