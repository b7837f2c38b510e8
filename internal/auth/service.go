package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/pawmark/auth-service/internal/account"
	"github.com/pawmark/auth-service/internal/config"
	"github.com/pawmark/auth-service/internal/notify"
	"github.com/pawmark/auth-service/internal/session"
)

const (
	defaultMinPasswordLength = 8
	resetCodeTTL             = 15 * time.Minute
)

// Service composes the credential store, password and TOTP verifiers, the
// session manager and the account guard into the register / login / verify /
// logout / reset flows.
type Service struct {
	config   *config.AuthConfig
	log      *zap.Logger
	repo     account.Repository
	guard    *account.Guard
	sessions *session.Manager
	notifier notify.Notifier
	now      func() time.Time
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type ServiceOption func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	config *config.AuthConfig,
	log *zap.Logger,
	repo account.Repository,
	guard *account.Guard,
	sessions *session.Manager,
	notifier notify.Notifier,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		config:   config,
		log:      log,
		repo:     repo,
		guard:    guard,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the password policy, generates the TOTP shared secret,
// delivers enrollment material when a recovery contact is given, and only
// then persists the account. A delivery failure leaves no record behind.
func (s *Service) Register(username, password, recoveryContact string) (Enrollment, error) {
	if len(username) < 3 || len(username) > 32 {
		return Enrollment{}, fmt.Errorf("%w: username must be between 3 and 32 characters", ErrValidationFailed)
	}
	if err := s.validatePassword(password); err != nil {
		return Enrollment{}, err
	}

	if _, err := s.repo.GetByUsername(username); err == nil {
		return Enrollment{}, account.ErrAlreadyExists
	}

	enrollment, err := GenerateEnrollment(s.config.TOTPIssuer, username)
	if err != nil {
		return Enrollment{}, fmt.Errorf("generate totp secret: %w", err)
	}

	if recoveryContact != "" {
		if err := s.notifier.SendEnrollment(recoveryContact, username, enrollment.URI); err != nil {
			s.log.Warn("enrollment delivery failed, registration aborted",
				zap.String("username", username),
				zap.Error(err))
			return Enrollment{}, err
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Enrollment{}, fmt.Errorf("hash password: %w", err)
	}

	acct := &account.Account{
		Username:        username,
		PasswordHash:    hash,
		TOTPSecret:      enrollment.Secret,
		RecoveryContact: recoveryContact,
		Role:            account.RoleUser,
	}
	if err := s.repo.Create(acct); err != nil {
		return Enrollment{}, err
	}

	s.log.Info("account registered", zap.String("username", username))
	return enrollment, nil
}

// Login is the password step. On success it opens a pending session whose
// handle the client must bring back with a TOTP code. Unknown usernames and
// wrong passwords report identically; only the logs tell them apart.
func (s *Service) Login(username, password string) (string, error) {
	acct, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			// Burn a hash so the response time matches the mismatch path.
			HashPassword("dummy")
			s.log.Debug("login for unknown username", zap.String("username", username))
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if acct.Locked {
		return "", ErrAccountLocked
	}

	if !CheckPasswordHash(password, acct.PasswordHash) {
		_, locked, err := s.guard.RecordFailure(username)
		if err != nil {
			s.log.Error("failed to record login failure", zap.Error(err))
		}
		if locked {
			return "", ErrAccountLocked
		}
		s.log.Debug("login with wrong password", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	if err := s.guard.RecordSuccess(username); err != nil {
		s.log.Error("failed to reset login attempts", zap.Error(err))
	}

	return s.sessions.Start(username), nil
}

// VerifyTOTP is the second factor step. A valid code upgrades the pending
// session and yields a signed access token. Code failures never touch the
// lockout counter.
func (s *Service) VerifyTOTP(handle, code string) (string, error) {
	sess, err := s.sessions.Touch(handle)
	if err != nil {
		if errors.Is(err, session.ErrExpired) {
			return "", ErrSessionExpired
		}
		return "", ErrNotAuthenticated
	}

	acct, err := s.repo.GetByUsername(sess.Username)
	if err != nil {
		return "", err
	}

	if !ValidateTOTP(acct.TOTPSecret, code, s.now()) {
		s.log.Debug("totp verification failed", zap.String("username", sess.Username))
		return "", ErrInvalidCode
	}

	if err := s.sessions.Authenticate(handle); err != nil {
		return "", ErrNotAuthenticated
	}

	return s.GenerateToken(acct.Username, acct.Role)
}

// Logout ends the session; ending an unknown or already-ended handle is fine.
func (s *Service) Logout(handle string) {
	s.sessions.End(handle)
}

// RequestReset issues a single-use reset code with a bounded lifetime, stores
// it atomically, then delivers it out of band. No lock is held during
// delivery.
func (s *Service) RequestReset(username string) error {
	acct, err := s.repo.GetByUsername(username)
	if err != nil {
		return err
	}
	if acct.RecoveryContact == "" {
		return fmt.Errorf("%w: account has no recovery contact", ErrValidationFailed)
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	expiry := s.now().Add(resetCodeTTL)

	err = s.repo.Update(username, func(a *account.Account) error {
		a.ResetCode = code
		a.ResetCodeExpiry = &expiry
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.notifier.SendResetCode(acct.RecoveryContact, username, code); err != nil {
		s.log.Warn("reset code delivery failed",
			zap.String("username", username),
			zap.Error(err))
		return err
	}

	s.log.Info("reset code issued", zap.String("username", username))
	return nil
}

// ResetPassword consumes the code and commits the new hash in one atomic
// update. Expired or mismatched codes fail without mutating anything.
func (s *Service) ResetPassword(username, code, newPassword string) error {
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	return s.repo.Update(username, func(a *account.Account) error {
		if a.ResetCode == "" || a.ResetCode != code {
			return ErrInvalidCode
		}
		if a.ResetCodeExpiry == nil || now.After(*a.ResetCodeExpiry) {
			return ErrInvalidCode
		}

		a.PasswordHash = hash
		a.ResetCode = ""
		a.ResetCodeExpiry = nil
		return nil
	})
}

func (s *Service) GenerateToken(username, role string) (string, error) {
	expirationTime := s.now().Add(s.config.TokenExpiration)
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *Service) validatePassword(password string) error {
	minLength := s.config.MinPasswordLength
	if minLength <= 0 {
		minLength = defaultMinPasswordLength
	}
	if len(password) < minLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidationFailed, minLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain both letters and digits", ErrValidationFailed)
	}
	return nil
}

func generateResetCode() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
