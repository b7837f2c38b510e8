package auth

import "errors"

// Outcome taxonomy for the authentication flows. Account-store errors
// (account.ErrNotFound, account.ErrAlreadyExists) and delivery errors
// (notify.ErrDeliveryFailed) complete the set.
var (
	// ErrInvalidCredentials covers both unknown username and wrong password
	// so the API cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCode        = errors.New("invalid code")
	ErrValidationFailed   = errors.New("validation failed")
)
