package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP settings: six digits over 30-second steps with a skew of one step, so
// a code from the immediately adjacent window is still accepted. Anything
// further off is rejected.
const (
	totpPeriod     = 30
	totpSkew       = 1
	totpSecretSize = 32 // bytes of secret entropy, well past 128 bits
)

var totpOpts = totp.ValidateOpts{
	Period:    totpPeriod,
	Skew:      totpSkew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Enrollment is the shared-secret material handed out once at registration.
type Enrollment struct {
	Secret string
	URI    string
}

// GenerateEnrollment creates a fresh base32 TOTP secret and the otpauth URI
// an authenticator app can consume.
func GenerateEnrollment(issuer, username string) (Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: username,
		SecretSize:  totpSecretSize,
	})
	if err != nil {
		return Enrollment{}, err
	}
	return Enrollment{
		Secret: key.Secret(),
		URI:    key.URL(),
	}, nil
}

// ValidateTOTP reports whether code matches the secret at time t within the
// configured skew. Verification failures carry no timing signal about the
// secret: the underlying comparison is HMAC-based and constant-time.
func ValidateTOTP(secret, code string, t time.Time) bool {
	valid, err := totp.ValidateCustom(code, secret, t, totpOpts)
	return err == nil && valid
}

// CurrentTOTP derives the code for the secret at time t. Used by the tests
// and by out-of-band code delivery.
func CurrentTOTP(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, totpOpts)
}
