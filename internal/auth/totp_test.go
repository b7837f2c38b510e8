package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEnrollment(t *testing.T) {
	enrollment, err := GenerateEnrollment("PawMark Auth", "alice")
	require.NoError(t, err)

	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.URI, "otpauth://totp/")
	assert.Contains(t, enrollment.URI, "alice")

	// Secrets are unique per enrollment.
	other, err := GenerateEnrollment("PawMark Auth", "alice")
	require.NoError(t, err)
	assert.NotEqual(t, enrollment.Secret, other.Secret)
}

func TestValidateTOTP(t *testing.T) {
	enrollment, err := GenerateEnrollment("PawMark Auth", "alice")
	require.NoError(t, err)

	now := time.Now()
	current, err := CurrentTOTP(enrollment.Secret, now)
	require.NoError(t, err)

	tests := []struct {
		name string
		code string
		at   time.Time
		want bool
	}{
		{
			name: "current code",
			code: current,
			at:   now,
			want: true,
		},
		{
			name: "code from one step back is inside the skew",
			code: mustCode(t, enrollment.Secret, now.Add(-30*time.Second)),
			at:   now,
			want: true,
		},
		{
			name: "code from ten minutes ago",
			code: mustCode(t, enrollment.Secret, now.Add(-10*time.Minute)),
			at:   now,
			want: false,
		},
		{
			name: "garbage code",
			code: "000000",
			at:   now,
			want: false,
		},
		{
			name: "current code checked ten minutes later",
			code: current,
			at:   now.Add(10 * time.Minute),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateTOTP(enrollment.Secret, tt.code, tt.at))
		})
	}
}

func mustCode(t *testing.T, secret string, at time.Time) string {
	code, err := CurrentTOTP(secret, at)
	require.NoError(t, err)
	return code
}
