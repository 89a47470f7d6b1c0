package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		valid     bool
		message   string
	}{
		{"acceptable password", "Abcdef1!", true, ""},
		{"all character classes", "Str0ng&Secure", true, ""},
		{"too short", "Ab1!", false, "password must be at least 8 characters long"},
		{"no uppercase", "abcdef1!", false, "password must contain an uppercase letter"},
		{"no lowercase", "ABCDEF1!", false, "password must contain a lowercase letter"},
		{"no digit", "Abcdefg!", false, "password must contain a digit"},
		{"no special", "Abcdefg1", false, "password must contain a special character"},
		{"empty", "", false, "password must be at least 8 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidatePasswordStrength(tt.candidate)
			require.Equal(t, tt.valid, res.Valid)
			require.Equal(t, tt.message, res.Message)
		})
	}
}

func TestValidatePasswordStrength_FirstFailureWins(t *testing.T) {
	// "short" violates every rule; only the length failure is reported.
	res := ValidatePasswordStrength("short")
	require.False(t, res.Valid)
	require.Equal(t, "password must be at least 8 characters long", res.Message)

	// Once length passes, the uppercase rule is the next to fire even though
	// later rules would also fail.
	res = ValidatePasswordStrength("alllowercase")
	require.False(t, res.Valid)
	require.Equal(t, "password must contain an uppercase letter", res.Message)
}
