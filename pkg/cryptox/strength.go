package cryptox

import (
	"strings"
	"unicode"
)

// SpecialCharacters is the punctuation set accepted by the strength
// validator.
const SpecialCharacters = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

const digits = "0123456789"

// StrengthResult reports the outcome of a password strength check. Message
// is set only when Valid is false and names the first rule that failed.
type StrengthResult struct {
	Valid   bool
	Message string
}

// ValidatePasswordStrength gatekeeps user-chosen passwords before they are
// accepted. Rules are checked in a fixed order and the check returns on the
// first failure, so a short password reports only its length problem even
// when it also lacks composition. Callers rendering user feedback rely on
// that ordering.
func ValidatePasswordStrength(candidate string) StrengthResult {
	if len(candidate) < 8 {
		return StrengthResult{Message: "password must be at least 8 characters long"}
	}
	if !strings.ContainsFunc(candidate, unicode.IsUpper) {
		return StrengthResult{Message: "password must contain an uppercase letter"}
	}
	if !strings.ContainsFunc(candidate, unicode.IsLower) {
		return StrengthResult{Message: "password must contain a lowercase letter"}
	}
	if !strings.ContainsAny(candidate, digits) {
		return StrengthResult{Message: "password must contain a digit"}
	}
	if !strings.ContainsAny(candidate, SpecialCharacters) {
		return StrengthResult{Message: "password must contain a special character"}
	}
	return StrengthResult{Valid: true}
}
