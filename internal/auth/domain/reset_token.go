package domain

import "time"

// ResetToken is a single-use, time-limited password reset token. Only the
// SHA-256 fingerprint of the token is stored; the plaintext exists solely in
// the reset link mailed to the user.
type ResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}
