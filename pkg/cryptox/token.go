package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResetTokenSize is the byte length of password reset tokens (256 bits of
// entropy, 64 hex characters on the wire).
const ResetTokenSize = 32

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, hex-encoded for transport (safe to embed in URLs
// and email bodies without further escaping).
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 digest of a token,
// hex-encoded. Rows are keyed by fingerprint so a database compromise does
// not by itself yield usable tokens.
//
// Tokens are high-entropy random values, not human passwords, so a fast
// cryptographic hash (rather than a slow KDF) is sufficient here and keeps
// the verification path cheap.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
