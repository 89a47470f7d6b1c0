package cryptox

import (
	"crypto/rand"
	"fmt"
)

// TempPasswordLength is the fixed length of generated temporary passwords.
const TempPasswordLength = 10

// tempPasswordAlphabet excludes visually ambiguous characters (0/O/o,
// 1/l/I/i) so the value survives being read over the phone or typed from a
// printout.
const tempPasswordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTemporaryPassword produces a random password suitable for manual
// transcription. Each output character is drawn from the unambiguous
// alphabet by reducing a CSPRNG byte modulo the alphabet size.
//
// The value is handed to HashPassword for storage and shown or mailed to the
// account holder exactly once; it is never persisted in plaintext.
func GenerateTemporaryPassword() (string, error) {
	buf := make([]byte, TempPasswordLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}

	out := make([]byte, TempPasswordLength)
	for i, b := range buf {
		out[i] = tempPasswordAlphabet[int(b)%len(tempPasswordAlphabet)]
	}
	return string(out), nil
}
