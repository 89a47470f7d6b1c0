package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Configuration for scrypt key derivation.
const (
	scryptN    = 1 << 15 // CPU/memory cost parameter
	scryptR    = 8       // Block size parameter
	scryptP    = 1       // Parallelisation parameter
	keyLength  = 64      // Length of the derived key in bytes
	saltLength = 16      // Length of the salt in bytes
)

// HashPassword derives a storage-safe credential from a plaintext password
// using scrypt with a fresh random salt. The result has the form
// "<derivedKeyHex>.<saltHex>"; hashing the same password twice yields two
// different strings because the salt is regenerated on every call.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// VerifyPassword re-derives a key from the supplied password and the salt
// embedded in the stored credential, then compares the two derived keys in
// constant time.
//
// A malformed stored value returns (false, nil): the caller treats it as a
// mismatch, never as an infrastructure failure. A non-nil error is returned
// only when the KDF itself fails, and must not be reported as "password
// incorrect".
func VerifyPassword(password, stored string) (bool, error) {
	keyHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok {
		return false, nil
	}

	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, nil
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, nil
	}
	if len(expected) != keyLength {
		// Length mismatch would make the constant-time compare meaningless.
		return false, nil
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false, fmt.Errorf("failed to derive key: %w", err)
	}

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
