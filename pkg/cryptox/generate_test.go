package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTemporaryPassword(t *testing.T) {
	for range 100 {
		password, err := GenerateTemporaryPassword()
		require.NoError(t, err)
		require.Len(t, password, TempPasswordLength)

		for _, char := range password {
			require.True(t, strings.ContainsRune(tempPasswordAlphabet, char),
				"character %q outside the unambiguous alphabet", char)
		}

		// The whole point of the alphabet: none of these can appear.
		require.NotContainsf(t, password, "0", "ambiguous character in %q", password)
		require.NotContainsf(t, password, "O", "ambiguous character in %q", password)
		require.NotContainsf(t, password, "1", "ambiguous character in %q", password)
		require.NotContainsf(t, password, "l", "ambiguous character in %q", password)
		require.NotContainsf(t, password, "I", "ambiguous character in %q", password)
	}
}

func TestGenerateTemporaryPassword_Uniqueness(t *testing.T) {
	const count = 100
	seen := make(map[string]bool, count)

	for range count {
		password, err := GenerateTemporaryPassword()
		require.NoError(t, err)
		require.NotContains(t, seen, password, "duplicate temporary password generated")
		seen[password] = true
	}
}

func TestGenerateTemporaryPassword_CanBeHashed(t *testing.T) {
	password, err := GenerateTemporaryPassword()
	require.NoError(t, err)

	stored, err := HashPassword(password)
	require.NoError(t, err)

	ok, err := VerifyPassword(password, stored)
	require.NoError(t, err)
	require.True(t, ok)
}
