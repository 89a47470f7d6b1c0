package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTokens() *Tokens {
	return &Tokens{
		Secret: []byte("test-secret"),
		Issuer: "portal-auth-test",
		TTL:    time.Minute,
	}
}

func TestSignAndVerify(t *testing.T) {
	tokens := newTokens()

	raw, err := tokens.Sign("user-1", "manager", false)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "manager", claims.Role)
	require.False(t, claims.ResetRequired)
}

func TestVerify_ResetRequiredFlag(t *testing.T) {
	tokens := newTokens()

	raw, err := tokens.Sign("user-2", "client", true)
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	require.True(t, claims.ResetRequired)
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, err := newTokens().Sign("user-1", "admin", false)
	require.NoError(t, err)

	other := &Tokens{Secret: []byte("different-secret"), Issuer: "portal-auth-test"}
	_, err = other.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongIssuer(t *testing.T) {
	raw, err := newTokens().Sign("user-1", "admin", false)
	require.NoError(t, err)

	other := &Tokens{Secret: []byte("test-secret"), Issuer: "someone-else"}
	_, err = other.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	tokens := &Tokens{
		Secret: []byte("test-secret"),
		Issuer: "portal-auth-test",
		TTL:    -time.Minute,
	}

	raw, err := tokens.Sign("user-1", "admin", false)
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := newTokens().Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
