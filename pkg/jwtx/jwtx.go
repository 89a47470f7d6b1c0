// Package jwtx issues and verifies the portal's session tokens. Tokens are
// HS256-signed JWTs carrying the user id, role, and whether the account is
// still on a temporary password.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is used when no TTL is configured.
const DefaultAccessTokenTTL = 15 * time.Minute

var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claims are the portal session claims.
type Claims struct {
	jwt.RegisteredClaims

	Role          string `json:"role"`
	ResetRequired bool   `json:"pwd_reset,omitempty"`
}

// Tokens signs and verifies session tokens with a shared HMAC secret.
type Tokens struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (t *Tokens) ttl() time.Duration {
	if t.TTL == 0 {
		return DefaultAccessTokenTTL
	}
	return t.TTL
}

// AccessTokenTTL reports the effective token lifetime.
func (t *Tokens) AccessTokenTTL() time.Duration { return t.ttl() }

// Sign mints a session token for the given user.
func (t *Tokens) Sign(userID, role string, resetRequired bool) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl())),
		},
		Role:          role,
		ResetRequired: resetRequired,
	})

	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, checking the signature
// method, expiry, and issuer.
func (t *Tokens) Verify(raw string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(raw, &claims,
		func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", tok.Header["alg"])
			}
			return t.Secret, nil
		},
		jwt.WithIssuer(t.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
