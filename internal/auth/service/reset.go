package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/silverbirch/portal/internal/auth/domain"
	"github.com/silverbirch/portal/internal/auth/store"
	"github.com/silverbirch/portal/pkg/cryptox"
	"github.com/silverbirch/portal/pkg/idx"
	"github.com/silverbirch/portal/pkg/slogx"
)

// DefaultResetTokenValidity is how long a reset token stays usable unless
// configured otherwise.
const DefaultResetTokenValidity = 60 * time.Minute

var (
	// ErrTokenInvalid covers missing, expired, and mismatched tokens
	// uniformly so callers cannot distinguish the cases.
	ErrTokenInvalid = errors.New("reset token invalid or expired")

	ErrUnknownUser = errors.New("unknown user")
)

// ResetService owns the reset token lifecycle: issue, verify, invalidate,
// sweep. Per user there is at most one valid token; issuing supersedes any
// prior token atomically.
type ResetService struct {
	Store    store.Store
	Validity time.Duration
}

func (s *ResetService) validity() time.Duration {
	if s.Validity <= 0 {
		return DefaultResetTokenValidity
	}
	return s.Validity
}

// ValidityPeriod reports how long freshly issued tokens remain valid, for
// callers composing user-facing messages ("this link expires in N minutes").
func (s *ResetService) ValidityPeriod() time.Duration {
	return s.validity()
}

// Issue creates a reset token for the user and returns the plaintext value.
// Only the SHA-256 fingerprint is persisted; the caller must embed the
// plaintext in a delivery mechanism immediately and not retain it.
//
// Deleting prior tokens and inserting the new one happen in a single
// transaction, so two concurrent issues for the same user cannot leave zero
// or two valid tokens behind.
func (s *ResetService) Issue(ctx context.Context, userID string) (string, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnknownUser
		}
		log.Error("failed to fetch user for reset token", slog.Any("error", err))
		return "", err
	}

	token, err := cryptox.GenerateToken(cryptox.ResetTokenSize)
	if err != nil {
		log.Error("failed to generate reset token", slog.Any("error", err))
		return "", err
	}

	now := time.Now().UTC()
	record := domain.ResetToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.validity()),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ResetTokens().DeleteResetTokensForUser(ctx, userID); err != nil {
			return err
		}
		return tx.ResetTokens().CreateResetToken(ctx, record)
	})
	if err != nil {
		log.Error("failed to persist reset token",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Debug("reset token issued",
		slog.String("user_id", userID),
		slog.Time("expires_at", record.ExpiresAt),
	)

	// The raw token, never the fingerprint.
	return token, nil
}

// Verify resolves a plaintext token to its owning user id. Missing, expired,
// and mismatched tokens all return ErrTokenInvalid. Verification does not
// consume the token; Invalidate is a separate step the caller performs after
// completing the reset.
func (s *ResetService) Verify(ctx context.Context, token string) (string, error) {
	fingerprint := cryptox.FingerprintToken(token)

	record, err := s.Store.ResetTokens().GetActiveResetTokenByHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrTokenInvalid
		}
		slogx.FromContext(ctx).Error("failed to look up reset token", slog.Any("error", err))
		return "", err
	}

	return record.UserID, nil
}

// Invalidate removes a token after use. Idempotent: invalidating an unknown
// or already-removed token succeeds.
func (s *ResetService) Invalidate(ctx context.Context, token string) error {
	return s.Store.ResetTokens().DeleteResetTokenByHash(ctx, cryptox.FingerprintToken(token))
}

// SweepExpired deletes every token past its expiry, regardless of owner.
// Safe to run concurrently with issue/verify/invalidate since it only
// touches rows that are already invisible to verification.
func (s *ResetService) SweepExpired(ctx context.Context) error {
	return s.Store.ResetTokens().DeleteExpiredResetTokens(ctx)
}
