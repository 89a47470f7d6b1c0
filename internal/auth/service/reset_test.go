package service

import (
	"context"
	"testing"
	"time"

	"github.com/silverbirch/portal/internal/auth/domain"
	"github.com/silverbirch/portal/internal/auth/store"
	"github.com/silverbirch/portal/internal/auth/store/drivers/sqlite"
	"github.com/silverbirch/portal/pkg/cryptox"
	"github.com/silverbirch/portal/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, email, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		Role:         domain.RoleClient,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func TestResetServiceIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "alice@example.com", "Sup3r$ecret")

	svc := &ResetService{Store: st}

	token, err := svc.Issue(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, token, cryptox.ResetTokenSize*2)

	userID, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	// Verification does not consume the token.
	userID, err = svc.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

func TestResetServiceIssueUnknownUser(t *testing.T) {
	st := newTestStore(t)
	svc := &ResetService{Store: st}

	_, err := svc.Issue(context.Background(), idx.New().String())
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestResetServiceIssueSupersedesPriorToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "bob@example.com", "Sup3r$ecret")

	svc := &ResetService{Store: st}

	first, err := svc.Issue(ctx, user.ID)
	require.NoError(t, err)

	second, err := svc.Issue(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = svc.Verify(ctx, first)
	require.ErrorIs(t, err, ErrTokenInvalid)

	userID, err := svc.Verify(ctx, second)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

func TestResetServiceVerifyRejectsUnknownAndExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "carol@example.com", "Sup3r$ecret")

	svc := &ResetService{Store: st}

	_, err := svc.Verify(ctx, "deadbeef")
	require.ErrorIs(t, err, ErrTokenInvalid)

	// Insert an already-expired token directly; Verify must treat it the
	// same as a missing one.
	expired := "expired-token-plaintext"
	now := time.Now().UTC()
	require.NoError(t, st.ResetTokens().CreateResetToken(ctx, domain.ResetToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(expired),
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}))

	_, err = svc.Verify(ctx, expired)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResetServiceInvalidateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "dave@example.com", "Sup3r$ecret")

	svc := &ResetService{Store: st}

	token, err := svc.Issue(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, token))

	_, err = svc.Verify(ctx, token)
	require.ErrorIs(t, err, ErrTokenInvalid)

	// Second invalidation of the same token succeeds.
	require.NoError(t, svc.Invalidate(ctx, token))
	// So does invalidating a token that never existed.
	require.NoError(t, svc.Invalidate(ctx, "no-such-token"))
}

func TestResetServiceSweepExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := seedUser(t, st, "alice@example.com", "Sup3r$ecret")
	bob := seedUser(t, st, "bob@example.com", "Sup3r$ecret")

	svc := &ResetService{Store: st}

	live, err := svc.Issue(ctx, alice.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, st.ResetTokens().CreateResetToken(ctx, domain.ResetToken{
		ID:        idx.New().String(),
		UserID:    bob.ID,
		TokenHash: cryptox.FingerprintToken("stale-token"),
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Minute),
	}))

	require.NoError(t, svc.SweepExpired(ctx))

	// The live token survives the sweep.
	userID, err := svc.Verify(ctx, live)
	require.NoError(t, err)
	require.Equal(t, alice.ID, userID)
}

func TestResetServiceValidityPeriod(t *testing.T) {
	svc := &ResetService{}
	require.Equal(t, DefaultResetTokenValidity, svc.ValidityPeriod())

	svc = &ResetService{Validity: 5 * time.Minute}
	require.Equal(t, 5*time.Minute, svc.ValidityPeriod())
}
