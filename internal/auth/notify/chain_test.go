package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	name  string
	err   error
	calls int
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) SendPasswordReset(context.Context, string, string, string, time.Duration) error {
	s.calls++
	return s.err
}

func (s *stubNotifier) SendTemporaryPassword(context.Context, string, string, string) error {
	s.calls++
	return s.err
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	ctx := context.Background()

	first := &stubNotifier{name: "first"}
	second := &stubNotifier{name: "second"}
	chain := NewChain(first, second)

	err := chain.SendPasswordReset(ctx, "a@example.com", "A", "https://portal/reset", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, first.calls)
	require.Zero(t, second.calls)
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	ctx := context.Background()

	first := &stubNotifier{name: "first", err: errors.New("smtp down")}
	second := &stubNotifier{name: "second"}
	chain := NewChain(first, second)

	err := chain.SendTemporaryPassword(ctx, "a@example.com", "A", "temppass")
	require.NoError(t, err)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)
}

func TestChainSurfacesLastError(t *testing.T) {
	ctx := context.Background()

	lastErr := errors.New("disk full")
	first := &stubNotifier{name: "first", err: errors.New("smtp down")}
	second := &stubNotifier{name: "second", err: lastErr}
	chain := NewChain(first, second)

	err := chain.SendPasswordReset(ctx, "a@example.com", "A", "https://portal/reset", time.Hour)
	require.ErrorIs(t, err, lastErr)
}

func TestChainEmpty(t *testing.T) {
	chain := NewChain()
	err := chain.SendTemporaryPassword(context.Background(), "a@example.com", "A", "temppass")
	require.ErrorIs(t, err, ErrNoNotifiers)
}
