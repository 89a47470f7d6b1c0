package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/silverbirch/portal/internal/auth/domain"
	"github.com/silverbirch/portal/internal/auth/store"
	"github.com/silverbirch/portal/pkg/cryptox"
	"github.com/silverbirch/portal/pkg/slogx"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike; callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// WeakPasswordError reports why a candidate password was rejected. The
// reason is safe to show to the user.
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string { return e.Reason }

// CredentialService verifies and updates user credentials. Infrastructure
// failures (KDF, database) always propagate; they are never reported as a
// password mismatch.
type CredentialService struct {
	Store store.Store
}

// Authenticate checks an email/password pair and returns the user on
// success.
func (s *CredentialService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, err
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		log.Error("password verification failed", slog.Any("error", err))
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword rotates a user's password after checking the current one.
// Clears the reset-required flag, so this is also how temporary passwords
// are retired.
func (s *CredentialService) ChangePassword(ctx context.Context, userID, current, next string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return err
	}

	ok, err := cryptox.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		log.Error("password verification failed", slog.Any("error", err))
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	return s.setPassword(ctx, userID, next)
}

// ResetPassword sets a new password for a user who proved ownership through
// a reset token. The caller verifies the token first and invalidates it
// afterwards; this method only validates and stores the new credential.
func (s *CredentialService) ResetPassword(ctx context.Context, userID, next string) error {
	return s.setPassword(ctx, userID, next)
}

func (s *CredentialService) setPassword(ctx context.Context, userID, next string) error {
	log := slogx.FromContext(ctx)

	if res := cryptox.ValidatePasswordStrength(next); !res.Valid {
		return &WeakPasswordError{Reason: res.Message}
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return err
	}

	if err := s.Store.Users().UpdatePassword(ctx, userID, hash, false); err != nil {
		log.Error("failed to update password",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("password updated", slog.String("user_id", userID))
	return nil
}
