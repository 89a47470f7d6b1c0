package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/silverbirch/portal/internal/auth/domain"
	"github.com/silverbirch/portal/internal/auth/store"
	"github.com/silverbirch/portal/pkg/cryptox"
	"github.com/silverbirch/portal/pkg/idx"
	"github.com/silverbirch/portal/pkg/slogx"
)

var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidRole = errors.New("invalid role")
)

// UserService provisions accounts. New users always start with a generated
// temporary password and must change it on first login.
type UserService struct {
	Store store.Store
}

// CreateUser provisions an account and returns the user together with the
// plaintext temporary password. The plaintext exists only in the return
// value; the store holds its scrypt hash.
func (s *UserService) CreateUser(ctx context.Context, email, name, role string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if !domain.ValidRole(role) {
		return domain.User{}, "", ErrInvalidRole
	}

	tempPassword, err := cryptox.GenerateTemporaryPassword()
	if err != nil {
		log.Error("failed to generate temporary password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	hash, err := cryptox.HashPassword(tempPassword)
	if err != nil {
		log.Error("failed to hash temporary password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:                    idx.New().String(),
		Email:                 strings.ToLower(strings.TrimSpace(email)),
		Name:                  name,
		Role:                  role,
		PasswordHash:          hash,
		PasswordResetRequired: true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)

	return user, tempPassword, nil
}

// ReissueTemporaryPassword replaces a user's credential with a fresh
// temporary password and flags the account for a forced change. Used when
// the original provisioning email never arrived or the temporary password
// expired out of the admin's records.
func (s *UserService) ReissueTemporaryPassword(ctx context.Context, userID string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrUnknownUser
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	tempPassword, err := cryptox.GenerateTemporaryPassword()
	if err != nil {
		log.Error("failed to generate temporary password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	hash, err := cryptox.HashPassword(tempPassword)
	if err != nil {
		log.Error("failed to hash temporary password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	if err := s.Store.Users().UpdatePassword(ctx, userID, hash, true); err != nil {
		log.Error("failed to store temporary password",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return domain.User{}, "", err
	}

	log.Info("temporary password reissued", slog.String("user_id", userID))

	user.PasswordHash = hash
	user.PasswordResetRequired = true
	return user, tempPassword, nil
}

// GetUserByID fetches a single user.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnknownUser
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetUserByEmail fetches a single user by their email address.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnknownUser
		}
		return domain.User{}, err
	}
	return user, nil
}
