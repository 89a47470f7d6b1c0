package store

import (
	"context"
	"errors"

	"github.com/silverbirch/portal/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	ResetTokens() ResetTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step operations that must be atomic
	// (e.g. superseding a user's reset tokens).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and reset requests.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePassword sets the password_hash and the reset-required flag in
	// one statement and bumps updated_at.
	UpdatePassword(ctx context.Context, userID, hash string, resetRequired bool) error

	// DeleteUser cascades to password_reset_tokens (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type ResetTokens interface {
	// CreateResetToken writes a new token row (token_hash is the SHA-256
	// fingerprint of the opaque token).
	CreateResetToken(ctx context.Context, t domain.ResetToken) error

	// GetActiveResetTokenByHash returns a not-yet-expired token by hash.
	// Expired rows are invisible here even before housekeeping removes
	// them.
	GetActiveResetTokenByHash(ctx context.Context, hash string) (domain.ResetToken, error)

	// DeleteResetTokensForUser removes every token for a user, enforcing
	// the one-active-token invariant on issuance.
	DeleteResetTokensForUser(ctx context.Context, userID string) error

	// DeleteResetTokenByHash removes a single token. Deleting an absent row
	// is not an error.
	DeleteResetTokenByHash(ctx context.Context, hash string) error

	// DeleteExpiredResetTokens is housekeeping; it only touches rows past
	// expiry.
	DeleteExpiredResetTokens(ctx context.Context) error
}
