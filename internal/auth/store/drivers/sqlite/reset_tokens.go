package sqlite

import (
	"context"
	"time"

	"github.com/silverbirch/portal/internal/auth/domain"
)

type resetTokensRepo struct {
	db dbtx
}

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.ResetToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (id, user_id, token_hash, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.CreatedAt.UTC(), t.ExpiresAt.UTC())
	return mapConstraint(err)
}

func (r *resetTokensRepo) GetActiveResetTokenByHash(
	ctx context.Context,
	hash string,
) (domain.ResetToken, error) {
	// Valid only while now < expires_at; expired rows are indistinguishable
	// from absent ones.
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, created_at, expires_at
		 FROM password_reset_tokens
		 WHERE token_hash = ? AND expires_at > ?`,
		hash, time.Now().UTC())

	var t domain.ResetToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return domain.ResetToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *resetTokensRepo) DeleteResetTokensForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE user_id = ?`, userID)
	return err
}

func (r *resetTokensRepo) DeleteResetTokenByHash(ctx context.Context, hash string) error {
	// Idempotent: deleting an absent row is not an error.
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE token_hash = ?`, hash)
	return err
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
