package sqlite

import (
	"context"

	"github.com/clinicore/clinicore/internal/auth/domain"
)

type revokedTokensRepo struct {
	db dbtx
}

// Revoke inserts the revocation record. INSERT OR IGNORE keeps revocation
// idempotent: concurrent or repeated revocations of the same jti converge on
// a single row.
func (r *revokedTokensRepo) Revoke(ctx context.Context, t domain.RevokedToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO revoked_tokens (jti, expires_at)
		VALUES (?, ?)`,
		t.JTI, t.ExpiresAt,
	)
	return err
}

func (r *revokedTokensRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *revokedTokensRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < CURRENT_TIMESTAMP`)
	return err
}
