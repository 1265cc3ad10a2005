package repository

import (
	"context"
)

type revokedTokenRepository struct {
	db DB
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token=$1)`

	var revoked bool
	if err := r.db.QueryRow(ctx, query, token).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, token string) (bool, error) {
	const query = `INSERT INTO revoked_tokens (token) VALUES ($1) ON CONFLICT (token) DO NOTHING`

	cmd, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return false, err
	}
	// Zero rows inserted means the token was already in the set.
	return cmd.RowsAffected() == 0, nil
}
