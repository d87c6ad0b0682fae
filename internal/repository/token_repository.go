package repository

import (
	"database/sql"
	"fmt"
)

// TokenRepository persists issued session tokens for bookkeeping and
// revocation. It is never consulted to authorise requests; signature and
// expiry checks happen at the authentication boundary.
type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Issue records one token row. Multiple live tokens per account are
// allowed; each login adds its own row.
func (r *TokenRepository) Issue(accountID int64, token string, expiresAt int64) error {
	query := `INSERT INTO tokens (token_value, account_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(query, token, accountID, expiresAt); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Revoke deletes the matching token row. Revoking an absent token is not
// an error.
func (r *TokenRepository) Revoke(token string) error {
	if _, err := r.db.Exec(`DELETE FROM tokens WHERE token_value = $1`, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
