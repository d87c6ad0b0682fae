package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// NewDB opens and verifies a PostgreSQL connection.
func NewDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitSchema creates the three tables on startup when they do not exist
// yet: accounts, tokens and ledger.
func InitSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			balance NUMERIC(20,2) NOT NULL DEFAULT 0.00,
			email TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tokens (
			id BIGSERIAL PRIMARY KEY,
			token_value TEXT NOT NULL,
			account_id BIGINT NOT NULL REFERENCES accounts(id),
			expires_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ledger (
			id BIGSERIAL PRIMARY KEY,
			sender_id BIGINT NOT NULL REFERENCES accounts(id),
			recipient_id BIGINT NOT NULL REFERENCES accounts(id),
			sender_email TEXT NOT NULL,
			recipient_email TEXT NOT NULL,
			amount NUMERIC(20,2) NOT NULL,
			type TEXT NOT NULL DEFAULT 'transfer',
			created_at BIGINT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialise schema: %w", err)
		}
	}
	return nil
}
