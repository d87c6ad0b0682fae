package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kodbank/kodbank/internal/models"
)

// LedgerRepository reads the append-only transfer audit trail. Writes
// happen inside the transfer transaction (see TransferTx.AppendLedgerEntry);
// entries are never mutated or deleted once committed.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ListForAccount returns entries where the account is sender or recipient,
// newest first, bounded by limit.
func (r *LedgerRepository) ListForAccount(ctx context.Context, accountID int64, limit int) ([]models.LedgerEntry, error) {
	query := `
		SELECT id, sender_id, recipient_id, sender_email, recipient_email, amount, type, created_at
		FROM ledger
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		if err := rows.Scan(
			&entry.ID, &entry.SenderID, &entry.RecipientID,
			&entry.SenderEmail, &entry.RecipientEmail,
			&entry.Amount, &entry.Type, &entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}
