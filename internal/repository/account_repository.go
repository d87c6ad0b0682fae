package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kodbank/kodbank/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

// Create inserts a new account and returns its assigned id. A duplicate
// email surfaces as models.ErrDuplicateEmail.
func (r *AccountWriteRepository) Create(account *models.Account) (int64, error) {
	query := `
		INSERT INTO accounts (name, password_hash, email, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(query, account.Name, account.PasswordHash, account.Email, account.Balance).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return 0, models.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to create account: %w", err)
	}
	return id, nil
}

func (r *AccountWriteRepository) GetByID(id int64) (*models.Account, error) {
	query := `SELECT id, name, password_hash, balance, email FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRow(query, id))
}

func (r *AccountWriteRepository) GetByEmail(email string) (*models.Account, error) {
	query := `SELECT id, name, password_hash, balance, email FROM accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRow(query, email))
}

// AdjustBalance applies a signed delta to the stored balance. Sufficiency
// is the transfer engine's responsibility; the store does not enforce
// non-negativity on its own.
func (r *AccountWriteRepository) AdjustBalance(id int64, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $2 WHERE id = $1`
	result, err := r.db.Exec(query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (r *AccountWriteRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.ID, &account.Name, &account.PasswordHash, &account.Balance, &account.Email)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// TransferStore opens the atomic unit of work the transfer engine runs in.
type TransferStore interface {
	BeginTransfer(ctx context.Context) (TransferTx, error)
}

// TransferTx is one in-flight transfer transaction. Account lookups take
// row locks so that concurrent transfers touching the same accounts are
// serialised instead of racing on the balance.
type TransferTx interface {
	LockAccountByID(id int64) (*models.Account, error)
	LockAccountByEmail(email string) (*models.Account, error)
	ApplyBalanceDelta(id int64, delta decimal.Decimal) error
	AccountBalance(id int64) (decimal.Decimal, error)
	AppendLedgerEntry(entry *models.LedgerEntry) (int64, error)
	Commit() error
	Rollback() error
}

// BeginTransfer starts a transfer transaction against the write store.
func (r *AccountWriteRepository) BeginTransfer(ctx context.Context) (TransferTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transfer transaction: %w", err)
	}
	return &transferTx{tx: tx}, nil
}

type transferTx struct {
	tx *sql.Tx
}

func (t *transferTx) LockAccountByID(id int64) (*models.Account, error) {
	query := `SELECT id, name, password_hash, balance, email FROM accounts WHERE id = $1 FOR UPDATE`
	return scanTxAccount(t.tx.QueryRow(query, id))
}

func (t *transferTx) LockAccountByEmail(email string) (*models.Account, error) {
	query := `SELECT id, name, password_hash, balance, email FROM accounts WHERE email = $1 FOR UPDATE`
	return scanTxAccount(t.tx.QueryRow(query, email))
}

func (t *transferTx) ApplyBalanceDelta(id int64, delta decimal.Decimal) error {
	result, err := t.tx.Exec(`UPDATE accounts SET balance = balance + $2 WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (t *transferTx) AccountBalance(id int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := t.tx.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, id).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, models.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// AppendLedgerEntry writes the audit record inside the same transaction as
// the balance mutation, so both commit or roll back together.
func (t *transferTx) AppendLedgerEntry(entry *models.LedgerEntry) (int64, error) {
	query := `
		INSERT INTO ledger (sender_id, recipient_id, sender_email, recipient_email, amount, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(query,
		entry.SenderID, entry.RecipientID, entry.SenderEmail, entry.RecipientEmail,
		entry.Amount, entry.Type, entry.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return id, nil
}

func (t *transferTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

func (t *transferTx) Rollback() error {
	return t.tx.Rollback()
}

func scanTxAccount(row *sql.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.ID, &account.Name, &account.PasswordHash, &account.Balance, &account.Email)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
