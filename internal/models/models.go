package models

import "github.com/shopspring/decimal"

func init() {
	// Balances and amounts are serialised as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Account is the write model for a customer record. PasswordHash is never
// serialised to API responses.
type Account struct {
	ID           int64           `json:"accountId"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`
	Email        string          `json:"email"`
}

// SessionToken is one issued bearer credential. An account may hold any
// number of concurrent tokens (one per device/session).
type SessionToken struct {
	ID        int64  `json:"id"`
	Value     string `json:"-"`
	AccountID int64  `json:"accountId"`
	ExpiresAt int64  `json:"expiresAt"`
}

// LedgerEntry is one immutable audit record of a completed transfer.
// Emails are snapshots taken at transfer time and do not follow later
// email changes.
type LedgerEntry struct {
	ID             int64           `json:"transactionId"`
	SenderID       int64           `json:"senderId"`
	RecipientID    int64           `json:"recipientId"`
	SenderEmail    string          `json:"senderEmail"`
	RecipientEmail string          `json:"recipientEmail"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"transactionType"`
	Timestamp      int64           `json:"timestamp"`
}

// EntryTypeTransfer is the only ledger classification produced in scope.
const EntryTypeTransfer = "transfer"

// TransferResult is what the transfer engine hands back to the caller on
// success.
type TransferResult struct {
	NewBalance    decimal.Decimal `json:"newBalance"`
	RecipientName string          `json:"recipientName"`
}

// LoginResult carries the minted token plus the account snapshot returned
// by the login endpoint.
type LoginResult struct {
	Token   string      `json:"token"`
	Account AccountView `json:"user"`
}
