package models

import "github.com/shopspring/decimal"

// AccountView is the read-optimised projection of an account. It never
// exposes the credential hash.
type AccountView struct {
	AccountID int64           `json:"accountId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
}

// Ledger entry directions, computed relative to the querying account.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// LedgerEntryView is the read-optimised projection of a ledger entry,
// annotated with the direction relative to the querying account and a
// human-readable date string.
type LedgerEntryView struct {
	ID             int64           `json:"transactionId"`
	SenderID       int64           `json:"senderId"`
	RecipientID    int64           `json:"recipientId"`
	SenderEmail    string          `json:"senderEmail"`
	RecipientEmail string          `json:"recipientEmail"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"transactionType"`
	Timestamp      int64           `json:"timestamp"`
	Direction      string          `json:"direction"`
	Date           string          `json:"date"`
}
