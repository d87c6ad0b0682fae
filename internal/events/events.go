package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	AccountRegistered = "account.registered"
	TransferCompleted = "transfer.completed"
)

// Stream names
const (
	AccountEventsStream = "account.events"
	LedgerEventsStream  = "ledger.events"
)

// Event is the envelope written to Redis Streams.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountRegisteredEvent struct {
	AccountID int64  `json:"accountId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

type TransferCompletedEvent struct {
	EntryID     int64           `json:"entryId"`
	SenderID    int64           `json:"senderId"`
	RecipientID int64           `json:"recipientId"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   int64           `json:"timestamp"`
}
