package query

import (
	"context"
	"time"

	"github.com/kodbank/kodbank/internal/cqrs"
	"github.com/kodbank/kodbank/internal/models"
)

// maxHistoryLimit caps how many ledger entries one history request returns.
const maxHistoryLimit = 50

// displayDateLayout renders the entry timestamp for the history view.
const displayDateLayout = "Jan 2, 2006, 3:04:05 PM"

// LedgerLister reads raw ledger entries for an account, newest first.
type LedgerLister interface {
	ListForAccount(ctx context.Context, accountID int64, limit int) ([]models.LedgerEntry, error)
}

// LedgerQueryService serves transaction history: bounded, newest first,
// each entry annotated with its direction relative to the caller and a
// display date.
type LedgerQueryService struct {
	ledger LedgerLister
}

func NewLedgerQueryService(ledger LedgerLister) *LedgerQueryService {
	return &LedgerQueryService{ledger: ledger}
}

func (s *LedgerQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.LedgerEntryView, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.ledger.ListForAccount(ctx, q.AccountID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]models.LedgerEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryToView(entry, q.AccountID))
	}
	return views, nil
}

// entryToView annotates one ledger entry relative to the querying account.
func entryToView(entry models.LedgerEntry, accountID int64) models.LedgerEntryView {
	direction := models.DirectionReceived
	if entry.SenderID == accountID {
		direction = models.DirectionSent
	}
	return models.LedgerEntryView{
		ID:             entry.ID,
		SenderID:       entry.SenderID,
		RecipientID:    entry.RecipientID,
		SenderEmail:    entry.SenderEmail,
		RecipientEmail: entry.RecipientEmail,
		Amount:         entry.Amount,
		Type:           entry.Type,
		Timestamp:      entry.Timestamp,
		Direction:      direction,
		Date:           time.Unix(entry.Timestamp, 0).UTC().Format(displayDateLayout),
	}
}
