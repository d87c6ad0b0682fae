package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kodbank/kodbank/internal/cqrs"
	"github.com/kodbank/kodbank/internal/events"
	"github.com/kodbank/kodbank/internal/models"
	"github.com/kodbank/kodbank/internal/repository"
)

// AccountViewRefresher keeps the Redis read model in step with the write
// store after a balance mutation.
type AccountViewRefresher interface {
	RefreshAccountView(ctx context.Context, id int64) error
}

// EventPublisher emits domain events to Redis Streams.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransferCommandService is the transfer engine. It validates a requested
// balance movement in a fixed fail-fast order, applies it atomically under
// row locks, and appends the ledger record within the same transaction.
type TransferCommandService struct {
	store     repository.TransferStore
	readRepo  AccountViewRefresher
	publisher EventPublisher
}

func NewTransferCommandService(
	store repository.TransferStore,
	readRepo AccountViewRefresher,
	publisher EventPublisher,
) *TransferCommandService {
	return &TransferCommandService{
		store:     store,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

// Transfer moves cmd.Amount from the caller to the account registered under
// cmd.RecipientEmail. Validation order, first failing check wins:
// amount > 0, sender exists, sufficient funds, recipient exists, recipient
// is not the sender. Nothing is persisted unless every check passes and the
// transaction commits.
func (s *TransferCommandService) Transfer(ctx context.Context, cmd cqrs.TransferCommand) (*models.TransferResult, error) {
	if !cmd.Amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	tx, err := s.store.BeginTransfer(ctx)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	defer tx.Rollback()

	sender, err := tx.LockAccountByID(cmd.SenderID)
	if errors.Is(err, models.ErrAccountNotFound) {
		// Unreachable with a valid token, kept as a defence.
		return nil, models.ErrSenderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	if sender.Balance.LessThan(cmd.Amount) {
		return nil, models.ErrInsufficientFunds
	}

	recipient, err := tx.LockAccountByEmail(cmd.RecipientEmail)
	if errors.Is(err, models.ErrAccountNotFound) {
		return nil, models.ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	if recipient.ID == sender.ID {
		return nil, models.ErrSelfTransfer
	}

	if err := tx.ApplyBalanceDelta(sender.ID, cmd.Amount.Neg()); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	if err := tx.ApplyBalanceDelta(recipient.ID, cmd.Amount); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	newBalance, err := tx.AccountBalance(sender.ID)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	entry := &models.LedgerEntry{
		SenderID:       sender.ID,
		RecipientID:    recipient.ID,
		SenderEmail:    sender.Email,
		RecipientEmail: recipient.Email,
		Amount:         cmd.Amount,
		Type:           models.EntryTypeTransfer,
		Timestamp:      time.Now().Unix(),
	}
	entryID, err := tx.AppendLedgerEntry(entry)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	// Post-commit: read model refresh and event publication must not fail
	// the already-committed transfer.
	if err := s.readRepo.RefreshAccountView(ctx, sender.ID); err != nil {
		log.Printf("Failed to refresh sender view %d: %v", sender.ID, err)
	}
	if err := s.readRepo.RefreshAccountView(ctx, recipient.ID); err != nil {
		log.Printf("Failed to refresh recipient view %d: %v", recipient.ID, err)
	}
	if err := s.publisher.Publish(ctx, events.LedgerEventsStream, events.TransferCompleted, events.TransferCompletedEvent{
		EntryID:     entryID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Amount:      cmd.Amount,
		Timestamp:   entry.Timestamp,
	}); err != nil {
		log.Printf("Failed to publish transfer.completed event: %v", err)
	}

	return &models.TransferResult{
		NewBalance:    newBalance,
		RecipientName: recipient.Name,
	}, nil
}
