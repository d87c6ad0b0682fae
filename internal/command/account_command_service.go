package command

import (
	"context"
	"fmt"
	"log"

	"github.com/kodbank/kodbank/internal/cqrs"
	"github.com/kodbank/kodbank/internal/events"
	"github.com/kodbank/kodbank/internal/models"
	"github.com/kodbank/kodbank/internal/utils"
)

// AccountCreator is the write-store operation registration depends on.
type AccountCreator interface {
	Create(account *models.Account) (int64, error)
}

// AccountViewCacher warms the read model for a freshly created account.
type AccountViewCacher interface {
	CacheAccountView(ctx context.Context, view *models.AccountView)
	AccountViewRefresher
}

// AccountCommandService creates accounts and keeps the read model in sync.
type AccountCommandService struct {
	accounts  AccountCreator
	readRepo  AccountViewCacher
	publisher EventPublisher
}

func NewAccountCommandService(accounts AccountCreator, readRepo AccountViewCacher, publisher EventPublisher) *AccountCommandService {
	return &AccountCommandService{
		accounts:  accounts,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

// Register hashes the credential, creates the account row and returns the
// assigned id. Email uniqueness is enforced by the store
// (models.ErrDuplicateEmail).
func (s *AccountCommandService) Register(ctx context.Context, cmd cqrs.RegisterCommand) (int64, error) {
	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Name:         cmd.Name,
		PasswordHash: hash,
		Email:        cmd.Email,
		Balance:      cmd.InitialBalance,
	}
	id, err := s.accounts.Create(account)
	if err != nil {
		return 0, err
	}

	s.readRepo.CacheAccountView(ctx, &models.AccountView{
		AccountID: id,
		Name:      cmd.Name,
		Email:     cmd.Email,
		Balance:   cmd.InitialBalance,
	})
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountRegistered, events.AccountRegisteredEvent{
		AccountID: id,
		Name:      cmd.Name,
		Email:     cmd.Email,
	}); err != nil {
		log.Printf("Failed to publish account.registered event: %v", err)
	}
	return id, nil
}

// HandleTransferEvent resyncs the cached account views of both parties when
// a transfer completes. Balances are mutated inside the transfer
// transaction itself, so this consumer only repairs the read model (for
// example after a crash between commit and the engine's own refresh).
func (s *AccountCommandService) HandleTransferEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.TransferCompleted {
		return nil
	}
	data, err := decodeTransferCompleted(event)
	if err != nil {
		return err
	}
	if err := s.readRepo.RefreshAccountView(ctx, data.SenderID); err != nil {
		return fmt.Errorf("failed to refresh sender view: %w", err)
	}
	if err := s.readRepo.RefreshAccountView(ctx, data.RecipientID); err != nil {
		return fmt.Errorf("failed to refresh recipient view: %w", err)
	}
	return nil
}
