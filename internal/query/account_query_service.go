package query

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kodbank/kodbank/internal/cqrs"
	"github.com/kodbank/kodbank/internal/models"
)

// AccountViewReader serves account projections from the read model.
type AccountViewReader interface {
	GetByID(ctx context.Context, id int64) (*models.AccountView, error)
}

type AccountQueryService struct {
	readRepo AccountViewReader
}

func NewAccountQueryService(readRepo AccountViewReader) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo}
}

// GetUser fetches the caller's account snapshot. The caller is already
// authenticated, so no further ownership check is needed.
func (s *AccountQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.AccountView, error) {
	return s.readRepo.GetByID(ctx, q.AccountID)
}

func (s *AccountQueryService) GetBalance(ctx context.Context, q cqrs.GetBalanceQuery) (decimal.Decimal, error) {
	view, err := s.readRepo.GetByID(ctx, q.AccountID)
	if err != nil {
		return decimal.Zero, err
	}
	return view.Balance, nil
}
