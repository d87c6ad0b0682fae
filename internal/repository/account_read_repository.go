package repository

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kodbank/kodbank/internal/models"
	kodredis "github.com/kodbank/kodbank/internal/redis"
)

const accountViewKeyPrefix = "account:view:"

// AccountReadRepository handles all read operations for accounts. Redis is
// the primary read store; PostgreSQL is the fallback, and every cold read
// warms the cache.
type AccountReadRepository struct {
	db    *sql.DB
	cache *kodredis.ViewCache[models.AccountView]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: kodredis.NewViewCache[models.AccountView](redisClient, 0),
	}
}

// GetByID returns an AccountView, trying Redis first then PostgreSQL.
func (r *AccountReadRepository) GetByID(ctx context.Context, id int64) (*models.AccountView, error) {
	cacheKey := accountViewKey(id)
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	view, err := r.queryView(id)
	if err != nil {
		return nil, err
	}

	r.CacheAccountView(ctx, view)
	return view, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account.
// Called by the command services after every mutation.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	r.cache.Set(ctx, accountViewKey(view.AccountID), view)
}

// RefreshAccountView re-reads an account from PostgreSQL and replaces the
// cached view. Used after balance mutations and by the event consumer to
// resync the read model.
func (r *AccountReadRepository) RefreshAccountView(ctx context.Context, id int64) error {
	view, err := r.queryView(id)
	if err != nil {
		return err
	}
	r.CacheAccountView(ctx, view)
	return nil
}

func (r *AccountReadRepository) queryView(id int64) (*models.AccountView, error) {
	query := `SELECT id, name, email, balance FROM accounts WHERE id = $1`
	var view models.AccountView
	err := r.db.QueryRow(query, id).Scan(&view.AccountID, &view.Name, &view.Email, &view.Balance)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account view: %w", err)
	}
	return &view, nil
}

func accountViewKey(id int64) string {
	return fmt.Sprintf("%s%d", accountViewKeyPrefix, id)
}
