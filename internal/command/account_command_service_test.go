package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodbank/kodbank/internal/cqrs"
	"github.com/kodbank/kodbank/internal/models"
	"github.com/kodbank/kodbank/internal/utils"
)

type fakeAccountCreator struct {
	created *models.Account
	id      int64
	err     error
}

func (f *fakeAccountCreator) Create(account *models.Account) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = account
	return f.id, nil
}

type fakeViewCacher struct {
	fakeRefresher
	cached []*models.AccountView
}

func (f *fakeViewCacher) CacheAccountView(ctx context.Context, view *models.AccountView) {
	f.cached = append(f.cached, view)
}

func TestRegister_Success(t *testing.T) {
	creator := &fakeAccountCreator{id: 7}
	cacher := &fakeViewCacher{}
	publisher := &fakePublisher{}
	svc := NewAccountCommandService(creator, cacher, publisher)

	id, err := svc.Register(context.Background(), cqrs.RegisterCommand{
		Name:           "Alice",
		Password:       "hunter22",
		Email:          "alice@example.com",
		InitialBalance: money("1000.00"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	require.NotNil(t, creator.created)
	assert.Equal(t, "Alice", creator.created.Name)
	assert.Equal(t, "alice@example.com", creator.created.Email)
	assert.True(t, creator.created.Balance.Equal(money("1000.00")))

	// The credential is stored hashed, never in clear form.
	assert.NotEqual(t, "hunter22", creator.created.PasswordHash)
	assert.True(t, utils.CheckPassword("hunter22", creator.created.PasswordHash))

	require.Len(t, cacher.cached, 1)
	assert.Equal(t, int64(7), cacher.cached[0].AccountID)
	require.Len(t, publisher.types, 1)
}

func TestRegister_DefaultZeroBalance(t *testing.T) {
	creator := &fakeAccountCreator{id: 8}
	cacher := &fakeViewCacher{}
	svc := NewAccountCommandService(creator, cacher, &fakePublisher{})

	// No initial balance supplied; the account opens at 0.00.
	_, err := svc.Register(context.Background(), cqrs.RegisterCommand{
		Name:     "Bob",
		Password: "hunter22",
		Email:    "bob@example.com",
	})

	require.NoError(t, err)
	require.NotNil(t, creator.created)
	assert.True(t, creator.created.Balance.IsZero())
	require.Len(t, cacher.cached, 1)
	assert.True(t, cacher.cached[0].Balance.IsZero())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	creator := &fakeAccountCreator{err: models.ErrDuplicateEmail}
	cacher := &fakeViewCacher{}
	publisher := &fakePublisher{}
	svc := NewAccountCommandService(creator, cacher, publisher)

	_, err := svc.Register(context.Background(), cqrs.RegisterCommand{
		Name:     "Alice",
		Password: "hunter22",
		Email:    "alice@example.com",
	})

	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	assert.Empty(t, cacher.cached)
	assert.Empty(t, publisher.types)
}
