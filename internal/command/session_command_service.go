package command

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kodbank/kodbank/internal/cqrs"
	"github.com/kodbank/kodbank/internal/middleware"
	"github.com/kodbank/kodbank/internal/models"
	"github.com/kodbank/kodbank/internal/utils"
)

// sessionTTL bounds every issued token.
const sessionTTL = 24 * time.Hour

// AccountsByEmail is the lookup login performs against the write store.
type AccountsByEmail interface {
	GetByEmail(email string) (*models.Account, error)
}

// TokenStore records issued tokens and removes revoked ones. It is
// bookkeeping only; request authorisation never consults it.
type TokenStore interface {
	Issue(accountID int64, token string, expiresAt int64) error
	Revoke(token string) error
}

// SessionCommandService logs customers in and out. It lives on the command
// side because both operations write token rows.
type SessionCommandService struct {
	accounts AccountsByEmail
	tokens   TokenStore
}

func NewSessionCommandService(accounts AccountsByEmail, tokens TokenStore) *SessionCommandService {
	return &SessionCommandService{accounts: accounts, tokens: tokens}
}

// Login verifies the credential, mints a session token and persists a token
// row. An unknown email and a wrong password are indistinguishable to the
// caller; store failures are not masked as credential failures.
func (s *SessionCommandService) Login(cmd cqrs.LoginCommand) (*models.LoginResult, error) {
	account, err := s.accounts.GetByEmail(cmd.Email)
	if errors.Is(err, models.ErrAccountNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !utils.CheckPassword(cmd.Password, account.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(sessionTTL)
	token, err := s.generateToken(account.ID, account.Email, expiresAt)
	if err != nil {
		return nil, err
	}

	// Token rows are bookkeeping; a failed insert must not fail a login
	// that already holds a signed token.
	if err := s.tokens.Issue(account.ID, token, expiresAt.Unix()); err != nil {
		log.Printf("Failed to store token row for account %d: %v", account.ID, err)
	}

	return &models.LoginResult{
		Token: token,
		Account: models.AccountView{
			AccountID: account.ID,
			Name:      account.Name,
			Email:     account.Email,
			Balance:   account.Balance,
		},
	}, nil
}

// Logout revokes the presented token's row. Idempotent.
func (s *SessionCommandService) Logout(cmd cqrs.LogoutCommand) error {
	return s.tokens.Revoke(cmd.Token)
}

func (s *SessionCommandService) generateToken(accountID int64, email string, expiresAt time.Time) (string, error) {
	claims := middleware.Claims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(middleware.JWTSecret())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
