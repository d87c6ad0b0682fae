package models

import "errors"

// Domain errors shared between services and handlers. Handlers translate
// these into HTTP status codes with errors.Is; anything unrecognised is
// treated as an infrastructure failure.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidAmount     = errors.New("amount must be greater than 0")
	ErrSenderNotFound    = errors.New("sender not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
)
