package cqrs

import "github.com/shopspring/decimal"

type RegisterCommand struct {
	Name           string
	Password       string
	Email          string
	InitialBalance decimal.Decimal
}

type LoginCommand struct {
	Email    string
	Password string
}

type LogoutCommand struct {
	Token string
}

type TransferCommand struct {
	SenderID       int64
	RecipientEmail string
	Amount         decimal.Decimal
}
