package cqrs

// GetUserQuery fetches the authenticated caller's account snapshot.
type GetUserQuery struct {
	AccountID int64
}

// GetBalanceQuery fetches the authenticated caller's balance.
type GetBalanceQuery struct {
	AccountID int64
}

// ListTransactionsQuery fetches ledger entries where the account is sender
// or recipient, newest first. Limit is capped by the query service.
type ListTransactionsQuery struct {
	AccountID int64
	Limit     int
}
