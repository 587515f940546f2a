package store

import "time"

type User struct {
	ID         string
	Name       string
	APIKeyHash string
	// ExternalID links the user to the streaming platform's points account;
	// empty when the account is not linked.
	ExternalID string
	CreatedAt  time.Time
}

type Account struct {
	UserID    string
	Balance   int64
	UpdatedAt time.Time
}

type LedgerEntry struct {
	ID        string
	UserID    string
	Type      string
	Amount    int64
	RefType   string
	RefID     string
	CreatedAt time.Time
}

// UnresolvedWager is a bet debit whose round never produced a history row:
// the process died between debit and settlement. Surfaced for operator
// reconciliation, never silently repaired.
type UnresolvedWager struct {
	UserID    string
	RoundID   string
	Amount    int64
	CreatedAt time.Time
}
