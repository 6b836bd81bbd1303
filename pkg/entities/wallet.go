package entities

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeBet    TransactionType = "BET"
	TransactionTypePayout TransactionType = "PAYOUT"
	TransactionTypeCredit TransactionType = "CREDIT"
)

// Transaction is one ledger row written alongside every balance change
type Transaction struct {
	ID           string          `json:"id"`
	PlayerID     int64           `json:"player_id"`
	Amount       int64           `json:"amount"` // positive for additions, negative for subtractions
	Type         TransactionType `json:"type"`
	ReferenceID  string          `json:"reference_id"` // round ID
	Description  string          `json:"description"`
	Timestamp    time.Time       `json:"timestamp"`
	BalanceAfter int64           `json:"balance_after"`
}
