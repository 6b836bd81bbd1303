package blackjack

import (
	"context"

	"github.com/fadedpez/blackjack/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_blackjack

// WalletService reads and writes the persisted chip balance
type WalletService interface {
	GetBalance(ctx context.Context, playerID int64) (int64, error)
	// SetBalance writes an absolute balance and records why it changed
	SetBalance(ctx context.Context, playerID int64, balance int64, txType entities.TransactionType, referenceID, description string) error
}

// SessionRecorder appends completed rounds to the session history
type SessionRecorder interface {
	AppendSession(ctx context.Context, session *entities.GameSession) error
}
