package wallet

import (
	"context"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// WalletService is what the CLI and HTTP API need from the wallet.
// The round engine only needs the GetBalance/SetBalance pair.
type WalletService interface {
	GetOrCreatePlayer(ctx context.Context, name string) (*entities.Player, bool, error)
	FindPlayer(ctx context.Context, name string) (*entities.Player, error)
	GetBalance(ctx context.Context, playerID int64) (int64, error)
	SetBalance(ctx context.Context, playerID int64, balance int64, txType entities.TransactionType, referenceID, description string) error
	GetRecentTransactions(ctx context.Context, playerID int64, limit int) ([]*entities.Transaction, error)
}
