package player

import (
	"context"
	"errors"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
)

var (
	ErrPlayerNotFound = types.NewGameError(types.ErrPlayerNotFound, "player not found")
	ErrPlayerExists   = errors.New("player already exists")
	ErrDuplicateEntry = errors.New("transaction already recorded")
)

// Repository stores players, their balances, and the balance ledger
type Repository interface {
	// CreatePlayer inserts a new player. Names are unique.
	CreatePlayer(ctx context.Context, name string, balance int64) (*entities.Player, error)

	// GetPlayer retrieves a player by ID
	GetPlayer(ctx context.Context, id int64) (*entities.Player, error)

	// GetPlayerByName retrieves a player by exact name
	GetPlayerByName(ctx context.Context, name string) (*entities.Player, error)

	// ListPlayers returns every player ordered by ID
	ListPlayers(ctx context.Context) ([]*entities.Player, error)

	// RecordBalance sets the player's balance to transaction.BalanceAfter and appends
	// the ledger row in one atomic write. Either both land or neither does.
	RecordBalance(ctx context.Context, transaction *entities.Transaction) error

	// GetTransactions returns a player's most recent ledger rows, newest first
	GetTransactions(ctx context.Context, playerID int64, limit int) ([]*entities.Transaction, error)
}
