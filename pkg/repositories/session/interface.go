package session

import (
	"context"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// Repository is the append-only store of completed rounds
type Repository interface {
	// AppendSession stores a completed round and sets its ID
	AppendSession(ctx context.Context, session *entities.GameSession) error

	// ListSessions returns the most recent sessions across all players, newest first.
	// A limit of zero or less returns everything.
	ListSessions(ctx context.Context, limit int) ([]*entities.GameSession, error)

	// ListPlayerSessions returns one player's most recent sessions, newest first
	ListPlayerSessions(ctx context.Context, playerID int64, limit int) ([]*entities.GameSession, error)
}
