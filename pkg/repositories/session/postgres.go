package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/repositories/player"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using a pgx connection pool
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository on a pool whose schema already exists
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// AppendSession stores a completed round
func (r *PostgresRepository) AppendSession(ctx context.Context, session *entities.GameSession) error {
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO game_sessions (
			round_id, player_id, player_name, dealer_value, player_value,
			outcome, blackjack, bet, payout, balance_after, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		session.RoundID,
		session.PlayerID,
		session.PlayerName,
		session.DealerValue,
		session.PlayerValue,
		string(session.Outcome),
		session.Blackjack,
		session.Bet,
		session.Payout,
		session.BalanceAfter,
		session.Timestamp,
	).Scan(&session.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return player.ErrPlayerNotFound
		}
		return fmt.Errorf("error appending session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions, newest first
func (r *PostgresRepository) ListSessions(ctx context.Context, limit int) ([]*entities.GameSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions ORDER BY id DESC`
	if limit > 0 {
		return r.query(ctx, query+` LIMIT $1`, limit)
	}
	return r.query(ctx, query)
}

// ListPlayerSessions returns one player's most recent sessions, newest first
func (r *PostgresRepository) ListPlayerSessions(ctx context.Context, playerID int64, limit int) ([]*entities.GameSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE player_id = $1 ORDER BY id DESC`
	if limit > 0 {
		return r.query(ctx, query+` LIMIT $2`, playerID, limit)
	}
	return r.query(ctx, query, playerID)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*entities.GameSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.GameSession, error) {
		var s entities.GameSession
		var outcome string
		err := row.Scan(&s.ID, &s.RoundID, &s.PlayerID, &s.PlayerName, &s.DealerValue, &s.PlayerValue,
			&outcome, &s.Blackjack, &s.Bet, &s.Payout, &s.BalanceAfter, &s.Timestamp)
		s.Outcome = entities.Outcome(outcome)
		return &s, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning session rows: %w", err)
	}
	return sessions, nil
}
