package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/repositories/player"
	"github.com/mattn/go-sqlite3"
)

const sessionColumns = `id, round_id, player_id, player_name, dealer_value, player_value,
	outcome, blackjack, bet, payout, balance_after, timestamp`

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository on an open, migrated database
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// AppendSession stores a completed round
func (r *SQLiteRepository) AppendSession(ctx context.Context, session *entities.GameSession) error {
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO game_sessions (
			round_id, player_id, player_name, dealer_value, player_value,
			outcome, blackjack, bet, payout, balance_after, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
		session.Timestamp.UTC(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return player.ErrPlayerNotFound
		}
		return fmt.Errorf("error appending session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading session id: %w", err)
	}
	session.ID = id
	return nil
}

// ListSessions returns the most recent sessions, newest first
func (r *SQLiteRepository) ListSessions(ctx context.Context, limit int) ([]*entities.GameSession, error) {
	return r.query(ctx, `SELECT `+sessionColumns+` FROM game_sessions ORDER BY id DESC LIMIT ?`, sqliteLimit(limit))
}

// ListPlayerSessions returns one player's most recent sessions, newest first
func (r *SQLiteRepository) ListPlayerSessions(ctx context.Context, playerID int64, limit int) ([]*entities.GameSession, error) {
	return r.query(ctx, `SELECT `+sessionColumns+` FROM game_sessions WHERE player_id = ? ORDER BY id DESC LIMIT ?`,
		playerID, sqliteLimit(limit))
}

// sqliteLimit maps "no limit" onto SQLite's LIMIT -1
func sqliteLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entities.GameSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*entities.GameSession, 0)
	for rows.Next() {
		var s entities.GameSession
		var outcome string
		err := rows.Scan(
			&s.ID,
			&s.RoundID,
			&s.PlayerID,
			&s.PlayerName,
			&s.DealerValue,
			&s.PlayerValue,
			&outcome,
			&s.Blackjack,
			&s.Bet,
			&s.Payout,
			&s.BalanceAfter,
			&s.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		s.Outcome = entities.Outcome(outcome)
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}
