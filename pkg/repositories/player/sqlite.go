package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements Repository using SQLite.
// The schema is owned by pkg/db migrations.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository on an open, migrated database
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreatePlayer inserts a new player
func (r *SQLiteRepository) CreatePlayer(ctx context.Context, name string, balance int64) (*entities.Player, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO players (name, balance, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, balance, now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrPlayerExists
		}
		return nil, fmt.Errorf("error creating player: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading player id: %w", err)
	}

	return &entities.Player{
		ID:        id,
		Name:      name,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetPlayer retrieves a player by ID
func (r *SQLiteRepository) GetPlayer(ctx context.Context, id int64) (*entities.Player, error) {
	return r.getPlayer(ctx, `SELECT id, name, balance, created_at, updated_at FROM players WHERE id = ?`, id)
}

// GetPlayerByName retrieves a player by name
func (r *SQLiteRepository) GetPlayerByName(ctx context.Context, name string) (*entities.Player, error) {
	return r.getPlayer(ctx, `SELECT id, name, balance, created_at, updated_at FROM players WHERE name = ?`, name)
}

func (r *SQLiteRepository) getPlayer(ctx context.Context, query string, arg interface{}) (*entities.Player, error) {
	var p entities.Player
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Name, &p.Balance, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("error getting player: %w", err)
	}
	return &p, nil
}

// ListPlayers returns every player ordered by ID
func (r *SQLiteRepository) ListPlayers(ctx context.Context) ([]*entities.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, balance, created_at, updated_at FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying players: %w", err)
	}
	defer rows.Close()

	var players []*entities.Player
	for rows.Next() {
		var p entities.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Balance, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning player row: %w", err)
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

// RecordBalance updates the balance and inserts the ledger row in one SQL transaction
func (r *SQLiteRepository) RecordBalance(ctx context.Context, transaction *entities.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting balance transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE players SET balance = ?, updated_at = ? WHERE id = ?`,
		transaction.BalanceAfter, transaction.Timestamp, transaction.PlayerID,
	)
	if err != nil {
		return fmt.Errorf("error updating balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPlayerNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (
			id, player_id, amount, type, reference_id, description, timestamp, balance_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		transaction.ID,
		transaction.PlayerID,
		transaction.Amount,
		string(transaction.Type),
		transaction.ReferenceID,
		transaction.Description,
		transaction.Timestamp,
		transaction.BalanceAfter,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("error adding transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing balance transaction: %w", err)
	}
	return nil
}

// GetTransactions returns a player's most recent ledger rows, newest first
func (r *SQLiteRepository) GetTransactions(ctx context.Context, playerID int64, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, amount, type, reference_id, description, timestamp, balance_after
		FROM transactions
		WHERE player_id = ?
		ORDER BY rowid DESC
		LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var tx entities.Transaction
		var txType string
		var referenceID, description sql.NullString
		err := rows.Scan(
			&tx.ID,
			&tx.PlayerID,
			&tx.Amount,
			&txType,
			&referenceID,
			&description,
			&tx.Timestamp,
			&tx.BalanceAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		tx.Type = entities.TransactionType(txType)
		tx.ReferenceID = referenceID.String
		tx.Description = description.String
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}
