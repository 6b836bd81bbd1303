package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository using a pgx connection pool
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository on a pool whose schema already exists
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// CreatePlayer inserts a new player
func (r *PostgresRepository) CreatePlayer(ctx context.Context, name string, balance int64) (*entities.Player, error) {
	p := entities.Player{Name: name, Balance: balance}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO players (name, balance) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		name, balance,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, ErrPlayerExists
		}
		return nil, fmt.Errorf("error creating player: %w", err)
	}
	return &p, nil
}

// GetPlayer retrieves a player by ID
func (r *PostgresRepository) GetPlayer(ctx context.Context, id int64) (*entities.Player, error) {
	return r.getPlayer(ctx, `SELECT id, name, balance, created_at, updated_at FROM players WHERE id = $1`, id)
}

// GetPlayerByName retrieves a player by name
func (r *PostgresRepository) GetPlayerByName(ctx context.Context, name string) (*entities.Player, error) {
	return r.getPlayer(ctx, `SELECT id, name, balance, created_at, updated_at FROM players WHERE name = $1`, name)
}

func (r *PostgresRepository) getPlayer(ctx context.Context, query string, arg any) (*entities.Player, error) {
	var p entities.Player
	err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &p.Balance, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("error getting player: %w", err)
	}
	return &p, nil
}

// ListPlayers returns every player ordered by ID
func (r *PostgresRepository) ListPlayers(ctx context.Context) ([]*entities.Player, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, balance, created_at, updated_at FROM players ORDER BY id`)
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
	return players, rows.Err()
}

// RecordBalance updates the balance and inserts the ledger row in one database transaction
func (r *PostgresRepository) RecordBalance(ctx context.Context, transaction *entities.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now().UTC()
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE players SET balance = $1, updated_at = $2 WHERE id = $3`,
			transaction.BalanceAfter, transaction.Timestamp, transaction.PlayerID,
		)
		if err != nil {
			return fmt.Errorf("error updating balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrPlayerNotFound
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO transactions (
				id, player_id, amount, type, reference_id, description, timestamp, balance_after
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
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
			if pgCode(err) == pgUniqueViolation {
				return ErrDuplicateEntry
			}
			return fmt.Errorf("error adding transaction: %w", err)
		}
		return nil
	})
}

// GetTransactions returns a player's most recent ledger rows, newest first
func (r *PostgresRepository) GetTransactions(ctx context.Context, playerID int64, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, player_id, amount, type, COALESCE(reference_id, ''), COALESCE(description, ''), timestamp, balance_after
		FROM transactions
		WHERE player_id = $1
		ORDER BY timestamp DESC`
	args := []any{playerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var tx entities.Transaction
		var txType string
		if err := rows.Scan(&tx.ID, &tx.PlayerID, &tx.Amount, &txType, &tx.ReferenceID, &tx.Description, &tx.Timestamp, &tx.BalanceAfter); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		tx.Type = entities.TransactionType(txType)
		transactions = append(transactions, &tx)
	}
	return transactions, rows.Err()
}
