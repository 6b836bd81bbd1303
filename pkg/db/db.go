package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/db/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens (creating if needed) the SQLite database at path and brings its schema up to date
func OpenSQLite(path string, logger *logging.Logger) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// one writer at a time keeps balance writes serialized
	db.SetMaxOpenConns(1)

	if _, err := migrations.NewMigrator(db, migrations.SQLite(), logger).MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}
	return db, nil
}

// OpenPostgres connects to dsn and creates any missing tables
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, migrations.PostgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error creating postgres schema: %w", err)
	}
	return pool, nil
}
