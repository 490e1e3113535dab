package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool against the given DSN and prepares the schema.
// Callers decide what a failure means; running without a database is a
// supported mode.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database DSN")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return pool, nil
}

// initSchema creates or updates the database schema
func initSchema(ctx context.Context, pool *pgxpool.Pool) error {

	// -------------------------------
	// USERS
	// -------------------------------
	userTableSQL := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'BARISTA',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := pool.Exec(ctx, userTableSQL); err != nil {
		return err
	}

	// -------------------------------
	// RECEIPTS
	// -------------------------------
	receiptsTableSQL := `
		CREATE TABLE IF NOT EXISTS receipts (
			number VARCHAR(50) PRIMARY KEY,
			session_id VARCHAR(100) NOT NULL,
			items JSONB NOT NULL,
			total NUMERIC(10,2) NOT NULL,
			calories INTEGER NOT NULL DEFAULT 0,
			payment_method VARCHAR(50) NOT NULL,
			paid_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := pool.Exec(ctx, receiptsTableSQL); err != nil {
		return err
	}

	paidAtIndexSQL := `
		CREATE INDEX IF NOT EXISTS receipts_paid_at_idx
		ON receipts (paid_at DESC)
	`
	if _, err := pool.Exec(ctx, paidAtIndexSQL); err != nil {
		return err
	}

	return nil
}
