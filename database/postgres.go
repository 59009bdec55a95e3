package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"anonshop/api/config"
	"anonshop/api/logger"
)

type DBClient struct {
	DB *sql.DB
}

func NewPostgresDB(cfg config.DatabaseConfig) (*DBClient, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("error opening database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database (ping failed): %w", err)
	}

	logger.Logger.Info().Msg("Successfully connected to PostgreSQL database")
	return &DBClient{DB: db}, nil
}

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(50) NOT NULL,
		address TEXT NOT NULL,
		age INT NOT NULL,
		gender VARCHAR(20) NOT NULL,
		category VARCHAR(100) NOT NULL,
		budget NUMERIC(12,2) NOT NULL,
		payment_method VARCHAR(50) NOT NULL,
		password BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(255) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(100) NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		image_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (LOWER(category))`,
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id VARCHAR(36) PRIMARY KEY,
		user_email VARCHAR(255) NOT NULL,
		items JSONB NOT NULL,
		total_price NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_email ON transactions (user_email)`,
}

// EnsureSchema creates the users, products and transactions tables if they do not exist.
func (c *DBClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	logger.Logger.Info().Int("statements", len(schema)).Msg("PostgreSQL schema ensured")
	return nil
}

// Ping reports whether the database is reachable.
func (c *DBClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *DBClient) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Error closing database connection")
		} else {
			logger.Logger.Info().Msg("PostgreSQL database connection closed")
		}
	}
}
