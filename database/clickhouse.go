package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"anonshop/api/config"
	"anonshop/api/logger"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

func NewClickHouseDB(cfg config.ClickHouseConfig) (*ClickHouseClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("clickhouse host is not configured")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.NativePort)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "anonshop-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	logger.Logger.Info().Str("addr", options.Addr[0]).Msg("Successfully connected to ClickHouse")
	return &ClickHouseClient{Conn: conn}, nil
}

const commerceEventsDDL = `
	CREATE TABLE IF NOT EXISTS commerce_events (
		event_id String,
		event_type LowCardinality(String),
		user_email String,
		product_ids Array(String),
		amount Float64,
		query String,
		timestamp DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (event_type, timestamp)
`

// EnsureSchema creates the commerce_events table if it does not exist.
func (c *ClickHouseClient) EnsureSchema(ctx context.Context) error {
	if err := c.Conn.Exec(ctx, commerceEventsDDL); err != nil {
		return fmt.Errorf("failed to create commerce_events table: %w", err)
	}
	return nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		logger.Logger.Info().Msg("ClickHouse connection closed")
	}
}
