// Package database provides the PostgreSQL pool shared by the audit
// repositories and the execution service.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns     = 25
	defaultConnLifetime = time.Hour
	defaultConnIdleTime = 30 * time.Minute
)

// DB wraps a pgxpool connection pool.
type DB struct {
	*pgxpool.Pool
}

// Config holds database connection configuration.
type Config struct {
	URL            string
	MaxConnections int32
}

// NewConnection creates a connection pool and verifies it with a ping
// before returning.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = defaultMaxConns
	}
	poolConfig.MaxConnLifetime = defaultConnLifetime
	poolConfig.MaxConnIdleTime = defaultConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
