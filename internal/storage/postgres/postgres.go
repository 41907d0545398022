// Package postgres persists accounts and creatures in PostgreSQL via
// pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaizoquest/kaizoquest/internal/config"
)

// Pool owns the pgx connection pool shared by the repositories.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the database described by cfg and verifies the
// connection with a ping.
//
// Postcondition: On success the returned Pool is ready for queries.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Health pings the database, bounding the wait by timeout. The server
// lifecycle calls this periodically.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close releases every pooled connection.
//
// Postcondition: The pool is no longer usable.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB exposes the underlying pgxpool.Pool to the repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
