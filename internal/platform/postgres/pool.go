// Copyright (c) 2026 Souq. All rights reserved.

// Package postgres owns the pgx connection pool. Repository
// implementations live next to their domains; this package only manages
// the physical connections they share.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqhq/souq/internal/platform/constants"
)

// Pool tuning for the Souq workload.
const (
	maxConns = 25
	// minConns keeps a warm set of connections against cold-start latency.
	minConns = 5
	// Connections are recycled periodically and reaped when idle.
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

/*
NewPool builds a tuned pgx pool from the DSN and verifies connectivity
before returning it.

Every physical connection gets a statement_timeout matching the global
request timeout, so a runaway query cannot outlive the request that
issued it.

# Parameters
  - ctx: Context bounding the initial connection attempt.
  - dsn: A postgres:// URL or libpq keyword DSN.
  - logger: Structured logger for pool-level events.
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres_dsn_invalid: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	statementTimeout := fmt.Sprintf("SET statement_timeout = '%ds'",
		int(constants.GlobalRequestTimeout.Seconds()))
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		_, err := connection.Exec(ctx, statementTimeout)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres_pool_create_failed: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	stats := pool.Stat()
	logger.Info("postgres_connected",
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
	)

	return pool, nil
}

// Ping checks pool health within a bounded timeout. The readiness probe
// reuses it against the live pool.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres_ping_failed: %w", err)
	}
	return nil
}
