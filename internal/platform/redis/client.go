// Copyright (c) 2026 Souq. All rights reserved.

// Package redis constructs the go-redis client backing the storefront
// response cache. Everything stored here is volatile and carries a TTL, so
// a cold Redis only costs latency, never correctness.
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

/*
NewClient parses a Redis URL, tunes the connection pool, and verifies
connectivity with a ping before returning the client.

# Parameters
  - context: Context bounding the startup ping.
  - redisURL: Redis connection URL.
  - logger: Structured logger for connection events.
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis_url_invalid: %w", err)
	}

	options.PoolSize = 10
	options.MinIdleConns = 2
	options.MaxIdleConns = 5
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping checks client health within a bounded timeout. The readiness probe
// reuses it against the live client.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis_ping_failed: %w", err)
	}
	return nil
}
