// Copyright (c) 2026 Souq. All rights reserved.

// Package ctxutil attaches and retrieves per-request values: the request ID,
// the request-scoped logger, and the authenticated claims.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/souqhq/souq/internal/platform/ctxkey"
	"github.com/souqhq/souq/internal/platform/sec"
)

// WithRequestID attaches the request correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request correlation ID, or "" when absent.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to
// [slog.Default] so callers never need a nil check.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithAuthUser attaches the authenticated claims.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns the authenticated claims, or nil on anonymous
// requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	return claims
}
