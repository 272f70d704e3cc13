// Copyright (c) 2026 Souq. All rights reserved.

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/souqhq/souq/internal/platform/ctxutil"
	"github.com/souqhq/souq/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "req-0198ab"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))

	// 3. A nested value shadows the outer one
	inner := ctxutil.WithRequestID(ctx, "req-0198ac")
	assert.Equal(t, "req-0198ac", ctxutil.GetRequestID(inner))
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthUser verifies that AuthClaims can be stored in context.
*/
func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	claims := &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
		Role:             "admin",
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithAuthUser(ctx, claims)
	retrieved := ctxutil.GetAuthUser(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.UserID())
	assert.Equal(t, "admin", retrieved.Role)
}
