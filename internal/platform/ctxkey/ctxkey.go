// Copyright (c) 2026 Souq. All rights reserved.

// Package ctxkey holds the typed context keys shared by the middleware and
// ctxutil packages. The unexported key type keeps these entries from
// colliding with any string keys set by third-party code.
package ctxkey

type key string

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser carries the authenticated [sec.AuthClaims].
	KeyUser key = "user"

	// KeyLogger carries the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
