// Copyright (c) 2026 Souq. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/constants"
	"github.com/souqhq/souq/internal/platform/ctxutil"
	"github.com/souqhq/souq/internal/platform/respond"
	"github.com/souqhq/souq/internal/platform/sec"
)

// # Authentication

// TokenVerifier validates a signed access token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// AccountVerifier checks that the account behind a token is still usable.
// It is implemented by the auth service so that revoked or deactivated
// accounts are rejected even while their tokens are cryptographically valid.
type AccountVerifier interface {
	VerifyAccount(ctx context.Context, userID string) error
}

/*
Authenticate extracts and validates the Bearer token from the Authorization
header.

Requests without an Authorization header pass through anonymously; route
groups that need an identity must additionally apply [RequireAuth]. A header
that is present but malformed or fails signature verification is rejected
immediately with an INVALID_TOKEN error.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Anonymous requests continue without claims
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. The header must use the Bearer scheme
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				respond.Error(writer, request, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid authorization header format"))
				return
			}

			// 3. Verify the signature and expiry
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid or expired token"))
				return
			}

			// 4. Attach the identity to the request context
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no authenticated identity.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if GetUser(request) == nil {
				respond.Error(writer, request, apperr.Unauthorized(apperr.CodeInvalidToken, "Authentication required"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

/*
RequireAccount verifies that the authenticated account still exists and is
active on every request.

Token claims alone are not enough: an account deactivated after a token was
issued must lose access before the token expires. Must be applied after
[Authenticate].
*/
func RequireAccount(verifier AccountVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := GetUser(request)
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized(apperr.CodeInvalidToken, "Authentication required"))
				return
			}

			if err := verifier.VerifyAccount(request.Context(), claims.UserID()); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Authorization

/*
Authorize gates a route group behind a named operation in the central role
policy.

All role checks flow through [sec.PolicyAllows] so that permissions live in
one table instead of being scattered across handlers. Unknown operations are
denied. Must be applied after [Authenticate].
*/
func Authorize(operation sec.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := GetUser(request)
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized(apperr.CodeInvalidToken, "Authentication required"))
				return
			}

			if !sec.PolicyAllows(operation, sec.Role(claims.Role)) {
				respond.Error(writer, request, apperr.Forbidden("You do not have permission to perform this action"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser returns the authenticated claims for the request, or nil.
func GetUser(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}
