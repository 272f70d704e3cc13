// Copyright (c) 2026 Souq. All rights reserved.

// Package requestutil extracts route parameters, JSON bodies, and the
// authenticated identity from incoming requests, so handlers share one
// error shape for each failure mode.
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/ctxutil"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/internal/platform/validate"
)

// DecodeJSON decodes the request body into target. Any decode failure maps
// to [validate.ErrInvalidJSON] so clients always see the same error code
// for a malformed body.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns the named URL path parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Claims returns the authenticated claims, or nil on anonymous requests.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredClaims returns the authenticated claims or an Unauthorized error.
// Handlers behind RequireAuth still call this rather than assuming the
// middleware ran.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := Claims(request)
	if claims == nil {
		return nil, apperr.Unauthorized(apperr.CodeUnauthorized, "Authentication required")
	}
	return claims, nil
}

// RequiredUserID returns the authenticated user's ID or an Unauthorized
// error.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}
