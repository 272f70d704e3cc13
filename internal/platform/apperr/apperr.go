// Copyright (c) 2026 Souq. All rights reserved.

/*
Package apperr defines the centralized error handling framework for the Souq API.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a machine-readable stable Code and a user-friendly message.
  - Codes: The closed set of error codes the API contract exposes to clients.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

// Stable machine-readable error identifiers exposed by the API contract.
// Clients branch on these strings, so they must never be renamed.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAlreadyActivated   = "ALREADY_ACTIVATED"
	CodeInvalidAccessCode  = "INVALID_ACCESS_CODE"
	CodeExpiredCode        = "EXPIRED_CODE"
	CodeUsageLimitReached  = "CODE_USAGE_LIMIT_REACHED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotActivated       = "ACCOUNT_NOT_ACTIVATED"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimited        = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

// AppError is the canonical error type for the Souq API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "INVALID_ACCESS_CODE").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// BadRequest creates a 400 [AppError] carrying a business-rule code.
//
// Example:
//
//	apperr.BadRequest(apperr.CodeExpiredCode, "Access code has expired")
func BadRequest(code, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Unauthorized creates a 401 [AppError] carrying an authorization code.
func Unauthorized(code, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Product") // Returns "Product not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// NotFoundCode creates a 404 [AppError] carrying a specific business code
// (e.g. USER_NOT_FOUND) instead of the generic NOT_FOUND.
func NotFoundCode(code, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(code, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err resolves to an [*AppError] with the given code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
