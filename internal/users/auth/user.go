// Copyright (c) 2026 Souq. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for signup,
access-code activation, login, and the token refresh/logout lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/souqhq/souq/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Souq platform.
//
// Accounts are created inactive; redeeming an access code flips Active and
// assigns the role the code grants.
type User struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Phone                string    `json:"phone"`
	PasswordHash         string    `json:"-"` // Explicitly omitted from JSON for security.
	Role                 sec.Role  `json:"role"`
	Active               bool      `json:"active"`
	SalaryRange          string    `json:"salaryRange,omitempty"`
	InterestedCategories []string  `json:"interestedCategories,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Session represents a refresh token issued at login or refresh.
//
// It exists purely for logout bookkeeping: token validity is decided by
// signature and expiry, never by a session lookup.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccessGrant is the activation-side view of an issued access code.
//
// The auth domain only reads codes; issuance and listing live in the
// admin accesscode domain.
type AccessGrant struct {
	ID          string
	Code        string
	Role        sec.Role
	ValidFrom   time.Time
	ValidUntil  time.Time
	UsesAllowed int
	UsesCount   int
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName                 = "name"
	FieldPhone                = "phone"
	FieldPassword             = "password"
	FieldConfirmPassword      = "confirmPassword"
	FieldAccessCode           = "accessCode"
	FieldSalaryRange          = "salaryRange"
	FieldInterestedCategories = "interestedCategories"
	FieldRefreshToken         = "refreshToken"
	FieldAccessToken          = "accessToken"
	FieldExpiresIn            = "expiresIn"
	FieldUser                 = "user"
	FieldMessage              = "message"
)
