// Copyright (c) 2026 Souq. All rights reserved.

package auth

import (
	"context"

	"github.com/souqhq/souq/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByPhone returns the account registered under the given phone number.

		Parameters:
		  - context: context.Context
		  - phone: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByPhone(context context.Context, phone string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	/*
		Create persists a new tracking session for an issued refresh token.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		DeleteByTokenHash removes the session matching the exact token hash.
		Deleting a hash with no matching row is not an error.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteByTokenHash(context context.Context, tokenHash string) error

	/*
		DeleteExpired physically removes sessions whose ExpiresAt is in the past.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}

// # Activation Data Access

// ActivationStore defines the storage contract for access-code redemption.
type ActivationStore interface {

	/*
		FindCode returns the access code record matching the normalized
		(uppercase) code string.

		Parameters:
		  - context: context.Context
		  - code: string

		Returns:
		  - *AccessGrant: Redemption view of the code
		  - error: Database retrieval failures
	*/
	FindCode(context context.Context, code string) (*AccessGrant, error)

	/*
		CompleteActivation atomically redeems a code for a user.

		Description: Runs one transaction that conditionally increments the
		code's usage counter (guarded by usescount < usesallowed so two
		concurrent redemptions can never over-spend a quota) and activates the
		user with the granted role. A quota race lost at commit time surfaces
		as a CODE_USAGE_LIMIT_REACHED error.

		Parameters:
		  - context: context.Context
		  - codeID: string
		  - userID: string
		  - role: sec.Role

		Returns:
		  - error: Quota exhaustion or persistence failures
	*/
	CompleteActivation(context context.Context, codeID, userID string, role sec.Role) error
}
