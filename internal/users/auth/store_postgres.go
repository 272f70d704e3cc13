// Copyright (c) 2026 Souq. All rights reserved.

// PostgreSQL implementations of the auth storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/dberr"
	"github.com/souqhq/souq/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. A duplicate phone surfaces as USER_ALREADY_EXISTS.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, name, phone, passwordhash, role, active, salaryrange, interestedcategories, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.Active,
		user.SalaryRange,
		user.InterestedCategories,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict(apperr.CodeUserAlreadyExists, "This phone number is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByPhone retrieves a user record by their unique phone number.

Description: Standard credential lookup for login, activation, and signup
duplicate checks.

Parameters:
  - context: context.Context
  - phone: string

Returns:
  - *User: Hydrated account entity
  - error: apperr with USER_NOT_FOUND or database errors
*/
func (repository *PostgresUserRepository) FindByPhone(context context.Context, phone string) (*User, error) {
	const query = `
		SELECT id, name, phone, passwordhash, role, active, salaryrange, interestedcategories, createdat, updatedat
		FROM users.account
		WHERE phone = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, phone).Scan(
		&user.ID,
		&user.Name,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&user.SalaryRange,
		&user.InterestedCategories,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundCode(apperr.CodeUserNotFound, "User not found")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_phone_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, name, phone, passwordhash, role, active, salaryrange, interestedcategories, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&user.SalaryRange,
		&user.InterestedCategories,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundCode(apperr.CodeUserNotFound, "User not found")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

// # Session Repository

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new session record into the users.session table.

Description: Records an issued refresh token in persistent storage so logout
can revoke it later by exact match.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (
			id, userid, tokenhash, expiresat, createdat
		) VALUES ($1, $2, $3, $4, $5)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.ExpiresAt,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
DeleteByTokenHash removes the session matching the exact token hash.

Description: Logout bookkeeping. Zero affected rows is a success so the
operation stays idempotent.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresSessionRepository) DeleteByTokenHash(context context.Context, tokenHash string) error {
	const query = "DELETE FROM users.session WHERE tokenhash = $1"
	_, err := repository.pool.Exec(context, query, tokenHash)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_failed: %w", err)
	}
	return nil
}

/*
DeleteExpired permanently removes all sessions that have passed their expiration.

Description: Cleanup task to reclaim storage from stale sessions.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) error {
	const query = "DELETE FROM users.session WHERE expiresat <= NOW()"
	_, err := repository.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return nil
}

// # Activation Store

// PostgresActivationStore implements the ActivationStore interface.
type PostgresActivationStore struct {
	pool *pgxpool.Pool
}

// NewActivationStore creates a new PostgreSQL implementation of ActivationStore.
func NewActivationStore(pool *pgxpool.Pool) *PostgresActivationStore {
	return &PostgresActivationStore{pool: pool}
}

/*
FindCode retrieves an access code record by its normalized code string.

Parameters:
  - context: context.Context
  - code: string (uppercase, 8 characters)

Returns:
  - *AccessGrant: Redemption view of the code
  - error: apperr with INVALID_ACCESS_CODE or database errors
*/
func (repository *PostgresActivationStore) FindCode(context context.Context, code string) (*AccessGrant, error) {
	const query = `
		SELECT id, code, role, validfrom, validuntil, usesallowed, usescount
		FROM admin.accesscode
		WHERE code = $1`

	grant := &AccessGrant{}
	err := repository.pool.QueryRow(context, query, code).Scan(
		&grant.ID,
		&grant.Code,
		&grant.Role,
		&grant.ValidFrom,
		&grant.ValidUntil,
		&grant.UsesAllowed,
		&grant.UsesCount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.BadRequest(apperr.CodeInvalidAccessCode, "Invalid access code")
		}
		return nil, fmt.Errorf("postgres_activation_store_find_code_failed: %w", err)
	}

	return grant, nil
}

/*
CompleteActivation atomically redeems a code and activates a user.

Description: One transaction covers both writes. The quota increment is a
single conditional UPDATE guarded by usescount < usesallowed, so concurrent
redemptions of a nearly-exhausted code serialize at the row level and the
loser observes zero affected rows instead of over-spending the quota.

Parameters:
  - context: context.Context
  - codeID: string
  - userID: string
  - role: sec.Role

Returns:
  - error: CODE_USAGE_LIMIT_REACHED on a lost quota race, or storage failures
*/
func (repository *PostgresActivationStore) CompleteActivation(context context.Context, codeID, userID string, role sec.Role) error {
	const redeemQuery = `
		UPDATE admin.accesscode
		SET usescount = usescount + 1,
		    isused = (usescount + 1 >= usesallowed),
		    updatedat = NOW()
		WHERE id = $1 AND usescount < usesallowed`

	const activateQuery = `
		UPDATE users.account
		SET active = TRUE, role = $2, updatedat = NOW()
		WHERE id = $1`

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_activation_store_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	redeemed, err := transaction.Exec(context, redeemQuery, codeID)
	if err != nil {
		return fmt.Errorf("postgres_activation_store_redeem_failed: %w", err)
	}

	if redeemed.RowsAffected() == 0 {
		return apperr.BadRequest(apperr.CodeUsageLimitReached, "Access code usage limit reached")
	}

	if _, err := transaction.Exec(context, activateQuery, userID, role); err != nil {
		return fmt.Errorf("postgres_activation_store_activate_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_activation_store_commit_failed: %w", err)
	}

	return nil
}
