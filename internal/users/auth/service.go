// Copyright (c) 2026 Souq. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying signed tokens.
type TokenProvider interface {
	// GenerateToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - phone: The phone number of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateToken(userID, phone, role string, timeToLive time.Duration) (string, error)

	// VerifyToken checks the signature and validity of a JWT string.
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// Service implements the authentication and activation use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, activation,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	activationStore   ActivationStore
	tokenProvider     TokenProvider
	accessTokenTTL    time.Duration
	refreshTokenTTL   time.Duration
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	activationStore ActivationStore,
	tokenProv TokenProvider,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		activationStore:   activationStore,
		tokenProvider:     tokenProv,
		accessTokenTTL:    accessTokenTTL,
		refreshTokenTTL:   refreshTokenTTL,
	}
}

// # Signup Flow

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Name                 string
	Phone                string
	Password             string
	ConfirmPassword      string
	SalaryRange          string
	InterestedCategories []string
}

/*
Signup validates, hashes, and persists a brand new user account.

Description: Creates an INACTIVE account with role "user"; the member cannot
log in until an access code activates the account. No tokens are issued here.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: Created entity
  - err: Validation, Conflict (if phone is registered), or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {

	// Passwords must match before anything touches storage
	if input.Password != input.ConfirmPassword {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldConfirmPassword,
			Message: "Passwords do not match",
		})
	}

	// Verify phone uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByPhone(context, input.Phone)
	if err == nil {
		return nil, apperr.Conflict(apperr.CodeUserAlreadyExists, "This phone number is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	// Every account starts inactive with the lowest role, regardless of input.
	user := &User{
		ID:                   uuidv7.New(),
		Name:                 input.Name,
		Phone:                input.Phone,
		PasswordHash:         hashedPassword,
		Role:                 sec.RoleUser,
		Active:               false,
		SalaryRange:          input.SalaryRange,
		InterestedCategories: input.InterestedCategories,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	return user, nil
}

// # Activation Flow

// ActivateInput defines the data required to redeem an access code.
type ActivateInput struct {
	Phone      string
	Password   string
	AccessCode string
}

/*
Activate redeems an access code and unlocks a signed-up account.

Description: Authenticates by phone+password, validates the code's existence,
validity window, and remaining quota, then completes the redemption in one
atomic unit of work: the user becomes active with the role the code grants
and the code's usage counter advances by exactly one.

Parameters:
  - context: context.Context
  - input: ActivateInput

Returns:
  - *User: Activated entity with its granted role
  - err: Credential, code-validity, quota, or storage errors
*/
func (service *Service) Activate(context context.Context, input ActivateInput) (*User, error) {

	// Authenticate the account first. Generic message to prevent enumeration.
	user, err := service.userRepository.FindByPhone(context, input.Phone)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid phone or password")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid phone or password")
	}

	// An account activates exactly once
	if user.Active {
		return nil, apperr.BadRequest(apperr.CodeAlreadyActivated, "Account is already activated")
	}

	// Codes are case-insensitive on input, stored uppercase
	grant, err := service.activationStore.FindCode(context, strings.ToUpper(input.AccessCode))
	if err != nil {
		return nil, err
	}

	// The code must be inside its validity window
	now := time.Now()
	if now.Before(grant.ValidFrom) || now.After(grant.ValidUntil) {
		return nil, apperr.BadRequest(apperr.CodeExpiredCode, "Access code has expired")
	}

	// Fast-path quota check; the store re-checks atomically at commit time
	if grant.UsesCount >= grant.UsesAllowed {
		return nil, apperr.BadRequest(apperr.CodeUsageLimitReached, "Access code usage limit reached")
	}

	if err := service.activationStore.CompleteActivation(context, grant.ID, user.ID, grant.Role); err != nil {
		return nil, err
	}

	// Re-read to return the post-activation state
	activated, err := service.userRepository.FindByID(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_activate_reload_failed: %w", err)
	}

	return activated, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Phone    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // Access token lifetime in seconds.
	User         *User
}

/*
Login validates user credentials and issues a token pair.

Description: Verifies identity with constant-time password comparison,
requires an activated account, and records the refresh token for logout
bookkeeping.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// If the user does not exist, keep the message identical to the
	// bad-password case to prevent phone enumeration.
	user, err := service.userRepository.FindByPhone(context, input.Phone)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid phone or password")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid phone or password")
	}

	// Only activated accounts may log in
	if !user.Active {
		return nil, apperr.Unauthorized(apperr.CodeNotActivated, "Account is not activated")
	}

	return service.issueTokens(context, user)
}

/*
RefreshToken exchanges a valid refresh token for a fresh token pair.

Description: Verifies the refresh token's signature and expiry, re-checks
that the account still exists and is active, and issues a new pair. The
presented refresh token remains valid until its own expiry.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginSession: New session credentials
  - err: INVALID_TOKEN or storage failures
*/
func (service *Service) RefreshToken(context context.Context, refreshToken string) (*LoginSession, error) {

	claims, err := service.tokenProvider.VerifyToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid or expired refresh token")
	}

	// The account behind the token must still exist and be active
	user, err := service.userRepository.FindByID(context, claims.UserID())
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid or expired refresh token")
	}

	if !user.Active {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid or expired refresh token")
	}

	return service.issueTokens(context, user)
}

/*
Logout revokes the session bound to the presented refresh token.

Description: Deletes the matching session row by exact token match. The
operation is idempotent: a token with no session (already logged out,
expired, or never recorded) still succeeds.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	tokenHash := sec.HashToken(refreshToken)

	if err := service.sessionRepository.DeleteByTokenHash(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// PurgeExpiredSessions removes session rows whose refresh tokens can no
// longer be presented. Called periodically by the server's janitor.
func (service *Service) PurgeExpiredSessions(context context.Context) error {
	if err := service.sessionRepository.DeleteExpired(context); err != nil {
		return fmt.Errorf("auth_service_purge_sessions_failed: %w", err)
	}
	return nil
}

// # Profile & Guards

/*
GetMe returns the profile of the authenticated user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Profile fields
  - err: USER_NOT_FOUND if the id no longer resolves
*/
func (service *Service) GetMe(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

/*
VerifyAccount confirms that an account is still usable for authenticated calls.

Description: Backs the per-request account guard. Token claims alone cannot
reflect a deactivation that happened after issuance, so this hits storage.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Unauthorized with USER_NOT_FOUND or ACCOUNT_INACTIVE
*/
func (service *Service) VerifyAccount(context context.Context, userID string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return apperr.Unauthorized(apperr.CodeUserNotFound, "User not found")
	}

	if !user.Active {
		return apperr.Unauthorized(apperr.CodeAccountInactive, "Account is inactive")
	}

	return nil
}

// # Internal Helpers

// issueTokens mints an access/refresh pair and records the refresh session.
func (service *Service) issueTokens(context context.Context, user *User) (*LoginSession, error) {

	accessToken, err := service.tokenProvider.GenerateToken(user.ID, user.Phone, string(user.Role), service.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.GenerateToken(user.ID, user.Phone, string(user.Role), service.refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Record the refresh token so logout can revoke it by exact match
	session := &Session{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(service.refreshTokenTTL),
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(service.accessTokenTTL / time.Second),
		User:         user,
	}, nil
}
