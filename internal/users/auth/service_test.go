// Copyright (c) 2026 Souq. All rights reserved.

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepo struct {
	byID    map[string]*auth.User
	byPhone map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*auth.User),
		byPhone: make(map[string]*auth.User),
	}
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFoundCode(apperr.CodeUserNotFound, "User not found")
}

func (repo *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*auth.User, error) {
	if user, ok := repo.byPhone[phone]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFoundCode(apperr.CodeUserNotFound, "User not found")
}

func (repo *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	if _, exists := repo.byPhone[user.Phone]; exists {
		return apperr.Conflict(apperr.CodeUserAlreadyExists, "This phone number is already registered")
	}
	copied := *user
	repo.byID[user.ID] = &copied
	repo.byPhone[user.Phone] = &copied
	return nil
}

type fakeSessionRepo struct {
	byHash map[string]*auth.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byHash: make(map[string]*auth.Session)}
}

func (repo *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	repo.byHash[session.TokenHash] = session
	return nil
}

func (repo *fakeSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	delete(repo.byHash, tokenHash)
	return nil
}

func (repo *fakeSessionRepo) DeleteExpired(_ context.Context) error { return nil }

type fakeCode struct {
	grant  auth.AccessGrant
	isUsed bool
}

type fakeActivationStore struct {
	users *fakeUserRepo
	codes map[string]*fakeCode // keyed by code string
}

func newFakeActivationStore(users *fakeUserRepo) *fakeActivationStore {
	return &fakeActivationStore{users: users, codes: make(map[string]*fakeCode)}
}

func (store *fakeActivationStore) FindCode(_ context.Context, code string) (*auth.AccessGrant, error) {
	if record, ok := store.codes[code]; ok {
		copied := record.grant
		return &copied, nil
	}
	return nil, apperr.BadRequest(apperr.CodeInvalidAccessCode, "Invalid access code")
}

func (store *fakeActivationStore) CompleteActivation(_ context.Context, codeID, userID string, role sec.Role) error {
	for _, record := range store.codes {
		if record.grant.ID != codeID {
			continue
		}
		// Mirrors the conditional UPDATE: never spend past the quota.
		if record.grant.UsesCount >= record.grant.UsesAllowed {
			return apperr.BadRequest(apperr.CodeUsageLimitReached, "Access code usage limit reached")
		}
		record.grant.UsesCount++
		record.isUsed = record.grant.UsesCount >= record.grant.UsesAllowed

		user := store.users.byID[userID]
		user.Active = true
		user.Role = role
		return nil
	}
	return apperr.BadRequest(apperr.CodeInvalidAccessCode, "Invalid access code")
}

// # Test Fixture

const (
	testPhone    = "+966500000001"
	testPassword = "secret123"
)

func newTestService(t *testing.T) (*auth.Service, *fakeUserRepo, *fakeSessionRepo, *fakeActivationStore) {
	t.Helper()

	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	activation := newFakeActivationStore(users)

	tokens, err := sec.NewTokenService("test-signing-secret", "souq.test")
	require.NoError(t, err)

	service := auth.NewService(users, sessions, activation, tokens, 15*time.Minute, 30*24*time.Hour)
	return service, users, sessions, activation
}

func seedCode(store *fakeActivationStore, code string, role sec.Role, usesAllowed, usesCount int, validFrom, validUntil time.Time) {
	store.codes[code] = &fakeCode{
		grant: auth.AccessGrant{
			ID:          "code-" + code,
			Code:        code,
			Role:        role,
			ValidFrom:   validFrom,
			ValidUntil:  validUntil,
			UsesAllowed: usesAllowed,
			UsesCount:   usesCount,
		},
	}
}

func signupUser(t *testing.T, service *auth.Service, phone string) *auth.User {
	t.Helper()
	user, err := service.Signup(context.Background(), auth.SignupInput{
		Name:            "Test User",
		Phone:           phone,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	return user
}

// # Signup

/*
TestSignup_CreatesInactiveUser verifies that every new account starts
inactive with the lowest role, regardless of input.
*/
func TestSignup_CreatesInactiveUser(t *testing.T) {
	service, _, _, _ := newTestService(t)

	user := signupUser(t, service, testPhone)

	assert.False(t, user.Active)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, testPassword, user.PasswordHash, "password must never be stored in plain text")
}

/*
TestSignup_PasswordMismatch verifies that mismatched passwords fail with
VALIDATION_ERROR and create no user.
*/
func TestSignup_PasswordMismatch(t *testing.T) {
	service, users, _, _ := newTestService(t)

	_, err := service.Signup(context.Background(), auth.SignupInput{
		Name:            "Test User",
		Phone:           testPhone,
		Password:        testPassword,
		ConfirmPassword: "different",
	})

	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.Empty(t, users.byPhone)
}

/*
TestSignup_DuplicatePhone verifies that registering an existing phone fails
with USER_ALREADY_EXISTS.
*/
func TestSignup_DuplicatePhone(t *testing.T) {
	service, _, _, _ := newTestService(t)
	signupUser(t, service, testPhone)

	_, err := service.Signup(context.Background(), auth.SignupInput{
		Name:            "Second User",
		Phone:           testPhone,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})

	assert.True(t, apperr.IsCode(err, apperr.CodeUserAlreadyExists))
}

// # Activation

/*
TestActivate_Success verifies the full redemption path: the user becomes
active with the granted role, and the code's counter advances by exactly one.
*/
func TestActivate_Success(t *testing.T) {
	service, _, _, activation := newTestService(t)
	signupUser(t, service, testPhone)

	now := time.Now()
	seedCode(activation, "ABCD1234", sec.RoleAdmin, 2, 0, now.Add(-time.Hour), now.Add(time.Hour))

	user, err := service.Activate(context.Background(), auth.ActivateInput{
		Phone:      testPhone,
		Password:   testPassword,
		AccessCode: "abcd1234", // lowercase input must be normalized
	})

	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.Equal(t, sec.RoleAdmin, user.Role)

	record := activation.codes["ABCD1234"]
	assert.Equal(t, 1, record.grant.UsesCount)
	assert.False(t, record.isUsed, "isUsed must only flip when the quota is exhausted")
}

/*
TestActivate_ExpiredCode verifies that a code outside its validity window
fails with EXPIRED_CODE and leaves the usage counter unchanged.
*/
func TestActivate_ExpiredCode(t *testing.T) {
	service, _, _, activation := newTestService(t)
	signupUser(t, service, testPhone)

	now := time.Now()
	seedCode(activation, "OLDCODE1", sec.RoleAdmin, 1, 0, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	_, err := service.Activate(context.Background(), auth.ActivateInput{
		Phone:      testPhone,
		Password:   testPassword,
		AccessCode: "OLDCODE1",
	})

	assert.True(t, apperr.IsCode(err, apperr.CodeExpiredCode))
	assert.Equal(t, 0, activation.codes["OLDCODE1"].grant.UsesCount)
}

/*
TestActivate_NotYetValidCode verifies that a code whose window has not opened
yet is rejected the same way as an expired one.
*/
func TestActivate_NotYetValidCode(t *testing.T) {
	service, _, _, activation := newTestService(t)
	signupUser(t, service, testPhone)

	now := time.Now()
	seedCode(activation, "FUTURE01", sec.RoleAdmin, 1, 0, now.Add(24*time.Hour), now.Add(48*time.Hour))

	_, err := service.Activate(context.Background(), auth.ActivateInput{
		Phone:      testPhone,
		Password:   testPassword,
		AccessCode: "FUTURE01",
	})

	assert.True(t, apperr.IsCode(err, apperr.CodeExpiredCode))
}

/*
TestActivate_ExhaustedCode verifies that a code at its usage quota fails with
CODE_USAGE_LIMIT_REACHED.
*/
func TestActivate_ExhaustedCode(t *testing.T) {
	service, _, _, activation := newTestService(t)
	signupUser(t, service, testPhone)

	now := time.Now()
	seedCode(activation, "SPENT001", sec.RoleAdmin, 1, 1, now.Add(-time.Hour), now.Add(time.Hour))

	_, err := service.Activate(context.Background(), auth.ActivateInput{
		Phone:      testPhone,
		Password:   testPassword,
		AccessCode: "SPENT001",
	})

	assert.True(t, apperr.IsCode(err, apperr.CodeUsageLimitReached))
}

/*
TestActivate_SingleUseScenario walks the documented scenario: a single-use
admin code activates the first user, flips isUsed, and rejects a second user.
*/
func TestActivate_SingleUseScenario(t *testing.T) {
	service, _, _, activation := newTestService(t)
	signupUser(t, service, testPhone)
	signupUser(t, service, "+966500000002")

	now := time.Now()
	seedCode(activation, "ONESHOT1", sec.RoleAdmin, 1, 0, now, now.AddDate(0, 0, 30))

	// 1. First redemption succeeds and grants the admin role
	first, err := service.Activate(context.Background(), auth.ActivateInput{
		Phone:      testPhone,
		Password:   testPassword,
		AccessCode: "ONESHOT1",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, first.Role)
	assert.True(t, activation.codes["ONESHOT1"].isUsed)

	// 2. Second redemption by a different user fails on the quota
	_, err = service.Activate(context.Background(), auth.ActivateInput{
		Phone:      "+966500000002",
		Password:   testPassword,
		AccessCode: "ONESHOT1",
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeUsageLimitReached))
}

/*
TestActivate_AlreadyActivated verifies that an active account cannot redeem
a second code.
*/
func TestActivate_AlreadyActivated(t *testing.T) {
	service, _, _, activation := newTestService(t)
	signupUser(t, service, testPhone)

	now := time.Now()
	seedCode(activation, "FIRSTUSE", sec.RoleUser, 5, 0, now.Add(-time.Hour), now.Add(time.Hour))

	_, err := service.Activate(context.Background(), auth.ActivateInput{
		Phone: testPhone, Password: testPassword, AccessCode: "FIRSTUSE",
	})
	require.NoError(t, err)

	_, err = service.Activate(context.Background(), auth.ActivateInput{
		Phone: testPhone, Password: testPassword, AccessCode: "FIRSTUSE",
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyActivated))
}

/*
TestActivate_WrongPassword verifies that activation authenticates before
touching any code state.
*/
func TestActivate_WrongPassword(t *testing.T) {
	service, _, _, activation := newTestService(t)
	signupUser(t, service, testPhone)

	now := time.Now()
	seedCode(activation, "GOODCODE", sec.RoleAdmin, 1, 0, now.Add(-time.Hour), now.Add(time.Hour))

	_, err := service.Activate(context.Background(), auth.ActivateInput{
		Phone:      testPhone,
		Password:   "wrong-password",
		AccessCode: "GOODCODE",
	})

	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCredentials))
	assert.Equal(t, 0, activation.codes["GOODCODE"].grant.UsesCount)
}

// # Login

// activateUser promotes a signed-up user directly, bypassing code redemption.
func activateUser(users *fakeUserRepo, phone string, role sec.Role) {
	user := users.byPhone[phone]
	user.Active = true
	user.Role = role
}

/*
TestLogin_Success verifies that an activated user receives a full token pair
and that the refresh session is recorded.
*/
func TestLogin_Success(t *testing.T) {
	service, users, sessions, _ := newTestService(t)
	signupUser(t, service, testPhone)
	activateUser(users, testPhone, sec.RoleUser)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Phone:    testPhone,
		Password: testPassword,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, int64(900), session.ExpiresIn)
	assert.Len(t, sessions.byHash, 1, "the refresh token must be recorded for logout")
}

/*
TestLogin_InactiveAccount verifies that correct credentials on an inactive
account fail with ACCOUNT_NOT_ACTIVATED.
*/
func TestLogin_InactiveAccount(t *testing.T) {
	service, _, _, _ := newTestService(t)
	signupUser(t, service, testPhone)

	_, err := service.Login(context.Background(), auth.LoginInput{
		Phone:    testPhone,
		Password: testPassword,
	})

	assert.True(t, apperr.IsCode(err, apperr.CodeNotActivated))
}

/*
TestLogin_NoEnumerationSignal verifies that an unknown phone and a bad
password produce byte-identical error responses.
*/
func TestLogin_NoEnumerationSignal(t *testing.T) {
	service, users, _, _ := newTestService(t)
	signupUser(t, service, testPhone)
	activateUser(users, testPhone, sec.RoleUser)

	_, unknownPhoneErr := service.Login(context.Background(), auth.LoginInput{
		Phone:    "+966599999999",
		Password: testPassword,
	})
	_, badPasswordErr := service.Login(context.Background(), auth.LoginInput{
		Phone:    testPhone,
		Password: "wrong-password",
	})

	assert.True(t, apperr.IsCode(unknownPhoneErr, apperr.CodeInvalidCredentials))
	assert.True(t, apperr.IsCode(badPasswordErr, apperr.CodeInvalidCredentials))
	assert.Equal(t, unknownPhoneErr.Error(), badPasswordErr.Error())
}

// # Token Lifecycle

/*
TestRefreshToken_RoundTrip verifies that a login-issued refresh token yields
a new valid access token whose subject and role match the original user.
*/
func TestRefreshToken_RoundTrip(t *testing.T) {
	service, users, _, _ := newTestService(t)
	created := signupUser(t, service, testPhone)
	activateUser(users, testPhone, sec.RoleAdmin)

	login, err := service.Login(context.Background(), auth.LoginInput{
		Phone:    testPhone,
		Password: testPassword,
	})
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// Decode the new access token and compare its identity claims
	tokens, err := sec.NewTokenService("test-signing-secret", "souq.test")
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID())
	assert.Equal(t, string(sec.RoleAdmin), claims.Role)
}

/*
TestRefreshToken_Garbage verifies that an unverifiable token fails with
INVALID_TOKEN.
*/
func TestRefreshToken_Garbage(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.RefreshToken(context.Background(), "not.a.jwt")

	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidToken))
}

/*
TestRefreshToken_DeactivatedAccount verifies that a refresh token stops
working once the account behind it is deactivated.
*/
func TestRefreshToken_DeactivatedAccount(t *testing.T) {
	service, users, _, _ := newTestService(t)
	signupUser(t, service, testPhone)
	activateUser(users, testPhone, sec.RoleUser)

	login, err := service.Login(context.Background(), auth.LoginInput{
		Phone:    testPhone,
		Password: testPassword,
	})
	require.NoError(t, err)

	users.byPhone[testPhone].Active = false

	_, err = service.RefreshToken(context.Background(), login.RefreshToken)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidToken))
}

/*
TestLogout_Idempotent verifies that logging out twice with the same token
does not error the second time.
*/
func TestLogout_Idempotent(t *testing.T) {
	service, users, sessions, _ := newTestService(t)
	signupUser(t, service, testPhone)
	activateUser(users, testPhone, sec.RoleUser)

	login, err := service.Login(context.Background(), auth.LoginInput{
		Phone:    testPhone,
		Password: testPassword,
	})
	require.NoError(t, err)

	// 1. First logout removes the session
	require.NoError(t, service.Logout(context.Background(), login.RefreshToken))
	assert.Empty(t, sessions.byHash)

	// 2. Second logout is a no-op, not an error
	assert.NoError(t, service.Logout(context.Background(), login.RefreshToken))
}

// # Guards

/*
TestVerifyAccount covers the per-request account guard: missing accounts and
deactivated accounts are both rejected with their distinct codes.
*/
func TestVerifyAccount(t *testing.T) {
	service, users, _, _ := newTestService(t)
	created := signupUser(t, service, testPhone)

	// 1. Inactive account
	err := service.VerifyAccount(context.Background(), created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeAccountInactive))

	// 2. Active account passes
	activateUser(users, testPhone, sec.RoleUser)
	assert.NoError(t, service.VerifyAccount(context.Background(), created.ID))

	// 3. Unknown account
	err = service.VerifyAccount(context.Background(), "missing-id")
	assert.True(t, apperr.IsCode(err, apperr.CodeUserNotFound))
}

/*
TestGetMe verifies profile resolution and the USER_NOT_FOUND path.
*/
func TestGetMe(t *testing.T) {
	service, _, _, _ := newTestService(t)
	created := signupUser(t, service, testPhone)

	user, err := service.GetMe(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, testPhone, user.Phone)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"), "stored hash should be bcrypt")

	_, err = service.GetMe(context.Background(), "missing-id")
	assert.True(t, apperr.IsCode(err, apperr.CodeUserNotFound))
}
