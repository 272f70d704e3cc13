// Copyright (c) 2026 Souq. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqhq/souq/internal/platform/sec"
)

func newService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-signing-secret", "souq.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies a generated token carries the identity
claims back through verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newService(t)

	// 1. Generate
	token, err := service.GenerateToken("user-123", "+966500000001", "admin", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// 2. Verify
	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "+966500000001", claims.Phone)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "souq.test", claims.Issuer)
}

/*
TestTokenService_Expired verifies expired tokens are rejected.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newService(t)

	token, err := service.GenerateToken("user-123", "+966500000001", "user", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	require.Error(t, err)
}

/*
TestTokenService_WrongSecret verifies a token signed with a different secret
fails verification.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuing := newService(t)
	verifying, err := sec.NewTokenService("a-completely-different-secret", "souq.test")
	require.NoError(t, err)

	token, err := issuing.GenerateToken("user-123", "+966500000001", "user", time.Minute)
	require.NoError(t, err)

	_, err = verifying.VerifyToken(token)
	require.Error(t, err)
}

/*
TestTokenService_Garbage verifies malformed strings are rejected.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := newService(t)

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyToken(input)
		assert.Error(t, err, "input %q must be rejected", input)
	}
}

/*
TestTokenService_EmptySecret verifies construction fails without a secret.
*/
func TestTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "souq.test")
	require.Error(t, err)
}

/*
TestHashToken verifies the digest is deterministic and never the raw token.
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("some-refresh-token")

	assert.Len(t, digest, 64) // sha256 hex
	assert.Equal(t, digest, sec.HashToken("some-refresh-token"))
	assert.NotEqual(t, digest, sec.HashToken("another-token"))
	assert.NotContains(t, digest, "some-refresh-token")
}

/*
TestPasswordHashing verifies the bcrypt round trip.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("secret123", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
	assert.NotEqual(t, "secret123", hash)
}
