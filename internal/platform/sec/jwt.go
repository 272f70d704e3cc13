// Copyright (c) 2026 Souq. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, the
// authorization policy table) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer via the
// [TokenProvider]-style interfaces the domains define.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside both token classes.
//
// # Why custom claims?
//
// By embedding the phone and role directly inside the JWT, the authentication
// middleware can reconstruct the caller identity WITHOUT querying the database
// on every single API request. Access and refresh tokens share this payload
// shape and differ only in lifetime.
type AuthClaims struct {
	jwt.RegisteredClaims

	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// UserID returns the subject claim, which carries the account UUID.
func (c *AuthClaims) UserID() string { return c.Subject }

// TokenService handles generation and verification of JWT tokens using HS256.
//
// A single symmetric secret signs both access and refresh tokens; the caller
// controls the lifetime per token class.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a TokenService from the shared signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// GenerateToken creates a signed JWT bound to a user identity and role.
func (service *TokenService) GenerateToken(userID, phone, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Phone: phone,
		Role:  role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
