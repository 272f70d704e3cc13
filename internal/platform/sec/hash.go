// Copyright (c) 2026 Souq. All rights reserved.

package sec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the bcrypt cost factor for password hashing.
// Cost 10 balances security and CPU utilization during signup spikes.
const passwordHashCost = 10

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// HashToken returns the SHA-256 hex digest of a refresh token.
//
// Only the digest is stored in the session table, so a leaked database dump
// cannot be replayed against the refresh endpoint.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
