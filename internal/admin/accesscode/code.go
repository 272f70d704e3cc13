// Copyright (c) 2026 Souq. All rights reserved.

/*
Package accesscode implements the admin-side issuance of activation codes.

Admins generate batches of short random codes, each carrying a role grant,
a validity window, and a usage quota. Unactivated users redeem these codes
through the auth domain to unlock their accounts.

# Architecture

This package owns code issuance and listing only. Redemption (the quota
decrement) lives in the auth domain so the activation transaction stays in
one place.
*/
package accesscode

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/souqhq/souq/internal/platform/sec"
)

// # Domain Entities

// AccessCode represents one issued activation code.
type AccessCode struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Role        sec.Role  `json:"role"`
	ValidFrom   time.Time `json:"validFrom"`
	ValidUntil  time.Time `json:"validUntil"`
	UsesAllowed int       `json:"usesAllowed"`
	UsesCount   int       `json:"usesCount"`
	IsUsed      bool      `json:"isUsed"`
	IssuedBy    string    `json:"issuedBy"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// # Issuance Constraints

const (
	// CodeLength is the fixed length of every generated code.
	CodeLength = 8

	// MinValidDays / MaxValidDays bound the validity window (up to ~10 years).
	MinValidDays = 1
	MaxValidDays = 3650

	// MinUsesAllowed / MaxUsesAllowed bound the per-code usage quota.
	MinUsesAllowed = 1
	MaxUsesAllowed = 1000

	// MinBatchCount / MaxBatchCount bound how many codes one request may mint.
	MinBatchCount = 1
	MaxBatchCount = 100
)

// codeCharset is the uppercase alphanumeric alphabet codes are drawn from.
// Codes are stored uppercase; redemption normalizes input before lookup.
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// # Code Generation

// GenerateCode returns a CodeLength-character string drawn uniformly from
// [A-Z0-9] using the OS entropy source.
//
// Bytes at or above the largest multiple of the charset size are rejected
// so the per-character distribution stays uniform.
func GenerateCode() (string, error) {
	const rejectAbove = 252 // largest multiple of len(codeCharset) below 256

	code := make([]byte, 0, CodeLength)
	buffer := make([]byte, CodeLength*2)

	for len(code) < CodeLength {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("accesscode_generate_failed: %w", err)
		}

		for _, randomByte := range buffer {
			if randomByte >= rejectAbove {
				continue
			}
			code = append(code, codeCharset[int(randomByte)%len(codeCharset)])
			if len(code) == CodeLength {
				break
			}
		}
	}

	return string(code), nil
}

// # Field Identifiers

const (
	FieldRole        = "role"
	FieldValidDays   = "validDays"
	FieldUsesAllowed = "usesAllowed"
	FieldCount       = "count"
	FieldNote        = "note"
)
