// Copyright (c) 2026 Souq. All rights reserved.

package auth

// # Authentication Constraints

const (
	// MinPasswordLength is the minimum accepted password length at signup.
	MinPasswordLength = 6

	// MaxNameLength bounds the display name to keep storage predictable.
	MaxNameLength = 100

	// MaxSalaryRangeLength bounds the optional free-text salary range field.
	MaxSalaryRangeLength = 50

	// MaxInterestedCategories caps how many category interests a signup may declare.
	MaxInterestedCategories = 20
)
