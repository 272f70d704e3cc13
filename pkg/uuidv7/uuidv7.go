// Copyright (c) 2026 Souq. All rights reserved.

// Package uuidv7 generates time-ordered UUIDv7 identifiers.
//
// Every Souq table keys on UUIDv7 rather than v4: the timestamp prefix keeps
// inserts roughly append-only in the primary-key index instead of scattering
// them across pages.
package uuidv7

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string. It panics if the OS entropy source is
// unavailable, which is not a condition the caller can recover from.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: " + err.Error())
	}
	return id.String()
}
