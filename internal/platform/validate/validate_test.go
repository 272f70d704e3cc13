// Copyright (c) 2026 Souq. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Souq", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Phone checks the E.164 phone format rule.
*/
func TestValidator_Phone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		isValid bool
	}{
		{"saudi_mobile", "+966500000001", true},
		{"short_international", "+12025550", true},
		{"missing_plus", "966500000001", false},
		{"leading_zero", "+0500000001", false},
		{"letters", "+9665abc0001", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Phone("phone", tt.phone)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_AccessCode checks the activation-code format rule.
*/
func TestValidator_AccessCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		isValid bool
	}{
		{"uppercase", "A1B2C3D4", true},
		{"lowercase_accepted", "a1b2c3d4", true},
		{"too_short", "A1B2C3", false},
		{"too_long", "A1B2C3D4E", false},
		{"symbols", "A1B2C3D!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.AccessCode("accessCode", tt.code)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_OneOf checks the closed-set membership rule.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("role", "admin", "super_admin", "admin", "user")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.OneOf("role", "root", "super_admin", "admin", "user")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("name", "Tai").
		MinLen("password", "secret123", 6).
		MaxLen("name", "Tai", 100).
		Phone("phone", "+966500000001").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").          // Fails
		MinLen("password", "abc", 6).  // Fails
		Phone("phone", "not-a-phone"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
