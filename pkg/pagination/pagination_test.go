// Copyright (c) 2026 Souq. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/souqhq/souq/pkg/pagination"
)

/*
TestFromRequest verifies query parsing and clamping of page/limit values.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"zero_page_clamped", "?page=0", 1, 20},
		{"negative_page_clamped", "?page=-2", 1, 20},
		{"excessive_limit_clamped", "?limit=5000", 1, 20},
		{"garbage_ignored", "?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/items"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset verifies the SQL offset derivation.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, pagination.Params{Page: 10, Limit: 10}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total page computation, including partial last pages.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 10, 25)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 25, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, pagination.NewMeta(1, 10, 0).TotalPages)
	assert.Equal(t, 1, pagination.NewMeta(1, 10, 10).TotalPages)
}
