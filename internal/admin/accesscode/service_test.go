// Copyright (c) 2026 Souq. All rights reserved.

package accesscode_test

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqhq/souq/internal/admin/accesscode"
	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/pkg/pagination"
)

// # In-Memory Fakes

type fakeCodeRepo struct {
	codes []accesscode.AccessCode
}

func (repo *fakeCodeRepo) CreateBatch(_ context.Context, codes []*accesscode.AccessCode) error {
	for _, code := range codes {
		repo.codes = append(repo.codes, *code)
	}
	return nil
}

func (repo *fakeCodeRepo) List(_ context.Context, params pagination.Params) ([]accesscode.AccessCode, int, error) {
	sorted := make([]accesscode.AccessCode, len(repo.codes))
	copy(sorted, repo.codes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	start := params.Offset()
	if start > len(sorted) {
		return nil, len(repo.codes), nil
	}
	end := start + params.Limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end], len(repo.codes), nil
}

type fakeAuditLog struct {
	entries []audit.Entry
}

func (log *fakeAuditLog) Append(_ context.Context, entry *audit.Entry) error {
	log.entries = append(log.entries, *entry)
	return nil
}

func newTestService() (*accesscode.Service, *fakeCodeRepo, *fakeAuditLog) {
	repo := &fakeCodeRepo{}
	auditLog := &fakeAuditLog{}
	return accesscode.NewService(repo, auditLog), repo, auditLog
}

// # Code Generation

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

/*
TestGenerateCode_Format verifies the shape of a single generated code.
*/
func TestGenerateCode_Format(t *testing.T) {
	for range 100 {
		code, err := accesscode.GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
	}
}

/*
TestGenerateCodes_Batch verifies that a batch of N codes yields N distinct
records with fresh counters, the requested validity window, and exactly one
audit entry summarizing the batch.
*/
func TestGenerateCodes_Batch(t *testing.T) {
	service, repo, auditLog := newTestService()

	before := time.Now()
	codes, err := service.GenerateCodes(context.Background(), accesscode.GenerateInput{
		AdminID:     "admin-1",
		Role:        sec.RoleAdmin,
		ValidDays:   30,
		UsesAllowed: 5,
		Count:       10,
		Note:        "onboarding batch",
	})
	require.NoError(t, err)
	require.Len(t, codes, 10)
	require.Len(t, repo.codes, 10)

	// 1. Every code starts unspent with the requested parameters
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.Regexp(t, codePattern, code.Code)
		assert.False(t, seen[code.Code], "codes within a batch must be distinct")
		seen[code.Code] = true

		assert.Equal(t, 0, code.UsesCount)
		assert.False(t, code.IsUsed)
		assert.Equal(t, 5, code.UsesAllowed)
		assert.Equal(t, sec.RoleAdmin, code.Role)
		assert.Equal(t, "admin-1", code.IssuedBy)
		assert.Equal(t, "onboarding batch", code.Note)

		// validUntil = validFrom + validDays
		assert.Equal(t, code.ValidFrom.AddDate(0, 0, 30), code.ValidUntil)
		assert.WithinDuration(t, before, code.ValidFrom, 5*time.Second)
	}

	// 2. Exactly one audit entry for the whole batch
	require.Len(t, auditLog.entries, 1)
	entry := auditLog.entries[0]
	assert.Equal(t, "admin-1", entry.AdminID)
	assert.Equal(t, audit.ActionAccessCodesGenerated, entry.Action)
	assert.Equal(t, "access_code", entry.ResourceType)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(entry.NewValue, &summary))
	assert.EqualValues(t, 10, summary["count"])
	assert.Equal(t, "admin", summary["role"])
	assert.EqualValues(t, 30, summary["validDays"])
	assert.EqualValues(t, 5, summary["usesAllowed"])
}

/*
TestGenerateCodes_Defaults verifies the count and note defaults.
*/
func TestGenerateCodes_Defaults(t *testing.T) {
	service, repo, _ := newTestService()

	codes, err := service.GenerateCodes(context.Background(), accesscode.GenerateInput{
		AdminID:     "admin-1",
		Role:        sec.RoleUser,
		ValidDays:   7,
		UsesAllowed: 1,
	})

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Len(t, repo.codes, 1)
	assert.Equal(t, "user access code", codes[0].Note)
}

// # Listing

/*
TestListCodes_Pagination verifies paging math against exactly 3 codes:
page 2 with limit 1 returns 1 code, total 3, totalPages 3.
*/
func TestListCodes_Pagination(t *testing.T) {
	service, repo, _ := newTestService()

	base := time.Now()
	for i := range 3 {
		repo.codes = append(repo.codes, accesscode.AccessCode{
			ID:        string(rune('a' + i)),
			Code:      "CODE000" + string(rune('1'+i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	params := pagination.Params{Page: 2, Limit: 1}
	codes, total, err := service.ListCodes(context.Background(), params)
	require.NoError(t, err)

	assert.Len(t, codes, 1)
	assert.Equal(t, 3, total)

	meta := pagination.NewMeta(params.Page, params.Limit, total)
	assert.Equal(t, 3, meta.TotalPages)

	// Newest-first ordering: page 2 carries the middle code
	assert.Equal(t, "CODE0002", codes[0].Code)
}
