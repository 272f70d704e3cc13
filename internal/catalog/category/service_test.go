// Copyright (c) 2026 Souq. All rights reserved.

package category_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/internal/catalog/category"
	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/pkg/uuidv7"
)

// # Test Fakes

type fakeCategoryRepo struct {
	byID map[string]*category.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: make(map[string]*category.Category)}
}

func (repo *fakeCategoryRepo) List(_ context.Context) ([]category.Category, error) {
	var all []category.Category
	for _, item := range repo.byID {
		all = append(all, *item)
	}
	return all, nil
}

func (repo *fakeCategoryRepo) FindByID(_ context.Context, id string) (*category.Category, error) {
	item, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	copied := *item
	return &copied, nil
}

func (repo *fakeCategoryRepo) Create(_ context.Context, item *category.Category) error {
	copied := *item
	repo.byID[item.ID] = &copied
	return nil
}

func (repo *fakeCategoryRepo) Update(_ context.Context, item *category.Category) error {
	if _, ok := repo.byID[item.ID]; !ok {
		return apperr.NotFound("Category")
	}
	copied := *item
	repo.byID[item.ID] = &copied
	return nil
}

func (repo *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := repo.byID[id]; !ok {
		return apperr.NotFound("Category")
	}
	delete(repo.byID, id)
	return nil
}

type fakeAuditLog struct {
	entries []*audit.Entry
}

func (log *fakeAuditLog) Append(_ context.Context, entry *audit.Entry) error {
	log.entries = append(log.entries, entry)
	return nil
}

// # Tests

/*
TestCategoryLifecycle verifies create, update, and delete with their audit
trail entries.
*/
func TestCategoryLifecycle(t *testing.T) {
	repo := newFakeCategoryRepo()
	auditLog := &fakeAuditLog{}
	service := category.NewService(repo, auditLog)
	adminID := uuidv7.New()

	// 1. Create
	created, err := service.CreateCategory(context.Background(), adminID, category.CategoryInput{
		NameEn: "Electronics",
		NameAr: "إلكترونيات",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.ParentID)

	// 2. Update
	updated, err := service.UpdateCategory(context.Background(), adminID, created.ID, category.CategoryInput{
		NameEn: "Consumer Electronics",
		NameAr: "إلكترونيات",
	})
	require.NoError(t, err)
	assert.Equal(t, "Consumer Electronics", updated.NameEn)

	// 3. Delete
	require.NoError(t, service.DeleteCategory(context.Background(), adminID, created.ID))
	_, err = service.GetCategory(context.Background(), created.ID)
	require.Error(t, err)

	// 4. Each mutation audited with the admin attributed
	require.Len(t, auditLog.entries, 3)
	assert.Equal(t, audit.ActionCategoryCreated, auditLog.entries[0].Action)
	assert.Equal(t, audit.ActionCategoryUpdated, auditLog.entries[1].Action)
	assert.Equal(t, audit.ActionCategoryDeleted, auditLog.entries[2].Action)
	for _, entry := range auditLog.entries {
		assert.Equal(t, adminID, entry.AdminID)
		assert.Equal(t, "category", entry.ResourceType)
	}
}

/*
TestUpdateCategory_NotFound verifies updates against unknown IDs fail.
*/
func TestUpdateCategory_NotFound(t *testing.T) {
	service := category.NewService(newFakeCategoryRepo(), &fakeAuditLog{})

	_, err := service.UpdateCategory(context.Background(), uuidv7.New(), uuidv7.New(), category.CategoryInput{
		NameEn: "Ghost",
		NameAr: "شبح",
	})
	require.Error(t, err)
}
