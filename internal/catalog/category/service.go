// Copyright (c) 2026 Souq. All rights reserved.

package category

import (
	"context"
	"fmt"

	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/pkg/uuidv7"
)

// # Service

// Service implements category management use cases.
type Service struct {
	repository Repository
	auditLog   audit.Recorder
}

// NewService constructs a new category [Service] with necessary dependencies.
func NewService(repository Repository, auditLog audit.Recorder) *Service {
	return &Service{repository: repository, auditLog: auditLog}
}

// ListCategories returns the full category tree with product counts.
func (service *Service) ListCategories(context context.Context) ([]Category, error) {
	return service.repository.List(context)
}

// GetCategory returns a single category by ID.
func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	return service.repository.FindByID(context, id)
}

// CategoryInput holds the mutable fields of a category.
type CategoryInput struct {
	NameEn   string
	NameAr   string
	ParentID *string
}

/*
CreateCategory persists a new category and records the admin action.

Parameters:
  - context: context.Context
  - adminID: string
  - input: CategoryInput

Returns:
  - *Category: Created entity
  - err: Persistence failures
*/
func (service *Service) CreateCategory(context context.Context, adminID string, input CategoryInput) (*Category, error) {
	category := &Category{
		ID:       uuidv7.New(),
		NameEn:   input.NameEn,
		NameAr:   input.NameAr,
		ParentID: input.ParentID,
	}

	if err := service.repository.Create(context, category); err != nil {
		return nil, fmt.Errorf("category_service_create_failed: %w", err)
	}

	service.record(context, adminID, audit.ActionCategoryCreated, category.ID, nil, category)
	return category, nil
}

/*
UpdateCategory applies name/parent changes and records the admin action.

Parameters:
  - context: context.Context
  - adminID: string
  - id: string
  - input: CategoryInput

Returns:
  - *Category: Updated entity
  - err: Not found or persistence failures
*/
func (service *Service) UpdateCategory(context context.Context, adminID, id string, input CategoryInput) (*Category, error) {
	existing, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	updated := &Category{
		ID:        existing.ID,
		NameEn:    input.NameEn,
		NameAr:    input.NameAr,
		ParentID:  input.ParentID,
		CreatedAt: existing.CreatedAt,
	}

	if err := service.repository.Update(context, updated); err != nil {
		return nil, err
	}

	service.record(context, adminID, audit.ActionCategoryUpdated, id, existing, updated)
	return updated, nil
}

/*
DeleteCategory removes a category, detaching its products, and records the
admin action.

Parameters:
  - context: context.Context
  - adminID: string
  - id: string

Returns:
  - err: Not found or deletion failures
*/
func (service *Service) DeleteCategory(context context.Context, adminID, id string) error {
	existing, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.record(context, adminID, audit.ActionCategoryDeleted, id, existing, nil)
	return nil
}

// record appends an audit entry; audit failures never block the mutation.
func (service *Service) record(context context.Context, adminID, action, resourceID string, oldValue, newValue interface{}) {
	_ = service.auditLog.Append(context, &audit.Entry{
		ID:           uuidv7.New(),
		AdminID:      adminID,
		Action:       action,
		ResourceType: "category",
		ResourceID:   resourceID,
		OldValue:     audit.Snapshot(oldValue),
		NewValue:     audit.Snapshot(newValue),
	})
}
