// Copyright (c) 2026 Souq. All rights reserved.

package product

import (
	"context"
	"fmt"

	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/pkg/uuidv7"
)

// # Service

// Service implements catalog use cases for both the storefront and admin surfaces.
type Service struct {
	repository       Repository
	socialRepository SocialRepository
	auditLog         audit.Recorder
}

// NewService constructs a new product [Service] with necessary dependencies.
func NewService(repository Repository, socialRepository SocialRepository, auditLog audit.Recorder) *Service {
	return &Service{
		repository:       repository,
		socialRepository: socialRepository,
		auditLog:         auditLog,
	}
}

// # Storefront Operations

/*
ListProducts returns the public product listing.

Description: The storefront never sees soft-deleted rows regardless of what
the caller put in the filter.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Product: Page of products
  - int: Total count for pagination
  - err: Execution errors
*/
func (service *Service) ListProducts(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	filter.IncludeDeleted = false
	return service.repository.List(context, filter, limit, offset)
}

/*
GetProduct returns a single active product.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Product: The product
  - err: apperr.NotFound or execution errors
*/
func (service *Service) GetProduct(context context.Context, id string) (*Product, error) {
	return service.repository.FindByID(context, id, false)
}

/*
RecordView counts one view on an active product.

Description: A bare counter bump with no dedup; the increment is a single
atomic update expression so concurrent viewers never lose counts.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - err: apperr.NotFound or execution errors
*/
func (service *Service) RecordView(context context.Context, id string) error {
	return service.repository.IncrementViews(context, id)
}

// # Admin Operations

// ListAllProducts returns the admin listing, soft-deleted rows included.
func (service *Service) ListAllProducts(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	filter.IncludeDeleted = true
	return service.repository.List(context, filter, limit, offset)
}

// GetAnyProduct returns a product for admins, resolving soft-deleted rows too.
func (service *Service) GetAnyProduct(context context.Context, id string) (*Product, error) {
	return service.repository.FindByID(context, id, true)
}

/*
CreateProduct persists a new product and records the admin action.

Parameters:
  - context: context.Context
  - adminID: string
  - input: *Product (caller-validated fields; ID and counters are assigned here)

Returns:
  - *Product: Created entity
  - err: Persistence failures
*/
func (service *Service) CreateProduct(context context.Context, adminID string, input *Product) (*Product, error) {
	input.ID = uuidv7.New()
	input.ViewsCount = 0
	input.Likes = 0
	input.Dislikes = 0
	if input.Currency == "" {
		input.Currency = DefaultCurrency
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}
	if input.Images == nil {
		input.Images = []string{}
	}

	if err := service.repository.Create(context, input); err != nil {
		return nil, fmt.Errorf("product_service_create_failed: %w", err)
	}

	service.record(context, adminID, audit.ActionProductCreated, input.ID, nil, input)
	return input, nil
}

/*
UpdateProduct applies field changes to an active product and records the
admin action with before/after snapshots.

Parameters:
  - context: context.Context
  - adminID: string
  - id: string
  - apply: func(*Product) (mutates the loaded entity in place)

Returns:
  - *Product: Updated entity
  - err: Not found or persistence failures
*/
func (service *Service) UpdateProduct(context context.Context, adminID, id string, apply func(*Product)) (*Product, error) {
	existing, err := service.repository.FindByID(context, id, false)
	if err != nil {
		return nil, err
	}

	before := *existing
	apply(existing)
	if existing.Currency == "" {
		existing.Currency = DefaultCurrency
	}

	if err := service.repository.Update(context, existing); err != nil {
		return nil, err
	}

	service.record(context, adminID, audit.ActionProductUpdated, id, &before, existing)
	return existing, nil
}

/*
SetAvailability flips a product's availability flag and records the action.
*/
func (service *Service) SetAvailability(context context.Context, adminID, id string, available bool) (*Product, error) {
	if err := service.repository.SetAvailability(context, id, available); err != nil {
		return nil, err
	}

	product, err := service.repository.FindByID(context, id, false)
	if err != nil {
		return nil, err
	}

	service.record(context, adminID, audit.ActionProductUpdated, id, nil, map[string]bool{"available": available})
	return product, nil
}

/*
SetStock replaces a product's stock counter and records the action.
*/
func (service *Service) SetStock(context context.Context, adminID, id string, stockCount int) (*Product, error) {
	if err := service.repository.SetStock(context, id, stockCount); err != nil {
		return nil, err
	}

	product, err := service.repository.FindByID(context, id, false)
	if err != nil {
		return nil, err
	}

	service.record(context, adminID, audit.ActionProductUpdated, id, nil, map[string]int{"stockCount": stockCount})
	return product, nil
}

/*
DeleteProduct soft-deletes a product and records the admin action.
*/
func (service *Service) DeleteProduct(context context.Context, adminID, id string) error {
	existing, err := service.repository.FindByID(context, id, false)
	if err != nil {
		return err
	}

	if err := service.repository.SoftDelete(context, id); err != nil {
		return err
	}

	service.record(context, adminID, audit.ActionProductDeleted, id, existing, nil)
	return nil
}

/*
RestoreProduct clears the soft-delete marker and records the admin action.
*/
func (service *Service) RestoreProduct(context context.Context, adminID, id string) (*Product, error) {
	if err := service.repository.Restore(context, id); err != nil {
		return nil, err
	}

	product, err := service.repository.FindByID(context, id, false)
	if err != nil {
		return nil, err
	}

	service.record(context, adminID, audit.ActionProductRestored, id, nil, product)
	return product, nil
}

// record appends an audit entry; audit failures never block the mutation.
func (service *Service) record(context context.Context, adminID, action, resourceID string, oldValue, newValue interface{}) {
	_ = service.auditLog.Append(context, &audit.Entry{
		ID:           uuidv7.New(),
		AdminID:      adminID,
		Action:       action,
		ResourceType: "product",
		ResourceID:   resourceID,
		OldValue:     audit.Snapshot(oldValue),
		NewValue:     audit.Snapshot(newValue),
	})
}
