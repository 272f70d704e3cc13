// Copyright (c) 2026 Souq. All rights reserved.

/*
Package category manages the bilingual product category tree.

Categories carry an English and an Arabic name and may nest one level deep
via ParentID. The public storefront reads the tree; only admins mutate it.
*/
package category

import (
	"context"
	"time"
)

// # Domain Entities

// Category is one node of the catalog's category tree.
type Category struct {
	ID        string    `json:"id"`
	NameEn    string    `json:"nameEn"`
	NameAr    string    `json:"nameAr"`
	ParentID  *string   `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// ProductCount is populated on listings only; it counts the active
	// (non-deleted) products assigned to the category.
	ProductCount int `json:"productCount"`
}

// # Field Identifiers

const (
	FieldNameEn   = "nameEn"
	FieldNameAr   = "nameAr"
	FieldParentID = "parentId"
)

// MaxNameLength bounds both localized names.
const MaxNameLength = 120

// # Data Access

// Repository defines the data access contract for categories.
type Repository interface {

	/*
		List returns every category with its active product count.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Category: All categories, newest-first
		  - error: Retrieval failures
	*/
	List(context context.Context) ([]Category, error)

	/*
		FindByID returns the category with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Category: Hydrated entity
		  - error: Not found or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Category, error)

	/*
		Create persists a new category.

		Parameters:
		  - context: context.Context
		  - category: *Category

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, category *Category) error

	/*
		Update persists changes to a category's names and parent.

		Parameters:
		  - context: context.Context
		  - category: *Category

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, category *Category) error

	/*
		Delete removes a category. Products keep their category reference
		cleared by the store.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id string) error
}
