// Copyright (c) 2026 Souq. All rights reserved.

/*
Package product implements the storefront catalog: products, their social
sub-resources (comments, likes, views), and the admin management surface.

# Architecture

  - Entities: Product and Comment, with money carried as decimals.
  - Service: Orchestrates CRUD, filtered listing, and social interactions.
  - Repository: Abstracted pgx-backed storage with atomic counter updates.

Counter mutations (views, likes) are always single storage-level update
expressions, never read-modify-write round trips, so concurrent requests
cannot lose updates.
*/
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// # Domain Entities

// ProductTag labels a product's merchandising state on the storefront.
type ProductTag string

const (
	// TagNew marks recently added inventory.
	TagNew ProductTag = "new"
	// TagComingSoon marks announced items not yet purchasable.
	TagComingSoon ProductTag = "coming_soon"
	// TagOrderToBuy marks items sourced on demand.
	TagOrderToBuy ProductTag = "order_to_buy"
)

// IsValid reports whether t is a recognised [ProductTag] value.
func (t ProductTag) IsValid() bool {
	switch t {
	case TagNew, TagComingSoon, TagOrderToBuy:
		return true
	}
	return false
}

// DefaultCurrency is applied when a product is created without one.
const DefaultCurrency = "SAR"

// Product is the central aggregate of the catalog domain.
type Product struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"shortDescription"`
	FullDescription  string          `json:"fullDescription,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Cost             decimal.Decimal `json:"cost"`
	Currency         string          `json:"currency"`
	CategoryID       *string         `json:"categoryId,omitempty"`
	Tags             []string        `json:"tags"`
	Images           []string        `json:"images"`
	StockCount       int             `json:"stockCount"`
	Available        bool            `json:"available"`
	ExpiryTimer      *time.Time      `json:"expiryTimer,omitempty"`

	// # Denormalized Counters
	//
	// Updated only through atomic storage-level expressions.
	ViewsCount int64 `json:"viewsCount"`
	Likes      int   `json:"likes"`
	Dislikes   int   `json:"dislikes"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"` // nil = active; non-nil = soft-deleted.
}

// Comment is an append-only review attached to a product.
type Comment struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Flagged   bool      `json:"flagged"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// # Listing Filter

// Sort keys accepted by the listing endpoint.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTrending  = "trending"
	SortViews     = "views"
	SortLikes     = "likes"
)

// SortKeys returns the closed set of accepted sort values.
func SortKeys() []string {
	return []string{SortNewest, SortPriceAsc, SortPriceDesc, SortTrending, SortViews, SortLikes}
}

// Filter holds the parameters for a filtered product list query.
//
// Nil pointer fields mean "not filtered". Only the admin listing sets
// IncludeDeleted.
type Filter struct {
	CategoryID     string
	Tags           []string // Matches products carrying ANY of these tags.
	Available      *bool
	Search         string // Case-insensitive substring match on titles and descriptions.
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	Sort           string
	IncludeDeleted bool
}

// # Validation Constraints

const (
	MaxTitleLength       = 200
	MaxShortDescLength   = 500
	MaxCommentLength     = 1000
	MinCommentRating     = 1
	MaxCommentRating     = 5
	DefaultCommentRating = 5
	MaxImages            = 10
)

// # Field Identifiers

const (
	FieldTitle            = "title"
	FieldShortDescription = "shortDescription"
	FieldFullDescription  = "fullDescription"
	FieldPrice            = "price"
	FieldCost             = "cost"
	FieldCurrency         = "currency"
	FieldCategoryID       = "categoryId"
	FieldTags             = "tags"
	FieldImages           = "images"
	FieldStockCount       = "stockCount"
	FieldAvailable        = "available"
	FieldText             = "text"
	FieldRating           = "rating"
	FieldSort             = "sort"
)
