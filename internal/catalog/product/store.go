// Copyright (c) 2026 Souq. All rights reserved.

package product

import "context"

// # Product Data Access

// Repository defines the data access contract for the product catalog.
//
// Implementations live in this package's store_postgres files — the interface
// exists because the service layer (the consumer) defines what it needs.
type Repository interface {
	// List returns a filtered, paginated slice of products and the total count.
	//
	// Returns:
	//   - []*Product: The list of products matching the filter.
	//   - int: Total count for pagination.
	//   - error: Database or connection errors.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Product, int, error)

	// FindByID returns the product with the given ID.
	//
	// Soft-deleted products are excluded unless includeDeleted is set.
	FindByID(ctx context.Context, id string, includeDeleted bool) (*Product, error)

	// Create persists a new product to the store.
	//
	// The caller is responsible for generating and setting the ID.
	Create(ctx context.Context, product *Product) error

	// Update persists changes to an existing product's mutable fields.
	Update(ctx context.Context, product *Product) error

	// SetAvailability flips only the availability flag.
	SetAvailability(ctx context.Context, id string, available bool) error

	// SetStock replaces only the stock counter.
	SetStock(ctx context.Context, id string, stockCount int) error

	// SoftDelete marks a product as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error

	// Restore clears the soft-delete marker on a product.
	Restore(ctx context.Context, id string) error

	// IncrementViews atomically bumps the view counter on a product.
	//
	// The increment is a single UPDATE expression so concurrent views can
	// never lose updates.
	IncrementViews(ctx context.Context, id string) error
}

// # Social Data Access

// SocialRepository defines the storage contract for likes and comments.
type SocialRepository interface {
	// ToggleLike flips the (user, product) like state inside one transaction,
	// keeping the denormalized likes counter in sync atomically.
	//
	// Returns:
	//   - *LikeResult: The post-toggle state and counter.
	//   - error: Not found or execution errors.
	ToggleLike(ctx context.Context, userID, productID string) (*LikeResult, error)

	// CreateComment appends a new comment to a product.
	CreateComment(ctx context.Context, comment *Comment) error

	// ListComments returns a product's unflagged comments, newest first,
	// with the total count.
	ListComments(ctx context.Context, productID string, limit, offset int) ([]Comment, int, error)

	// FindCommentByID returns a single comment, flagged or not.
	FindCommentByID(ctx context.Context, id string) (*Comment, error)

	// SetCommentFlag sets the moderation flag on a comment.
	SetCommentFlag(ctx context.Context, id string, flagged bool) error
}
