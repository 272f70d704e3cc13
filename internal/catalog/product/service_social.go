// Copyright (c) 2026 Souq. All rights reserved.

package product

import (
	"context"
	"fmt"

	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/pkg/uuidv7"
)

// # Social Interactions

/*
ToggleLike flips the caller's like on a product.

Description: The product must exist and be active; the toggle itself runs
atomically in storage so the denormalized counter cannot drift under
concurrent requests.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - *LikeResult: Post-toggle state and counter
  - err: apperr.NotFound or execution errors
*/
func (service *Service) ToggleLike(context context.Context, userID, productID string) (*LikeResult, error) {
	if _, err := service.repository.FindByID(context, productID, false); err != nil {
		return nil, err
	}

	result, err := service.socialRepository.ToggleLike(context, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("product_service_toggle_like_failed: %w", err)
	}

	return result, nil
}

/*
AddComment attaches a new comment to an active product.

Description: A zero rating falls back to the default; out-of-range values
are rejected at the handler layer before reaching this method.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string
  - text: string
  - rating: int

Returns:
  - *Comment: Created comment
  - err: apperr.NotFound or persistence failures
*/
func (service *Service) AddComment(context context.Context, userID, productID, text string, rating int) (*Comment, error) {
	if _, err := service.repository.FindByID(context, productID, false); err != nil {
		return nil, err
	}

	if rating == 0 {
		rating = DefaultCommentRating
	}

	comment := &Comment{
		ID:        uuidv7.New(),
		ProductID: productID,
		UserID:    userID,
		Text:      text,
		Rating:    rating,
	}

	if err := service.socialRepository.CreateComment(context, comment); err != nil {
		return nil, fmt.Errorf("product_service_add_comment_failed: %w", err)
	}

	return comment, nil
}

/*
ListComments returns a product's visible comments, newest first.

Parameters:
  - context: context.Context
  - productID: string
  - limit: int
  - offset: int

Returns:
  - []Comment: Page of comments
  - int: Total visible comment count
  - err: apperr.NotFound or execution errors
*/
func (service *Service) ListComments(context context.Context, productID string, limit, offset int) ([]Comment, int, error) {
	if _, err := service.repository.FindByID(context, productID, false); err != nil {
		return nil, 0, err
	}

	return service.socialRepository.ListComments(context, productID, limit, offset)
}

/*
ToggleCommentFlag flips a comment's moderation flag and returns the new state.

Parameters:
  - context: context.Context
  - adminID: string
  - commentID: string

Returns:
  - *Comment: The comment with the flag flipped
  - err: apperr.NotFound or execution errors
*/
func (service *Service) ToggleCommentFlag(context context.Context, adminID, commentID string) (*Comment, error) {
	comment, err := service.socialRepository.FindCommentByID(context, commentID)
	if err != nil {
		return nil, err
	}

	flagged := !comment.Flagged
	if err := service.socialRepository.SetCommentFlag(context, commentID, flagged); err != nil {
		return nil, err
	}
	comment.Flagged = flagged

	service.recordComment(context, adminID, comment)
	return comment, nil
}

// recordComment appends a moderation audit entry for a flag toggle.
// Audit failures never block the mutation.
func (service *Service) recordComment(context context.Context, adminID string, comment *Comment) {
	_ = service.auditLog.Append(context, &audit.Entry{
		ID:           uuidv7.New(),
		AdminID:      adminID,
		Action:       audit.ActionCommentFlagToggled,
		ResourceType: "comment",
		ResourceID:   comment.ID,
		NewValue:     audit.Snapshot(map[string]bool{"flagged": comment.Flagged}),
	})
}
