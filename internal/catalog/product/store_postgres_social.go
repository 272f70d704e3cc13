// Copyright (c) 2026 Souq. All rights reserved.

package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/database/schema"
)

// # PostgreSQL Social Repository

// postgresSocialRepository implements the [SocialRepository] interface using pgx.
type postgresSocialRepository struct {
	pool *pgxpool.Pool
}

// NewSocialRepository constructs a PostgreSQL backed store for likes and comments.
func NewSocialRepository(pool *pgxpool.Pool) SocialRepository {
	return &postgresSocialRepository{pool: pool}
}

/*
ToggleLike flips a user's like on a product and keeps the denormalized
counter in step, all inside one transaction.

Description: A DELETE on the (user, product) pair decides the direction:
one row removed means this was an unlike, zero rows means a like. Counter
maintenance happens in the same transaction through a single UPDATE
expression, so concurrent togglers never produce a drifting count.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - *LikeResult: Final liked state and the fresh like counter
  - error: apperr.NotFound when the product is missing, or execution errors
*/
func (repository *postgresSocialRepository) ToggleLike(context context.Context, userID, productID string) (*LikeResult, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, fmt.Errorf("postgres_social_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	deleteQuery := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.SocialProductLike.Table,
		schema.SocialProductLike.UserID,
		schema.SocialProductLike.ProductID,
	)

	deleted, err := transaction.Exec(context, deleteQuery, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("postgres_social_repo_delete_like_failed: %w", err)
	}

	liked := deleted.RowsAffected() == 0
	if liked {
		insertQuery := fmt.Sprintf(
			"INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)",
			schema.SocialProductLike.Table,
			schema.SocialProductLike.UserID,
			schema.SocialProductLike.ProductID,
			schema.SocialProductLike.CreatedAt,
		)
		if _, err := transaction.Exec(context, insertQuery, userID, productID, time.Now()); err != nil {
			return nil, fmt.Errorf("postgres_social_repo_insert_like_failed: %w", err)
		}
	}

	counterExpression := fmt.Sprintf("%s + 1", schema.CatalogProduct.Likes)
	if !liked {
		// GREATEST guards against underflow if the counter ever drifted
		counterExpression = fmt.Sprintf("GREATEST(%s - 1, 0)", schema.CatalogProduct.Likes)
	}

	counterQuery := fmt.Sprintf(
		"UPDATE %s SET %s = %s WHERE %s = $1 AND %s IS NULL RETURNING %s",
		schema.CatalogProduct.Table,
		schema.CatalogProduct.Likes,
		counterExpression,
		schema.CatalogProduct.ID,
		schema.CatalogProduct.DeletedAt,
		schema.CatalogProduct.Likes,
	)

	var likes int
	if err := transaction.QueryRow(context, counterQuery, productID).Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product")
		}
		return nil, fmt.Errorf("postgres_social_repo_update_counter_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return nil, fmt.Errorf("postgres_social_repo_commit_failed: %w", err)
	}

	return &LikeResult{Liked: liked, Likes: likes}, nil
}

/*
CreateComment persists a new product comment.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Persistence failures
*/
func (repository *postgresSocialRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.SocialComment.Table,
		schema.SocialComment.ID,
		schema.SocialComment.ProductID,
		schema.SocialComment.UserID,
		schema.SocialComment.Text,
		schema.SocialComment.Rating,
		schema.SocialComment.Flagged,
		schema.SocialComment.CreatedAt,
		schema.SocialComment.UpdatedAt,
	)

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.ProductID,
		comment.UserID,
		comment.Text,
		comment.Rating,
		comment.Flagged,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_social_repo_create_comment_failed: %w", err)
	}

	return nil
}

/*
ListComments returns visible comments for a product, newest first, with the
total count of visible comments.

Description: Flagged comments are hidden from the public listing; moderators
reach them through the flag toggle by comment ID.

Parameters:
  - context: context.Context
  - productID: string
  - limit: int
  - offset: int

Returns:
  - []Comment: Page of comments
  - int: Total visible comment count
  - error: Execution errors
*/
func (repository *postgresSocialRepository) ListComments(context context.Context, productID string, limit, offset int) ([]Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1 AND %s = FALSE
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		schema.SocialComment.ID,
		schema.SocialComment.ProductID,
		schema.SocialComment.UserID,
		schema.SocialComment.Text,
		schema.SocialComment.Rating,
		schema.SocialComment.Flagged,
		schema.SocialComment.CreatedAt,
		schema.SocialComment.UpdatedAt,
		schema.SocialComment.Table,
		schema.SocialComment.ProductID,
		schema.SocialComment.Flagged,
		schema.SocialComment.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_list_comments_failed: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	var totalCount int

	for rows.Next() {
		var comment Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ProductID,
			&comment.UserID,
			&comment.Text,
			&comment.Rating,
			&comment.Flagged,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_social_repo_scan_comment_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_comment_rows_failed: %w", err)
	}

	return comments, totalCount, nil
}

/*
FindCommentByID retrieves a single comment by primary key.
*/
func (repository *postgresSocialRepository) FindCommentByID(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s WHERE %s = $1`,
		schema.SocialComment.ID,
		schema.SocialComment.ProductID,
		schema.SocialComment.UserID,
		schema.SocialComment.Text,
		schema.SocialComment.Rating,
		schema.SocialComment.Flagged,
		schema.SocialComment.CreatedAt,
		schema.SocialComment.UpdatedAt,
		schema.SocialComment.Table,
		schema.SocialComment.ID,
	)

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.ProductID,
		&comment.UserID,
		&comment.Text,
		&comment.Rating,
		&comment.Flagged,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_social_repo_find_comment_failed: %w", err)
	}

	return comment, nil
}

/*
SetCommentFlag updates a comment's moderation flag.
*/
func (repository *postgresSocialRepository) SetCommentFlag(context context.Context, id string, flagged bool) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1",
		schema.SocialComment.Table,
		schema.SocialComment.Flagged,
		schema.SocialComment.UpdatedAt,
		schema.SocialComment.ID,
	)

	result, err := repository.pool.Exec(context, query, id, flagged)
	if err != nil {
		return fmt.Errorf("postgres_social_repo_set_flag_failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
