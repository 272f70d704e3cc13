// Copyright (c) 2026 Souq. All rights reserved.

package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqhq/souq/internal/platform/apperr"
)

// PostgresRepository implements the category [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the category Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns every category with its active product count.

Description: A correlated sub-query counts non-deleted products per category
in one round trip instead of N+1 lookups.

Parameters:
  - context: context.Context

Returns:
  - []Category: All categories, newest-first
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context) ([]Category, error) {
	const query = `
		SELECT c.id, c.nameen, c.namear, c.parentid, c.createdat,
			(SELECT COUNT(*) FROM catalog.product p
			 WHERE p.categoryid = c.id AND p.deletedat IS NULL) AS productcount
		FROM catalog.category c
		ORDER BY c.createdat DESC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_category_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		err := rows.Scan(
			&category.ID,
			&category.NameEn,
			&category.NameAr,
			&category.ParentID,
			&category.CreatedAt,
			&category.ProductCount,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_category_repo_scan_failed: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_category_repo_rows_failed: %w", err)
	}

	return categories, nil
}

/*
FindByID retrieves a category record by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Category: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	const query = `
		SELECT id, nameen, namear, parentid, createdat
		FROM catalog.category
		WHERE id = $1`

	category := &Category{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&category.ID,
		&category.NameEn,
		&category.NameAr,
		&category.ParentID,
		&category.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Category")
		}
		return nil, fmt.Errorf("postgres_category_repo_find_failed: %w", err)
	}

	return category, nil
}

/*
Create persists a new category record.

Parameters:
  - context: context.Context
  - category: *Category

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	const query = `
		INSERT INTO catalog.category (id, nameen, namear, parentid, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		category.ID,
		category.NameEn,
		category.NameAr,
		category.ParentID,
		category.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_category_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists changes to a category's names and parent.

Parameters:
  - context: context.Context
  - category: *Category

Returns:
  - error: Not found or persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	const query = `
		UPDATE catalog.category
		SET nameen = $2, namear = $3, parentid = $4
		WHERE id = $1`

	result, err := repository.pool.Exec(context, query,
		category.ID,
		category.NameEn,
		category.NameAr,
		category.ParentID,
	)

	if err != nil {
		return fmt.Errorf("postgres_category_repo_update_failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}

/*
Delete removes a category and detaches its products.

Description: One transaction clears the categoryid on assigned products and
removes the category row, so no product ever points at a missing category.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Not found or deletion failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const detachQuery = "UPDATE catalog.product SET categoryid = NULL WHERE categoryid = $1"
	const deleteQuery = "DELETE FROM catalog.category WHERE id = $1"

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_category_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	if _, err := transaction.Exec(context, detachQuery, id); err != nil {
		return fmt.Errorf("postgres_category_repo_detach_failed: %w", err)
	}

	result, err := transaction.Exec(context, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("postgres_category_repo_delete_failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return transaction.Commit(context)
}
