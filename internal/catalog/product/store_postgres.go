// Copyright (c) 2026 Souq. All rights reserved.

/*
PostgreSQL implementation for the catalog's data access.

It leans on Postgres to keep hot paths cheap:
  - Window Functions: COUNT(*) OVER() returns the total result count without
    a second round trip.
  - Array Columns: tags and images live in text[] columns filtered with ANY.
  - Atomic Counters: views and likes mutate through single UPDATE expressions.
*/
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/database/schema"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed product store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// productColumns is the canonical select list, prefixed for aliased queries.
func productColumns(prefix string) string {
	columns := schema.CatalogProduct.Columns()
	prefixed := make([]string, len(columns))
	for index, column := range columns {
		prefixed[index] = prefix + "." + column
	}
	return strings.Join(prefixed, ", ")
}

// scanProduct hydrates one product row in canonical column order.
func scanProduct(row pgx.Row, extra ...any) (*Product, error) {
	product := &Product{}
	destinations := []any{
		&product.ID,
		&product.Title,
		&product.ShortDescription,
		&product.FullDescription,
		&product.Price,
		&product.Cost,
		&product.Currency,
		&product.CategoryID,
		&product.Tags,
		&product.Images,
		&product.StockCount,
		&product.Available,
		&product.ExpiryTimer,
		&product.ViewsCount,
		&product.Likes,
		&product.Dislikes,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.DeletedAt,
	}
	destinations = append(destinations, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, err
	}
	return product, nil
}

/*
List returns a filtered, paginated slice of products and the total count.

Description: Builds the WHERE clause dynamically from the filter, fetching
the total via COUNT(*) OVER() so listing costs one query regardless of
filters. Sorting runs over an allow-listed column expression; the filter's
Sort value never reaches the SQL text directly.

Parameters:
  - context: context.Context
  - filter: Filter (category, tag, availability, search, price range, sort)
  - limit: int
  - offset: int

Returns:
  - []*Product: Slice of hydrated product entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *postgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s p
		WHERE TRUE`,
		productColumns("p"),
		schema.CatalogProduct.Table,
	))

	// Soft-deleted rows are invisible outside the admin listing
	if !filter.IncludeDeleted {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s IS NULL", schema.CatalogProduct.DeletedAt))
	}

	// Category Filtering
	if filter.CategoryID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = $%d", schema.CatalogProduct.CategoryID, argID))
		args = append(args, filter.CategoryID)
		argID++
	}

	// Merchandising Tag Filtering (array overlap: any requested tag matches)
	if len(filter.Tags) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s && $%d", schema.CatalogProduct.Tags, argID))
		args = append(args, filter.Tags)
		argID++
	}

	// Availability Filtering
	if filter.Available != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = $%d", schema.CatalogProduct.Available, argID))
		args = append(args, *filter.Available)
		argID++
	}

	// Free-Text Search Filtering
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (p.%s ILIKE $%d OR p.%s ILIKE $%d OR p.%s ILIKE $%d)",
			schema.CatalogProduct.Title, argID,
			schema.CatalogProduct.ShortDescription, argID,
			schema.CatalogProduct.FullDescription, argID,
		))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	// Price Range Filtering
	if filter.MinPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s >= $%d", schema.CatalogProduct.Price, argID))
		args = append(args, *filter.MinPrice)
		argID++
	}
	if filter.MaxPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s <= $%d", schema.CatalogProduct.Price, argID))
		args = append(args, *filter.MaxPrice)
		argID++
	}

	// Apply Sorting Logic (allow-listed expressions only)
	sort := fmt.Sprintf("p.%s DESC", schema.CatalogProduct.CreatedAt) // default: newest
	switch filter.Sort {
	case SortPriceAsc:
		sort = fmt.Sprintf("p.%s ASC", schema.CatalogProduct.Price)
	case SortPriceDesc:
		sort = fmt.Sprintf("p.%s DESC", schema.CatalogProduct.Price)
	case SortViews:
		sort = fmt.Sprintf("p.%s DESC", schema.CatalogProduct.ViewsCount)
	case SortLikes:
		sort = fmt.Sprintf("p.%s DESC", schema.CatalogProduct.Likes)
	case SortTrending:
		// Likes weigh more than raw views for trending placement
		sort = fmt.Sprintf("(p.%s + 10 * p.%s) DESC", schema.CatalogProduct.ViewsCount, schema.CatalogProduct.Likes)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s, p.%s DESC", sort, schema.CatalogProduct.ID))

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var products []*Product
	var totalCount int

	for rows.Next() {
		product, err := scanProduct(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_product_repo_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_rows_failed: %w", err)
	}

	return products, totalCount, nil
}

/*
FindByID retrieves a product record by its primary key.

Parameters:
  - context: context.Context
  - id: string
  - includeDeleted: bool (admin lookups may resolve soft-deleted rows)

Returns:
  - *Product: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *postgresRepository) FindByID(context context.Context, id string, includeDeleted bool) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s p WHERE p.%s = $1`,
		productColumns("p"),
		schema.CatalogProduct.Table,
		schema.CatalogProduct.ID,
	)
	if !includeDeleted {
		query += fmt.Sprintf(" AND p.%s IS NULL", schema.CatalogProduct.DeletedAt)
	}

	product, err := scanProduct(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product")
		}
		return nil, fmt.Errorf("postgres_product_repo_find_failed: %w", err)
	}

	return product, nil
}

/*
Create persists a new product record.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Persistence failures
*/
func (repository *postgresRepository) Create(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		schema.CatalogProduct.Table,
		strings.Join(schema.CatalogProduct.Columns(), ", "),
	)

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.Title,
		product.ShortDescription,
		product.FullDescription,
		product.Price,
		product.Cost,
		product.Currency,
		product.CategoryID,
		product.Tags,
		product.Images,
		product.StockCount,
		product.Available,
		product.ExpiryTimer,
		product.ViewsCount,
		product.Likes,
		product.Dislikes,
		product.CreatedAt,
		product.UpdatedAt,
		product.DeletedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_product_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists changes to a product's mutable fields.

Description: Counters (views, likes, dislikes) are deliberately excluded;
they mutate only through their atomic paths.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Not found or persistence failures
*/
func (repository *postgresRepository) Update(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
			%s = $8, %s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14
		WHERE %s = $1 AND %s IS NULL`,
		schema.CatalogProduct.Table,
		schema.CatalogProduct.Title,
		schema.CatalogProduct.ShortDescription,
		schema.CatalogProduct.FullDescription,
		schema.CatalogProduct.Price,
		schema.CatalogProduct.Cost,
		schema.CatalogProduct.Currency,
		schema.CatalogProduct.CategoryID,
		schema.CatalogProduct.Tags,
		schema.CatalogProduct.Images,
		schema.CatalogProduct.StockCount,
		schema.CatalogProduct.Available,
		schema.CatalogProduct.ExpiryTimer,
		schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.ID,
		schema.CatalogProduct.DeletedAt,
	)

	product.UpdatedAt = time.Now()
	result, err := repository.pool.Exec(context, query,
		product.ID,
		product.Title,
		product.ShortDescription,
		product.FullDescription,
		product.Price,
		product.Cost,
		product.Currency,
		product.CategoryID,
		product.Tags,
		product.Images,
		product.StockCount,
		product.Available,
		product.ExpiryTimer,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_product_repo_update_failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

/*
SetAvailability flips only the availability flag of an active product.
*/
func (repository *postgresRepository) SetAvailability(context context.Context, id string, available bool) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s IS NULL",
		schema.CatalogProduct.Table,
		schema.CatalogProduct.Available,
		schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.ID,
		schema.CatalogProduct.DeletedAt,
	)

	result, err := repository.pool.Exec(context, query, id, available)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_set_availability_failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

/*
SetStock replaces only the stock counter of an active product.
*/
func (repository *postgresRepository) SetStock(context context.Context, id string, stockCount int) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s IS NULL",
		schema.CatalogProduct.Table,
		schema.CatalogProduct.StockCount,
		schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.ID,
		schema.CatalogProduct.DeletedAt,
	)

	result, err := repository.pool.Exec(context, query, id, stockCount)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_set_stock_failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

/*
SoftDelete marks a product as deleted without removing the row.
*/
func (repository *postgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = NOW(), %s = NOW() WHERE %s = $1 AND %s IS NULL",
		schema.CatalogProduct.Table,
		schema.CatalogProduct.DeletedAt,
		schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.ID,
		schema.CatalogProduct.DeletedAt,
	)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_soft_delete_failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

/*
Restore clears the soft-delete marker on a product.
*/
func (repository *postgresRepository) Restore(context context.Context, id string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = NULL, %s = NOW() WHERE %s = $1 AND %s IS NOT NULL",
		schema.CatalogProduct.Table,
		schema.CatalogProduct.DeletedAt,
		schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.ID,
		schema.CatalogProduct.DeletedAt,
	)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_restore_failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

/*
IncrementViews atomically bumps the view counter on an active product.

Description: A single UPDATE expression; concurrent viewers can never lose
increments the way a read-modify-write sequence would.
*/
func (repository *postgresRepository) IncrementViews(context context.Context, id string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = %s + 1 WHERE %s = $1 AND %s IS NULL",
		schema.CatalogProduct.Table,
		schema.CatalogProduct.ViewsCount,
		schema.CatalogProduct.ViewsCount,
		schema.CatalogProduct.ID,
		schema.CatalogProduct.DeletedAt,
	)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_increment_views_failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}
