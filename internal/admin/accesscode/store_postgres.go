// Copyright (c) 2026 Souq. All rights reserved.

package accesscode

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/dberr"
	"github.com/souqhq/souq/pkg/pagination"
)

// PostgresRepository implements the accesscode [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the accesscode Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
CreateBatch persists every code of a generation batch in one round trip.

Description: Uses a pgx batch inside a transaction so a batch either lands
completely or not at all. The unique index on the code column turns the rare
generated-code collision into a visible conflict error instead of silently
overwriting an existing grant.

Parameters:
  - context: context.Context
  - codes: []*AccessCode

Returns:
  - error: Collision conflicts or persistence failures
*/
func (repository *PostgresRepository) CreateBatch(context context.Context, codes []*AccessCode) error {
	const query = `
		INSERT INTO admin.accesscode (
			id, code, role, validfrom, validuntil, usesallowed, usescount, isused, issuedby, note, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	batch := &pgx.Batch{}
	for _, code := range codes {
		if code.CreatedAt.IsZero() {
			code.CreatedAt = now
		}
		code.UpdatedAt = now

		batch.Queue(query,
			code.ID,
			code.Code,
			code.Role,
			code.ValidFrom,
			code.ValidUntil,
			code.UsesAllowed,
			code.UsesCount,
			code.IsUsed,
			code.IssuedBy,
			code.Note,
			code.CreatedAt,
			code.UpdatedAt,
		)
	}

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_accesscode_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	results := transaction.SendBatch(context, batch)
	for range codes {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if dberr.IsUniqueViolation(err) {
				return apperr.Conflict(apperr.CodeValidation, "Generated code collided with an existing code, retry the batch")
			}
			return fmt.Errorf("postgres_accesscode_repo_insert_failed: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("postgres_accesscode_repo_batch_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_accesscode_repo_commit_failed: %w", err)
	}

	return nil
}

/*
List returns issued codes ordered newest-first with the total count.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []AccessCode: One page of codes
  - int: Total code count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]AccessCode, int, error) {
	const countQuery = "SELECT COUNT(*) FROM admin.accesscode"
	const pageQuery = `
		SELECT id, code, role, validfrom, validuntil, usesallowed, usescount, isused, issuedby, note, createdat, updatedat
		FROM admin.accesscode
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_accesscode_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, pageQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_accesscode_repo_list_failed: %w", err)
	}
	defer rows.Close()

	codes := make([]AccessCode, 0, params.Limit)
	for rows.Next() {
		var code AccessCode
		err := rows.Scan(
			&code.ID,
			&code.Code,
			&code.Role,
			&code.ValidFrom,
			&code.ValidUntil,
			&code.UsesAllowed,
			&code.UsesCount,
			&code.IsUsed,
			&code.IssuedBy,
			&code.Note,
			&code.CreatedAt,
			&code.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_accesscode_repo_scan_failed: %w", err)
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_accesscode_repo_rows_failed: %w", err)
	}

	return codes, total, nil
}
