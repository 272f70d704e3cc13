// Copyright (c) 2026 Souq. All rights reserved.

package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqhq/souq/pkg/pagination"
)

// PostgresRepository implements the audit [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the audit Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Append persists a new audit entry into the system.auditlog table.

Description: Write-once insert; the table carries no update path.

Parameters:
  - context: context.Context
  - entry: *Entry

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Append(context context.Context, entry *Entry) error {
	const query = `
		INSERT INTO system.auditlog (
			id, adminid, action, resourcetype, resourceid, oldvalue, newvalue, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		entry.AdminID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.OldValue,
		entry.NewValue,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_audit_repo_append_failed: %w", err)
	}

	return nil
}

/*
List returns audit entries ordered newest-first with the total count.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []Entry: One page of entries
  - int: Total entry count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]Entry, int, error) {
	const countQuery = "SELECT COUNT(*) FROM system.auditlog"
	const pageQuery = `
		SELECT id, adminid, action, resourcetype, resourceid, oldvalue, newvalue, createdat
		FROM system.auditlog
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, pageQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_repo_list_failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, params.Limit)
	for rows.Next() {
		var entry Entry
		err := rows.Scan(
			&entry.ID,
			&entry.AdminID,
			&entry.Action,
			&entry.ResourceType,
			&entry.ResourceID,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_audit_repo_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_repo_rows_failed: %w", err)
	}

	return entries, total, nil
}
