// Copyright (c) 2026 Souq. All rights reserved.

// Package migration applies versioned schema migrations at startup so the
// server never serves traffic against an out-of-date database.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the "file" source that reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

/*
RunUp applies every pending UP migration found under migrationsPath.

A dirty database (a previous run died mid-migration) is refused outright;
it needs a human to inspect and force the version before the server can
start again.

# Parameters
  - dsn: A postgres:// or postgresql:// connection URL.
  - migrationsPath: Directory holding the numbered .sql migration pairs.
  - logger: Structured logger for migration progress.
*/
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration_init_failed: %w", err)
	}
	defer func() {
		if sourceErr, databaseErr := migrator.Close(); sourceErr != nil || databaseErr != nil {
			logger.Error("migration_close_failed",
				slog.Any("source_error", sourceErr),
				slog.Any("database_error", databaseErr),
			)
		}
	}()

	migrator.Log = &slogBridge{logger: logger}

	version, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration_version_lookup_failed: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration_dirty_database: stuck at version %d, resolve manually", version)
	}

	logger.Info("migrations_running", slog.Int("current_version", int(version)))

	switch err := migrator.Up(); {
	case err == nil:
		applied, _, _ := migrator.Version()
		logger.Info("migrations_applied",
			slog.Int("from_version", int(version)),
			slog.Int("to_version", int(applied)),
		)
		return nil
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migrations_up_to_date")
		return nil
	default:
		return fmt.Errorf("migration_up_failed: %w", err)
	}
}

// pgx5URL rewrites a postgres connection URL onto the pgx5:// scheme that
// golang-migrate's pgx/v5 driver registers under.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// slogBridge adapts golang-migrate's Logger interface onto slog.
type slogBridge struct {
	logger  *slog.Logger
	verbose bool
}

func (bridge *slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (bridge *slogBridge) Verbose() bool {
	return bridge.verbose
}
