// Copyright (c) 2026 Souq. All rights reserved.

// Command seed provisions a fresh environment with a super admin account
// and a starter batch of access codes.
//
// It is idempotent: re-running against a seeded database reports the
// existing admin and exits cleanly. Intended for development and first
// deployment only; day-to-day code issuance goes through the API.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/souqhq/souq/internal/admin/accesscode"
	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/config"
	"github.com/souqhq/souq/internal/platform/migration"
	pgstore "github.com/souqhq/souq/internal/platform/postgres"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/internal/users/auth"
	"github.com/souqhq/souq/pkg/uuidv7"
)

const (
	defaultAdminPhone    = "+966500000001"
	defaultAdminPassword = "admin123"
	defaultAdminName     = "Super Admin"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "souq-seed"))

	cfg, err := config.Load()
	must(log, err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// # Super Admin Account

	adminPhone := envOr("SEED_ADMIN_PHONE", defaultAdminPhone)
	adminPassword := envOr("SEED_ADMIN_PASSWORD", defaultAdminPassword)

	userRepository := auth.NewUserRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	must(log, err, "hash admin password")

	admin := &auth.User{
		ID:           uuidv7.New(),
		Name:         defaultAdminName,
		Phone:        adminPhone,
		PasswordHash: string(hash),
		Role:         sec.RoleSuperAdmin,
		Active:       true,
	}

	if err := userRepository.Create(ctx, admin); err != nil {
		if apperr.IsCode(err, apperr.CodeUserAlreadyExists) {
			log.Info("admin_already_seeded", slog.String("phone", adminPhone))
			return
		}
		must(log, err, "create super admin")
	}

	log.Info("admin_seeded",
		slog.String("id", admin.ID),
		slog.String("phone", adminPhone),
	)

	// # Starter Access Codes
	//
	// One batch per role so new environments can activate their first
	// accounts without the API.

	codeRepository := accesscode.NewRepository(pool)
	auditRepository := audit.NewRepository(pool)
	codeService := accesscode.NewService(codeRepository, auditRepository)

	for _, role := range []sec.Role{sec.RoleAdmin, sec.RoleUser} {
		codes, err := codeService.GenerateCodes(ctx, accesscode.GenerateInput{
			AdminID:     admin.ID,
			Role:        role,
			ValidDays:   30,
			UsesAllowed: 1,
			Count:       3,
			Note:        "seed batch",
		})
		must(log, err, "generate starter codes")

		for _, code := range codes {
			log.Info("access_code_seeded",
				slog.String("role", string(role)),
				slog.String("code", code.Code),
			)
		}
	}

	log.Info("seed_complete")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("seed failure", slog.String("context", context), slog.Any("error", err))
		os.Exit(1)
	}
}
