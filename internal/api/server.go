// Copyright (c) 2026 Souq. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/souqhq/souq/internal/admin/accesscode"
	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/internal/catalog/category"
	"github.com/souqhq/souq/internal/catalog/product"
	"github.com/souqhq/souq/internal/platform/config"
	"github.com/souqhq/souq/internal/platform/constants"
	"github.com/souqhq/souq/internal/platform/middleware"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles account lifecycle routes (signup, activate, login, tokens).
	Auth *auth.Handler

	// Product handles the storefront catalog and its admin management surface.
	Product *product.Handler

	// Category handles the category tree.
	Category *category.Handler

	// AccessCode handles admin access-code generation and listing.
	AccessCode *accesscode.Handler

	// Audit exposes the admin action log.
	Audit *audit.Handler
}

// Dependencies carries the cross-cutting services the router needs beyond
// the domain handlers.
type Dependencies struct {
	// Verifier validates bearer tokens on every request.
	Verifier middleware.TokenVerifier

	// Accounts re-checks account state on admin routes.
	Accounts middleware.AccountVerifier

	// Cache backs the anonymous catalog response cache. Nil disables caching.
	Cache *redis.Client
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(deps.Verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		// Public catalog, cached for anonymous readers.
		api.Group(func(catalog chi.Router) {
			if deps.Cache != nil {
				catalog.Use(middleware.ResponseCache(deps.Cache, cfg.CatalogCacheTTL))
			}
			catalog.Mount("/products", h.Product.PublicRoutes())
			catalog.Mount("/categories", h.Category.PublicRoutes())
		})

		// Admin surface: authenticated, account re-verified, role gated
		// per operation.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAuth())
			admin.Use(middleware.RequireAccount(deps.Accounts))

			// Access codes gate per operation inside their own routes.
			admin.Mount("/access-codes", h.AccessCode.Routes())

			admin.Group(func(gated chi.Router) {
				gated.Use(middleware.Authorize(sec.OpAuditLogList))
				gated.Mount("/audit-logs", h.Audit.Routes())
			})
			admin.Group(func(gated chi.Router) {
				gated.Use(middleware.Authorize(sec.OpProductManage))
				gated.Mount("/products", h.Product.AdminRoutes())
			})
			admin.Group(func(gated chi.Router) {
				gated.Use(middleware.Authorize(sec.OpCategoryManage))
				gated.Mount("/categories", h.Category.AdminRoutes())
			})
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
