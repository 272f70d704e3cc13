// Copyright (c) 2026 Souq. All rights reserved.

package api

import (
	"log/slog"
	"net/http"

	"github.com/souqhq/souq/internal/platform/respond"
)

// HealthDependencies holds the dependency checkers the /ready probe runs.
// A nil checker is skipped.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready handler funcs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health. It only proves the process is serving.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

type dependencyCheck struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready. Any failing dependency degrades the probe
// to 503 so the load balancer stops routing here.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checkers := []struct {
		name  string
		check func() error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	ready := true
	results := make([]dependencyCheck, 0, len(checkers))
	for _, checker := range checkers {
		if checker.check == nil {
			continue
		}
		result := dependencyCheck{Name: checker.name, IsOK: true}
		if err := checker.check(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			ready = false
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", checker.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	status := "ready"
	if !ready {
		status = "degraded"
		// respond.OK always writes 200, so the 503 header goes out first.
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(http.StatusServiceUnavailable)
	}

	respond.OK(writer, map[string]any{
		"status": status,
		"checks": results,
	})
}
