// Copyright (c) 2026 Souq. All rights reserved.

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souqhq/souq/internal/platform/respond"
	"github.com/souqhq/souq/pkg/pagination"
)

// Handler exposes the audit log to admin users.
type Handler struct {
	repository Repository
}

// NewHandler constructs a new [Handler] with its repository dependency.
func NewHandler(repository Repository) *Handler {
	return &Handler{repository: repository}
}

// Routes returns a [chi.Router] for the audit surface.
//
// The authorization gate (admin roles only) is applied by the parent router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	return router
}

/*
List returns audit entries, newest first.

GET /api/admin/audit-logs?page&limit

Response:
  - 200: Paginated []Entry
  - 403: ErrForbidden: Insufficient role
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	entries, total, err := handler.repository.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}
