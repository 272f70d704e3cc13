// Copyright (c) 2026 Souq. All rights reserved.

package accesscode

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souqhq/souq/internal/platform/middleware"
	requestutil "github.com/souqhq/souq/internal/platform/request"
	"github.com/souqhq/souq/internal/platform/respond"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/internal/platform/validate"
	"github.com/souqhq/souq/pkg/pagination"
)

// Handler exposes the admin access-code surface.
type Handler struct {
	codeService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{codeService: service}
}

// Routes returns a [chi.Router] for the access-code surface.
//
// Each route is gated on its own operation; the parent router only ensures
// the caller is an authenticated, active account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.With(middleware.Authorize(sec.OpAccessCodeGenerate)).Post("/generate", handler.generate)
	router.With(middleware.Authorize(sec.OpAccessCodeList)).Get("/", handler.list)
	return router
}

// # Request Payloads

type generateRequest struct {
	Role        string `json:"role"`
	ValidDays   int    `json:"validDays"`
	UsesAllowed int    `json:"usesAllowed"`
	Count       int    `json:"count"`
	Note        string `json:"note"`
}

/*
Generate mints a batch of activation codes.

POST /api/admin/access-codes/generate

Request:
  - Body: generateRequest (Role, ValidDays 1-3650, UsesAllowed 1-1000, Count 1-100 default 1, Note optional)

Response:
  - 201: []AccessCode: Generated codes including their code strings
  - 400: ErrInvalidJSON: Validation failure
  - 403: ErrForbidden: Insufficient role
*/
func (handler *Handler) generate(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input generateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Count is optional and defaults to a single code
	if input.Count == 0 {
		input.Count = 1
	}

	validator := &validate.Validator{}
	validator.Required(FieldRole, input.Role).
		OneOf(FieldRole, input.Role, sec.Roles()...).
		Range(FieldValidDays, input.ValidDays, MinValidDays, MaxValidDays).
		Range(FieldUsesAllowed, input.UsesAllowed, MinUsesAllowed, MaxUsesAllowed).
		Range(FieldCount, input.Count, MinBatchCount, MaxBatchCount)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	codes, err := handler.codeService.GenerateCodes(request.Context(), GenerateInput{
		AdminID:     adminID,
		Role:        sec.Role(input.Role),
		ValidDays:   input.ValidDays,
		UsesAllowed: input.UsesAllowed,
		Count:       input.Count,
		Note:        input.Note,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, codes)
}

/*
List returns issued codes, newest first.

GET /api/admin/access-codes?page&limit

Response:
  - 200: Paginated []AccessCode
  - 403: ErrForbidden: Insufficient role
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	codes, total, err := handler.codeService.ListCodes(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, codes, pagination.NewMeta(params.Page, params.Limit, total))
}
