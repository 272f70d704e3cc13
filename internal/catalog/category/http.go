// Copyright (c) 2026 Souq. All rights reserved.

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/souqhq/souq/internal/platform/request"
	"github.com/souqhq/souq/internal/platform/respond"
	"github.com/souqhq/souq/internal/platform/validate"
)

// Handler exposes the category surface.
type Handler struct {
	categoryService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{categoryService: service}
}

// PublicRoutes returns the storefront-facing category routes.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	return router
}

// AdminRoutes returns the role-gated category management routes.
//
// The authorization gate (admin roles only) is applied by the parent router.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.create)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)
	return router
}

// # Request Payloads

type categoryRequest struct {
	NameEn   string  `json:"nameEn"`
	NameAr   string  `json:"nameAr"`
	ParentID *string `json:"parentId"`
}

func (input *categoryRequest) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldNameEn, input.NameEn).
		MaxLen(FieldNameEn, input.NameEn, MaxNameLength).
		Required(FieldNameAr, input.NameAr).
		MaxLen(FieldNameAr, input.NameAr, MaxNameLength)

	if input.ParentID != nil {
		validator.UUID(FieldParentID, *input.ParentID)
	}

	return validator.Err()
}

/*
List returns every category with product counts.

GET /api/categories

Response:
  - 200: []Category
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.categoryService.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

/*
Get returns one category.

GET /api/categories/{id}

Response:
  - 200: Category
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.categoryService.GetCategory(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
Create adds a new category.

POST /api/admin/categories

Response:
  - 201: Category
  - 400: ErrInvalidJSON: Validation failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input categoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.categoryService.CreateCategory(request.Context(), adminID, CategoryInput{
		NameEn:   input.NameEn,
		NameAr:   input.NameAr,
		ParentID: input.ParentID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

/*
Update replaces a category's names and parent.

PATCH /api/admin/categories/{id}

Response:
  - 200: Category
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input categoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.categoryService.UpdateCategory(
		request.Context(), adminID, requestutil.Param(request, "id"),
		CategoryInput{NameEn: input.NameEn, NameAr: input.NameAr, ParentID: input.ParentID},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

/*
Remove deletes a category and detaches its products.

DELETE /api/admin/categories/{id}

Response:
  - 200: Success ack
  - 404: ErrNotFound
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.categoryService.DeleteCategory(request.Context(), adminID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "Category deleted successfully", nil)
}
