// Copyright (c) 2026 Souq. All rights reserved.

package product

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/souqhq/souq/internal/platform/middleware"
	requestutil "github.com/souqhq/souq/internal/platform/request"
	"github.com/souqhq/souq/internal/platform/respond"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/internal/platform/validate"
	"github.com/souqhq/souq/pkg/pagination"
	"github.com/souqhq/souq/pkg/query"
)

// Handler exposes the storefront and admin product surfaces.
type Handler struct {
	productService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{productService: service}
}

// PublicRoutes returns the storefront-facing product routes.
//
// Likes and comment posting require an authenticated session; everything
// else is anonymous.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/category/{categoryId}", handler.listByCategory)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/comments", handler.listComments)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth())
		protected.Post("/{id}/views", handler.recordView)
		protected.Post("/{id}/like", handler.toggleLike)
		protected.Post("/{id}/comments", handler.addComment)
	})

	// Flag toggling is a moderation capability, gated like the rest of
	// the product management surface.
	router.With(middleware.RequireAuth(), middleware.Authorize(sec.OpProductManage)).
		Post("/comments/{commentId}/flag", handler.toggleCommentFlag)

	return router
}

// # Filter Parsing

// parseFilter builds a listing [Filter] from the request's query string.
//
// Unknown sort keys and malformed prices fail the request rather than being
// silently dropped.
func parseFilter(request *http.Request) (Filter, error) {
	queryValues := request.URL.Query()
	filter := Filter{
		CategoryID: queryValues.Get("category"),
		Tags:       query.StringSlice(queryValues.Get("tag")),
		Search:     queryValues.Get("search"),
		Sort:       queryValues.Get("sort"),
	}

	validator := &validate.Validator{}
	if filter.Sort != "" {
		validator.OneOf(FieldSort, filter.Sort, SortKeys()...)
	}
	for _, tag := range filter.Tags {
		validator.Custom(FieldTags, !ProductTag(tag).IsValid(), "Unknown product tag: "+tag)
	}
	if filter.CategoryID != "" {
		validator.UUID(FieldCategoryID, filter.CategoryID)
	}

	if raw := queryValues.Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			validator.Custom(FieldAvailable, true, "Must be true or false")
		} else {
			filter.Available = &available
		}
	}

	for _, bound := range []struct {
		key    string
		target **decimal.Decimal
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := queryValues.Get(bound.key)
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			validator.Custom(FieldPrice, true, "Price bounds must be non-negative numbers")
			continue
		}
		*bound.target = &price
	}

	return filter, validator.Err()
}

/*
List returns the filtered public product listing.

GET /api/products?category=&tag=&available=&search=&minPrice=&maxPrice=&sort=&page=&limit=

Response:
  - 200: Paginated []Product
  - 400: Validation failure on filter values
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	products, total, err := handler.productService.ListProducts(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if products == nil {
		products = []*Product{}
	}
	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
ListByCategory returns the public listing scoped to one category.

GET /api/products/category/{categoryId}?page=&limit=

Response:
  - 200: Paginated []Product
  - 400: Malformed category ID
*/
func (handler *Handler) listByCategory(writer http.ResponseWriter, request *http.Request) {
	categoryID := requestutil.Param(request, "categoryId")

	validator := &validate.Validator{}
	if err := validator.UUID(FieldCategoryID, categoryID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	products, total, err := handler.productService.ListProducts(
		request.Context(), Filter{CategoryID: categoryID}, params.Limit, params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if products == nil {
		products = []*Product{}
	}
	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns one product.

GET /api/products/{id}

Response:
  - 200: Product
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	product, err := handler.productService.GetProduct(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

/*
RecordView counts one view on a product.

POST /api/products/{id}/views

Response:
  - 200: Success ack
  - 401: Missing or invalid token
  - 404: ErrNotFound
*/
func (handler *Handler) recordView(writer http.ResponseWriter, request *http.Request) {
	if err := handler.productService.RecordView(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, http.StatusOK, "View recorded", nil)
}

/*
ToggleLike flips the caller's like on a product.

POST /api/products/{id}/like

Response:
  - 200: LikeResult
  - 401: Missing or invalid token
  - 404: ErrNotFound
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.productService.ToggleLike(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// # Comments

type commentRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

func (input *commentRequest) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		MaxLen(FieldText, input.Text, MaxCommentLength)

	if input.Rating != 0 {
		validator.Range(FieldRating, input.Rating, MinCommentRating, MaxCommentRating)
	}

	return validator.Err()
}

/*
AddComment attaches a comment to a product.

POST /api/products/{id}/comments

Response:
  - 201: Comment
  - 400: Validation failure
  - 401: Missing or invalid token
  - 404: ErrNotFound
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.productService.AddComment(
		request.Context(), userID, requestutil.Param(request, "id"), input.Text, input.Rating,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

/*
ListComments returns a product's visible comments, newest first.

GET /api/products/{id}/comments?page=&limit=

Response:
  - 200: Paginated []Comment
  - 404: ErrNotFound
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	comments, total, err := handler.productService.ListComments(
		request.Context(), requestutil.Param(request, "id"), params.Limit, params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if comments == nil {
		comments = []Comment{}
	}
	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}
