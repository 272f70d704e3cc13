// Copyright (c) 2026 Souq. All rights reserved.

package product

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	requestutil "github.com/souqhq/souq/internal/platform/request"
	"github.com/souqhq/souq/internal/platform/respond"
	"github.com/souqhq/souq/internal/platform/validate"
	"github.com/souqhq/souq/pkg/pagination"
)

// AdminRoutes returns the role-gated product management routes.
//
// The authorization gate is applied by the parent router.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.adminList)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.adminGet)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)
	router.Post("/{id}/restore", handler.restore)
	router.Patch("/{id}/availability", handler.setAvailability)
	router.Patch("/{id}/stock", handler.setStock)

	return router
}

// # Request Payloads

type createProductRequest struct {
	Title            string     `json:"title"`
	ShortDescription string     `json:"shortDescription"`
	FullDescription  string     `json:"fullDescription"`
	Price            string     `json:"price"`
	Cost             string     `json:"cost"`
	Currency         string     `json:"currency"`
	CategoryID       *string    `json:"categoryId"`
	Tags             []string   `json:"tags"`
	Images           []string   `json:"images"`
	StockCount       int        `json:"stockCount"`
	Available        bool       `json:"available"`
	ExpiryTimer      *time.Time `json:"expiryTimer"`
}

// parseMoney validates a decimal string field and reports failures on the
// shared validator.
func parseMoney(validator *validate.Validator, field, raw string, required bool) decimal.Decimal {
	if raw == "" {
		if required {
			validator.Required(field, raw)
		}
		return decimal.Zero
	}

	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		validator.Custom(field, true, "Must be a non-negative decimal number")
		return decimal.Zero
	}
	return value
}

func (input *createProductRequest) validate() (price, cost decimal.Decimal, err error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldShortDescription, input.ShortDescription).
		MaxLen(FieldShortDescription, input.ShortDescription, MaxShortDescLength)

	price = parseMoney(validator, FieldPrice, input.Price, true)
	cost = parseMoney(validator, FieldCost, input.Cost, false)

	for _, tag := range input.Tags {
		if !ProductTag(tag).IsValid() {
			validator.Custom(FieldTags, true, "Unknown product tag: "+tag)
		}
	}
	validator.Custom(FieldImages, len(input.Images) > MaxImages, "Too many images")
	validator.Custom(FieldStockCount, input.StockCount < 0, "Must be zero or positive")
	if input.CategoryID != nil {
		validator.UUID(FieldCategoryID, *input.CategoryID)
	}

	return price, cost, validator.Err()
}

// updateProductRequest carries partial changes; nil fields stay untouched.
type updateProductRequest struct {
	Title            *string    `json:"title"`
	ShortDescription *string    `json:"shortDescription"`
	FullDescription  *string    `json:"fullDescription"`
	Price            *string    `json:"price"`
	Cost             *string    `json:"cost"`
	Currency         *string    `json:"currency"`
	CategoryID       *string    `json:"categoryId"`
	Tags             []string   `json:"tags"`
	Images           []string   `json:"images"`
	StockCount       *int       `json:"stockCount"`
	Available        *bool      `json:"available"`
	ExpiryTimer      *time.Time `json:"expiryTimer"`
}

func (input *updateProductRequest) validate() (price, cost *decimal.Decimal, err error) {
	validator := &validate.Validator{}

	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.ShortDescription != nil {
		validator.Required(FieldShortDescription, *input.ShortDescription).
			MaxLen(FieldShortDescription, *input.ShortDescription, MaxShortDescLength)
	}
	if input.Price != nil {
		parsed := parseMoney(validator, FieldPrice, *input.Price, true)
		price = &parsed
	}
	if input.Cost != nil {
		parsed := parseMoney(validator, FieldCost, *input.Cost, false)
		cost = &parsed
	}
	for _, tag := range input.Tags {
		if !ProductTag(tag).IsValid() {
			validator.Custom(FieldTags, true, "Unknown product tag: "+tag)
		}
	}
	validator.Custom(FieldImages, len(input.Images) > MaxImages, "Too many images")
	if input.StockCount != nil {
		validator.Custom(FieldStockCount, *input.StockCount < 0, "Must be zero or positive")
	}
	if input.CategoryID != nil && *input.CategoryID != "" {
		validator.UUID(FieldCategoryID, *input.CategoryID)
	}

	return price, cost, validator.Err()
}

// # Admin Handlers

/*
AdminList returns every product, soft-deleted rows included.

GET /api/admin/products?...

Response:
  - 200: Paginated []Product
*/
func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	products, total, err := handler.productService.ListAllProducts(request.Context(), filter, params.Limit, params.Offset())
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
AdminGet returns one product, even when soft-deleted.

GET /api/admin/products/{id}
*/
func (handler *Handler) adminGet(writer http.ResponseWriter, request *http.Request) {
	product, err := handler.productService.GetAnyProduct(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

/*
Create adds a new product.

POST /api/admin/products

Response:
  - 201: Product
  - 400: Validation failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createProductRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	price, cost, err := input.validate()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.CreateProduct(request.Context(), adminID, &Product{
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		FullDescription:  input.FullDescription,
		Price:            price,
		Cost:             cost,
		Currency:         input.Currency,
		CategoryID:       input.CategoryID,
		Tags:             input.Tags,
		Images:           input.Images,
		StockCount:       input.StockCount,
		Available:        input.Available,
		ExpiryTimer:      input.ExpiryTimer,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

/*
Update applies partial changes to a product.

PATCH /api/admin/products/{id}

Response:
  - 200: Product
  - 400: Validation failure
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProductRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	price, cost, err := input.validate()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.UpdateProduct(
		request.Context(), adminID, requestutil.Param(request, "id"),
		func(product *Product) {
			if input.Title != nil {
				product.Title = *input.Title
			}
			if input.ShortDescription != nil {
				product.ShortDescription = *input.ShortDescription
			}
			if input.FullDescription != nil {
				product.FullDescription = *input.FullDescription
			}
			if price != nil {
				product.Price = *price
			}
			if cost != nil {
				product.Cost = *cost
			}
			if input.Currency != nil {
				product.Currency = *input.Currency
			}
			if input.CategoryID != nil {
				if *input.CategoryID == "" {
					product.CategoryID = nil
				} else {
					product.CategoryID = input.CategoryID
				}
			}
			if input.Tags != nil {
				product.Tags = input.Tags
			}
			if input.Images != nil {
				product.Images = input.Images
			}
			if input.StockCount != nil {
				product.StockCount = *input.StockCount
			}
			if input.Available != nil {
				product.Available = *input.Available
			}
			if input.ExpiryTimer != nil {
				product.ExpiryTimer = input.ExpiryTimer
			}
		},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Remove soft-deletes a product.

DELETE /api/admin/products/{id}

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

	if err := handler.productService.DeleteProduct(request.Context(), adminID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "Product deleted successfully", nil)
}

/*
Restore brings a soft-deleted product back.

POST /api/admin/products/{id}/restore

Response:
  - 200: Product
  - 404: ErrNotFound
*/
func (handler *Handler) restore(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.RestoreProduct(request.Context(), adminID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

/*
SetAvailability flips a product's availability flag.

PATCH /api/admin/products/{id}/availability
*/
func (handler *Handler) setAvailability(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input availabilityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	product, err := handler.productService.SetAvailability(request.Context(), adminID, requestutil.Param(request, "id"), input.Available)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

type stockRequest struct {
	StockCount int `json:"stockCount"`
}

/*
SetStock replaces a product's stock counter.

PATCH /api/admin/products/{id}/stock
*/
func (handler *Handler) setStock(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input stockRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if input.StockCount < 0 {
		respond.Error(writer, request, validate.RequiredError(FieldStockCount, "Must be zero or positive"))
		return
	}

	product, err := handler.productService.SetStock(request.Context(), adminID, requestutil.Param(request, "id"), input.StockCount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

/*
ToggleCommentFlag flips a comment's moderation flag.

POST /api/products/comments/{commentId}/flag

Response:
  - 200: Comment
  - 403: ErrForbidden: Insufficient role
  - 404: ErrNotFound
*/
func (handler *Handler) toggleCommentFlag(writer http.ResponseWriter, request *http.Request) {
	moderatorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.productService.ToggleCommentFlag(request.Context(), moderatorID, requestutil.Param(request, "commentId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}
