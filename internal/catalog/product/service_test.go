// Copyright (c) 2026 Souq. All rights reserved.

package product_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/internal/catalog/product"
	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/pkg/uuidv7"
)

// # Test Fakes

type fakeProductRepo struct {
	byID map[string]*product.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[string]*product.Product)}
}

func (repo *fakeProductRepo) List(_ context.Context, filter product.Filter, limit, offset int) ([]*product.Product, int, error) {
	var matches []*product.Product
	for _, item := range repo.byID {
		if item.DeletedAt != nil && !filter.IncludeDeleted {
			continue
		}
		if filter.CategoryID != "" && (item.CategoryID == nil || *item.CategoryID != filter.CategoryID) {
			continue
		}
		copied := *item
		matches = append(matches, &copied)
	}

	total := len(matches)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (repo *fakeProductRepo) FindByID(_ context.Context, id string, includeDeleted bool) (*product.Product, error) {
	item, ok := repo.byID[id]
	if !ok || (item.DeletedAt != nil && !includeDeleted) {
		return nil, apperr.NotFound("Product")
	}
	copied := *item
	return &copied, nil
}

func (repo *fakeProductRepo) Create(_ context.Context, item *product.Product) error {
	copied := *item
	repo.byID[item.ID] = &copied
	return nil
}

func (repo *fakeProductRepo) Update(_ context.Context, item *product.Product) error {
	existing, ok := repo.byID[item.ID]
	if !ok || existing.DeletedAt != nil {
		return apperr.NotFound("Product")
	}
	copied := *item
	copied.ViewsCount = existing.ViewsCount
	copied.Likes = existing.Likes
	copied.Dislikes = existing.Dislikes
	repo.byID[item.ID] = &copied
	return nil
}

func (repo *fakeProductRepo) SetAvailability(_ context.Context, id string, available bool) error {
	item, ok := repo.byID[id]
	if !ok || item.DeletedAt != nil {
		return apperr.NotFound("Product")
	}
	item.Available = available
	return nil
}

func (repo *fakeProductRepo) SetStock(_ context.Context, id string, stockCount int) error {
	item, ok := repo.byID[id]
	if !ok || item.DeletedAt != nil {
		return apperr.NotFound("Product")
	}
	item.StockCount = stockCount
	return nil
}

func (repo *fakeProductRepo) SoftDelete(_ context.Context, id string) error {
	item, ok := repo.byID[id]
	if !ok || item.DeletedAt != nil {
		return apperr.NotFound("Product")
	}
	now := time.Now()
	item.DeletedAt = &now
	return nil
}

func (repo *fakeProductRepo) Restore(_ context.Context, id string) error {
	item, ok := repo.byID[id]
	if !ok || item.DeletedAt == nil {
		return apperr.NotFound("Product")
	}
	item.DeletedAt = nil
	return nil
}

func (repo *fakeProductRepo) IncrementViews(_ context.Context, id string) error {
	item, ok := repo.byID[id]
	if !ok || item.DeletedAt != nil {
		return apperr.NotFound("Product")
	}
	item.ViewsCount++
	return nil
}

type likeKey struct{ userID, productID string }

type fakeSocialRepo struct {
	products *fakeProductRepo
	likes    map[likeKey]bool
	comments map[string]*product.Comment
}

func newFakeSocialRepo(products *fakeProductRepo) *fakeSocialRepo {
	return &fakeSocialRepo{
		products: products,
		likes:    make(map[likeKey]bool),
		comments: make(map[string]*product.Comment),
	}
}

func (repo *fakeSocialRepo) ToggleLike(_ context.Context, userID, productID string) (*product.LikeResult, error) {
	item, ok := repo.products.byID[productID]
	if !ok || item.DeletedAt != nil {
		return nil, apperr.NotFound("Product")
	}

	key := likeKey{userID: userID, productID: productID}
	if repo.likes[key] {
		delete(repo.likes, key)
		if item.Likes > 0 {
			item.Likes--
		}
		return &product.LikeResult{Liked: false, Likes: item.Likes}, nil
	}

	repo.likes[key] = true
	item.Likes++
	return &product.LikeResult{Liked: true, Likes: item.Likes}, nil
}

func (repo *fakeSocialRepo) CreateComment(_ context.Context, comment *product.Comment) error {
	copied := *comment
	repo.comments[comment.ID] = &copied
	return nil
}

func (repo *fakeSocialRepo) ListComments(_ context.Context, productID string, limit, offset int) ([]product.Comment, int, error) {
	var visible []product.Comment
	for _, comment := range repo.comments {
		if comment.ProductID == productID && !comment.Flagged {
			visible = append(visible, *comment)
		}
	}

	total := len(visible)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return visible[offset:end], total, nil
}

func (repo *fakeSocialRepo) FindCommentByID(_ context.Context, id string) (*product.Comment, error) {
	comment, ok := repo.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	copied := *comment
	return &copied, nil
}

func (repo *fakeSocialRepo) SetCommentFlag(_ context.Context, id string, flagged bool) error {
	comment, ok := repo.comments[id]
	if !ok {
		return apperr.NotFound("Comment")
	}
	comment.Flagged = flagged
	return nil
}

type fakeAuditLog struct {
	entries []*audit.Entry
}

func (log *fakeAuditLog) Append(_ context.Context, entry *audit.Entry) error {
	log.entries = append(log.entries, entry)
	return nil
}

// # Helpers

func newTestService() (*product.Service, *fakeProductRepo, *fakeSocialRepo, *fakeAuditLog) {
	productRepo := newFakeProductRepo()
	socialRepo := newFakeSocialRepo(productRepo)
	auditLog := &fakeAuditLog{}
	return product.NewService(productRepo, socialRepo, auditLog), productRepo, socialRepo, auditLog
}

func seedProduct(repo *fakeProductRepo) *product.Product {
	item := &product.Product{
		ID:         uuidv7.New(),
		Title:      "Ceramic Mug",
		Price:      decimal.NewFromInt(45),
		Currency:   product.DefaultCurrency,
		Available:  true,
		StockCount: 12,
	}
	repo.byID[item.ID] = item
	return item
}

// # Storefront Tests

/*
TestRecordView_Increments verifies each recorded view bumps the counter by
exactly one, with no bump on plain reads.
*/
func TestRecordView_Increments(t *testing.T) {
	service, repo, _, _ := newTestService()
	seeded := seedProduct(repo)

	// 1. Plain reads never count views
	_, err := service.GetProduct(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Zero(t, repo.byID[seeded.ID].ViewsCount)

	// 2. Each recorded view counts once
	require.NoError(t, service.RecordView(context.Background(), seeded.ID))
	require.NoError(t, service.RecordView(context.Background(), seeded.ID))
	assert.Equal(t, int64(2), repo.byID[seeded.ID].ViewsCount)

	// 3. Views on unknown products fail
	require.Error(t, service.RecordView(context.Background(), uuidv7.New()))
}

/*
TestGetProduct_NotFound verifies the not-found path for unknown and
soft-deleted products.
*/
func TestGetProduct_NotFound(t *testing.T) {
	service, repo, _, _ := newTestService()
	seeded := seedProduct(repo)

	// 1. Unknown ID
	_, err := service.GetProduct(context.Background(), uuidv7.New())
	require.Error(t, err)

	// 2. Soft-deleted product is invisible to the storefront
	require.NoError(t, service.DeleteProduct(context.Background(), uuidv7.New(), seeded.ID))
	_, err = service.GetProduct(context.Background(), seeded.ID)
	require.Error(t, err)
}

/*
TestListProducts_ExcludesDeleted verifies the public listing never includes
soft-deleted rows even when the filter asks for them, while the admin
listing does include them.
*/
func TestListProducts_ExcludesDeleted(t *testing.T) {
	service, repo, _, _ := newTestService()
	active := seedProduct(repo)
	deleted := seedProduct(repo)
	require.NoError(t, service.DeleteProduct(context.Background(), uuidv7.New(), deleted.ID))

	// 1. Public listing with IncludeDeleted forced on by the caller
	listed, total, err := service.ListProducts(context.Background(), product.Filter{IncludeDeleted: true}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)

	// 2. Admin listing sees both
	_, adminTotal, err := service.ListAllProducts(context.Background(), product.Filter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, adminTotal)
}

/*
TestToggleLike_RoundTrip verifies that liking twice returns the product to
its original counter without drifting.
*/
func TestToggleLike_RoundTrip(t *testing.T) {
	service, repo, _, _ := newTestService()
	seeded := seedProduct(repo)
	userID := uuidv7.New()

	// 1. First toggle likes
	result, err := service.ToggleLike(context.Background(), userID, seeded.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.Likes)

	// 2. Second toggle unlikes
	result, err = service.ToggleLike(context.Background(), userID, seeded.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.Likes)
	assert.Equal(t, 0, repo.byID[seeded.ID].Likes)
}

/*
TestToggleLike_TwoUsers verifies per-user like state with a shared counter.
*/
func TestToggleLike_TwoUsers(t *testing.T) {
	service, repo, _, _ := newTestService()
	seeded := seedProduct(repo)

	// 1. Two distinct users like the same product
	_, err := service.ToggleLike(context.Background(), uuidv7.New(), seeded.ID)
	require.NoError(t, err)
	result, err := service.ToggleLike(context.Background(), uuidv7.New(), seeded.ID)
	require.NoError(t, err)

	// 2. Both likes accumulate
	assert.True(t, result.Liked)
	assert.Equal(t, 2, result.Likes)
	assert.Equal(t, 2, repo.byID[seeded.ID].Likes)
}

/*
TestToggleLike_UnknownProduct verifies liking a missing product fails.
*/
func TestToggleLike_UnknownProduct(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.ToggleLike(context.Background(), uuidv7.New(), uuidv7.New())
	require.Error(t, err)
}

/*
TestAddComment_DefaultRating verifies a zero rating falls back to the
default and the comment lands on the product.
*/
func TestAddComment_DefaultRating(t *testing.T) {
	service, repo, _, _ := newTestService()
	seeded := seedProduct(repo)
	userID := uuidv7.New()

	// 1. Comment without an explicit rating
	comment, err := service.AddComment(context.Background(), userID, seeded.ID, "Great mug", 0)
	require.NoError(t, err)
	assert.Equal(t, product.DefaultCommentRating, comment.Rating)
	assert.Equal(t, userID, comment.UserID)
	assert.False(t, comment.Flagged)

	// 2. Comment appears in the listing
	comments, total, err := service.ListComments(context.Background(), seeded.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
}

/*
TestToggleCommentFlag verifies flagging hides a comment from the public
listing and a second toggle brings it back.
*/
func TestToggleCommentFlag(t *testing.T) {
	service, repo, _, auditLog := newTestService()
	seeded := seedProduct(repo)
	adminID := uuidv7.New()

	comment, err := service.AddComment(context.Background(), uuidv7.New(), seeded.ID, "Spam spam spam", 1)
	require.NoError(t, err)

	// 1. Flag the comment
	flagged, err := service.ToggleCommentFlag(context.Background(), adminID, comment.ID)
	require.NoError(t, err)
	assert.True(t, flagged.Flagged)

	_, total, err := service.ListComments(context.Background(), seeded.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	// 2. Toggle again restores visibility
	restored, err := service.ToggleCommentFlag(context.Background(), adminID, comment.ID)
	require.NoError(t, err)
	assert.False(t, restored.Flagged)

	_, total, err = service.ListComments(context.Background(), seeded.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// 3. Both toggles were audited
	require.Len(t, auditLog.entries, 2)
	assert.Equal(t, audit.ActionCommentFlagToggled, auditLog.entries[0].Action)
	assert.Equal(t, comment.ID, auditLog.entries[0].ResourceID)
}

// # Admin Tests

/*
TestCreateProduct_Defaults verifies currency and counter defaults plus the
audit trail entry.
*/
func TestCreateProduct_Defaults(t *testing.T) {
	service, repo, _, auditLog := newTestService()
	adminID := uuidv7.New()

	// 1. Create without a currency
	created, err := service.CreateProduct(context.Background(), adminID, &product.Product{
		Title:            "Walnut Tray",
		ShortDescription: "Hand-carved serving tray",
		Price:            decimal.NewFromInt(120),
		Available:        true,
	})
	require.NoError(t, err)

	// 2. Defaults applied
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, product.DefaultCurrency, created.Currency)
	assert.Zero(t, created.ViewsCount)
	assert.Zero(t, created.Likes)
	assert.NotNil(t, created.Tags)
	assert.NotNil(t, created.Images)
	assert.Contains(t, repo.byID, created.ID)

	// 3. One audit entry with the admin attributed
	require.Len(t, auditLog.entries, 1)
	assert.Equal(t, audit.ActionProductCreated, auditLog.entries[0].Action)
	assert.Equal(t, adminID, auditLog.entries[0].AdminID)
	assert.Equal(t, created.ID, auditLog.entries[0].ResourceID)
}

/*
TestUpdateProduct_PreservesCounters verifies field updates never touch the
denormalized counters.
*/
func TestUpdateProduct_PreservesCounters(t *testing.T) {
	service, repo, _, _ := newTestService()
	seeded := seedProduct(repo)
	seeded.ViewsCount = 7
	seeded.Likes = 3

	// 1. Rename the product
	updated, err := service.UpdateProduct(context.Background(), uuidv7.New(), seeded.ID, func(item *product.Product) {
		item.Title = "Ceramic Mug v2"
	})
	require.NoError(t, err)

	// 2. Counters survive the write
	assert.Equal(t, "Ceramic Mug v2", updated.Title)
	stored := repo.byID[seeded.ID]
	assert.Equal(t, int64(7), stored.ViewsCount)
	assert.Equal(t, 3, stored.Likes)
}

/*
TestDeleteRestore_Lifecycle verifies the soft-delete round trip and its
audit entries.
*/
func TestDeleteRestore_Lifecycle(t *testing.T) {
	service, repo, _, auditLog := newTestService()
	seeded := seedProduct(repo)
	adminID := uuidv7.New()

	// 1. Soft delete hides the product
	require.NoError(t, service.DeleteProduct(context.Background(), adminID, seeded.ID))
	_, err := service.GetProduct(context.Background(), seeded.ID)
	require.Error(t, err)

	// 2. Admins still resolve it
	hidden, err := service.GetAnyProduct(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.NotNil(t, hidden.DeletedAt)

	// 3. Restore brings it back
	restored, err := service.RestoreProduct(context.Background(), adminID, seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	_, err = service.GetProduct(context.Background(), seeded.ID)
	require.NoError(t, err)

	// 4. Both actions audited in order
	require.Len(t, auditLog.entries, 2)
	assert.Equal(t, audit.ActionProductDeleted, auditLog.entries[0].Action)
	assert.Equal(t, audit.ActionProductRestored, auditLog.entries[1].Action)
}

/*
TestSetAvailabilityAndStock verifies the targeted flag and counter setters.
*/
func TestSetAvailabilityAndStock(t *testing.T) {
	service, repo, _, _ := newTestService()
	seeded := seedProduct(repo)
	adminID := uuidv7.New()

	// 1. Flip availability off
	updated, err := service.SetAvailability(context.Background(), adminID, seeded.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Available)

	// 2. Replace the stock counter
	updated, err = service.SetStock(context.Background(), adminID, seeded.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 99, updated.StockCount)
	assert.Equal(t, 99, repo.byID[seeded.ID].StockCount)
}
