package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/logger"
	"github.com/avelev/review-system/internal/usecase/product"
	"github.com/avelev/review-system/internal/usecase/review"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func newTestProductHandler() (*ProductHandler, *MockProductRepository, *reviewHandlerMocks) {
	products := new(MockProductRepository)
	reviews := &reviewHandlerMocks{
		repo:      new(MockReviewRepository),
		votes:     new(MockVoteRepository),
		cache:     new(MockReviewCache),
		publisher: new(MockEventPublisher),
		blobs:     new(MockBlobStore),
	}
	reviews.publisher.On("Publish", mock.Anything, review.Subject, mock.Anything).Return(nil).Maybe()

	log := logger.New("test")
	productService := product.NewService(products, log)
	reviewService := review.NewService(reviews.repo, reviews.votes, reviews.cache, reviews.publisher, reviews.blobs, log)
	return NewProductHandler(productService, reviewService, log), products, reviews
}

func TestProductHandler_List(t *testing.T) {
	h, products, _ := newTestProductHandler()

	items := []*domain.Product{{ID: uuid.New(), Name: "Demo Headphones", Price: 129.99}}
	products.On("List", mock.Anything, 20, 0).Return(items, nil)
	products.On("Count", mock.Anything).Return(1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response, "data")
	assert.Contains(t, response, "pagination")
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	h, products, _ := newTestProductHandler()

	id := uuid.New()
	products.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil)
	req = withURLParam(req, "id", id.String())
	w := httptest.NewRecorder()

	h.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_GetRating(t *testing.T) {
	h, _, reviews := newTestProductHandler()

	productID := uuid.New()
	reviews.cache.On("GetRatingSummary", mock.Anything, productID).Return(nil, assert.AnError)
	reviews.repo.On("AverageByProductID", mock.Anything, productID).Return(4.35, nil)
	reviews.repo.On("CountByProductID", mock.Anything, productID).Return(2, nil)
	reviews.cache.On("SetRatingSummary", mock.Anything, productID, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/rating", nil)
	req = withURLParam(req, "id", productID.String())
	w := httptest.NewRecorder()

	h.GetRating(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data domain.RatingSummary `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.InDelta(t, 4.4, response.Data.Average, 1e-9)
	assert.Equal(t, 2, response.Data.Count)
}
