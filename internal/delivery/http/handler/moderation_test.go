package handler

import (
	"bytes"
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
	"github.com/avelev/review-system/internal/usecase/moderation"
	"github.com/avelev/review-system/internal/usecase/review"
)

// MockReportRepository is a mock implementation of domain.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListPending(ctx context.Context) ([]*domain.PendingReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PendingReport), args.Error(1)
}

func (m *MockReportRepository) Process(ctx context.Context, id uuid.UUID, deleteReview bool) (*domain.ProcessResult, error) {
	args := m.Called(ctx, id, deleteReview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessResult), args.Error(1)
}

type moderationHandlerMocks struct {
	reports *MockReportRepository
	reviews *reviewHandlerMocks
}

func newTestModerationHandler() (*ModerationHandler, *moderationHandlerMocks) {
	m := &moderationHandlerMocks{
		reports: new(MockReportRepository),
		reviews: &reviewHandlerMocks{
			repo:      new(MockReviewRepository),
			votes:     new(MockVoteRepository),
			cache:     new(MockReviewCache),
			publisher: new(MockEventPublisher),
			blobs:     new(MockBlobStore),
		},
	}
	m.reviews.publisher.On("Publish", mock.Anything, review.Subject, mock.Anything).Return(nil).Maybe()

	log := logger.New("test")
	reviewService := review.NewService(m.reviews.repo, m.reviews.votes, m.reviews.cache, m.reviews.publisher, m.reviews.blobs, log)
	service := moderation.NewService(m.reports, reviewService, log)
	return NewModerationHandler(service, log), m
}

func TestModerationHandler_CreateReport_Success(t *testing.T) {
	h, m := newTestModerationHandler()

	caller := testIdentity()
	reviewID := uuid.New()
	bodyBytes, _ := json.Marshal(CreateReportRequest{Reason: "Spam"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/"+reviewID.String()+"/reports", bytes.NewReader(bodyBytes))
	req = authedRequest(req, caller)
	req = withURLParam(req, "id", reviewID.String())
	w := httptest.NewRecorder()

	m.reviews.repo.On("GetByID", mock.Anything, reviewID).
		Return(&domain.Review{ID: reviewID, ProductID: uuid.New()}, nil)
	m.reports.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Report) bool {
		return r.ReviewID == reviewID && r.ReporterID == caller.ID && r.Reason == "Spam"
	})).Return(nil)

	h.CreateReport(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	m.reports.AssertExpectations(t)
}

func TestModerationHandler_CreateReport_OtherWithoutDetail(t *testing.T) {
	h, m := newTestModerationHandler()

	reviewID := uuid.New()
	bodyBytes, _ := json.Marshal(CreateReportRequest{Reason: "Other"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/"+reviewID.String()+"/reports", bytes.NewReader(bodyBytes))
	req = authedRequest(req, testIdentity())
	req = withURLParam(req, "id", reviewID.String())
	w := httptest.NewRecorder()

	m.reviews.repo.On("GetByID", mock.Anything, reviewID).
		Return(&domain.Review{ID: reviewID, ProductID: uuid.New()}, nil)

	h.CreateReport(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	m.reports.AssertNotCalled(t, "Create")
}

func TestModerationHandler_CreateReport_Duplicate(t *testing.T) {
	h, m := newTestModerationHandler()

	reviewID := uuid.New()
	bodyBytes, _ := json.Marshal(CreateReportRequest{Reason: "Spam"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/"+reviewID.String()+"/reports", bytes.NewReader(bodyBytes))
	req = authedRequest(req, testIdentity())
	req = withURLParam(req, "id", reviewID.String())
	w := httptest.NewRecorder()

	m.reviews.repo.On("GetByID", mock.Anything, reviewID).
		Return(&domain.Review{ID: reviewID, ProductID: uuid.New()}, nil)
	m.reports.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateReport)

	h.CreateReport(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestModerationHandler_ListPending(t *testing.T) {
	h, m := newTestModerationHandler()

	pending := []*domain.PendingReport{
		{Report: domain.Report{ID: uuid.New(), Reason: "Spam"}, ProductName: "Demo Headphones"},
	}
	m.reports.On("ListPending", mock.Anything).Return(pending, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports", nil)
	w := httptest.NewRecorder()

	h.ListPending(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response, "data")
}

func TestModerationHandler_ProcessReport_DeleteReview(t *testing.T) {
	h, m := newTestModerationHandler()

	reportID := uuid.New()
	imagePath := "/uploads/gone.jpg"
	result := &domain.ProcessResult{
		ReportID:      reportID,
		ReviewID:      uuid.New(),
		ProductID:     uuid.New(),
		ReviewDeleted: true,
		ImagePath:     &imagePath,
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reports/"+reportID.String()+"/process?delete_review=true", nil)
	req = withURLParam(req, "id", reportID.String())
	w := httptest.NewRecorder()

	m.reports.On("Process", mock.Anything, reportID, true).Return(result, nil)
	m.reviews.blobs.On("Delete", mock.Anything, imagePath).Return(nil)
	m.reviews.cache.On("InvalidateProduct", mock.Anything, result.ProductID).Return(nil)

	h.ProcessReport(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	m.reports.AssertExpectations(t)
	m.reviews.blobs.AssertExpectations(t)
}

func TestModerationHandler_ProcessReport_NotFound(t *testing.T) {
	h, m := newTestModerationHandler()

	reportID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reports/"+reportID.String()+"/process", nil)
	req = withURLParam(req, "id", reportID.String())
	w := httptest.NewRecorder()

	m.reports.On("Process", mock.Anything, reportID, false).Return(nil, domain.ErrNotFound)

	h.ProcessReport(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModerationHandler_Moderate_Approve(t *testing.T) {
	h, m := newTestModerationHandler()

	reviewID := uuid.New()
	bodyBytes, _ := json.Marshal(ModerateRequest{Approve: true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reviews/"+reviewID.String()+"/moderate", bytes.NewReader(bodyBytes))
	req = withURLParam(req, "id", reviewID.String())
	w := httptest.NewRecorder()

	m.reviews.repo.On("GetByID", mock.Anything, reviewID).Return(&domain.Review{ID: reviewID}, nil)

	h.Moderate(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	m.reviews.repo.AssertNotCalled(t, "Delete")
}

func TestModerationHandler_Moderate_Reject(t *testing.T) {
	h, m := newTestModerationHandler()

	reviewID := uuid.New()
	productID := uuid.New()
	bodyBytes, _ := json.Marshal(ModerateRequest{Approve: false})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reviews/"+reviewID.String()+"/moderate", bytes.NewReader(bodyBytes))
	req = withURLParam(req, "id", reviewID.String())
	w := httptest.NewRecorder()

	m.reviews.repo.On("GetByID", mock.Anything, reviewID).Return(&domain.Review{ID: reviewID, ProductID: productID}, nil)
	m.reviews.repo.On("Delete", mock.Anything, reviewID).Return((*string)(nil), nil)
	m.reviews.cache.On("InvalidateProduct", mock.Anything, productID).Return(nil)

	h.Moderate(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	m.reviews.repo.AssertExpectations(t)
}
