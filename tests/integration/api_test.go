//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelev/review-system/internal/bootstrap"
	"github.com/avelev/review-system/internal/config"
	"github.com/avelev/review-system/internal/delivery/events"
	httpDelivery "github.com/avelev/review-system/internal/delivery/http"
	"github.com/avelev/review-system/internal/delivery/http/handler"
	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/blob"
	"github.com/avelev/review-system/internal/pkg/cache"
	"github.com/avelev/review-system/internal/pkg/database"
	"github.com/avelev/review-system/internal/pkg/logger"
	cacheRepo "github.com/avelev/review-system/internal/repository/cache"
	"github.com/avelev/review-system/internal/repository/postgres"
	"github.com/avelev/review-system/internal/usecase/moderation"
	"github.com/avelev/review-system/internal/usecase/product"
	"github.com/avelev/review-system/internal/usecase/review"
)

type testEnv struct {
	server http.Handler
	cfg    *config.Config
	users  domain.UserRepository
}

func setupTestServer(t *testing.T) *testEnv {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(db))

	redisClient, err := cache.WaitForRedis(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	publisher, err := events.NewPublisher(cfg, log)
	require.NoError(t, err)

	blobStore, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.ProductRatingTTL,
		cfg.Cache.ReviewsListTTL,
	)

	seeder := bootstrap.NewSeeder(userRepo, productRepo, log)
	require.NoError(t, seeder.Seed(t.Context()))

	productService := product.NewService(productRepo, log)
	reviewService := review.NewService(reviewRepo, voteRepo, redisCache, publisher, blobStore, log)
	moderationService := moderation.NewService(reportRepo, reviewService, log)

	productHandler := handler.NewProductHandler(productService, reviewService, log)
	reviewHandler := handler.NewReviewHandler(reviewService, blobStore, log)
	moderationHandler := handler.NewModerationHandler(moderationService, log)

	router := httpDelivery.NewRouter(productHandler, reviewHandler, moderationHandler, cfg, log)
	return &testEnv{server: router.Setup(), cfg: cfg, users: userRepo}
}

func (e *testEnv) tokenFor(t *testing.T, username string) string {
	user, err := e.users.GetByUsername(t.Context(), username)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"name":  user.Username,
		"roles": user.Roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(e.cfg.Auth.JWTSecret))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) firstProductID(t *testing.T) uuid.UUID {
	w := e.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	return resp.Data[0].ID
}

func TestReviewLifecycle(t *testing.T) {
	env := setupTestServer(t)
	productID := env.firstProductID(t)
	userToken := env.tokenFor(t, "testuser")
	adminToken := env.tokenFor(t, "admin")

	// Submit a review
	w := env.do(t, http.MethodPost, "/api/v1/reviews", userToken, map[string]any{
		"product_id": productID.String(),
		"rating":     5,
		"comment":    "Excellent sound quality",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	reviewID := created.Data.ID

	// Second submission for the same product is rejected
	w = env.do(t, http.MethodPost, "/api/v1/reviews", userToken, map[string]any{
		"product_id": productID.String(),
		"rating":     1,
		"comment":    "changed my mind",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Rating summary reflects the review
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%s/rating", productID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		Data struct {
			Average float64 `json:"average_rating"`
			Count   int     `json:"review_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Data.Count)
	assert.InDelta(t, 5.0, summary.Data.Average, 1e-9)

	// Admin votes the review helpful, twice; second is a conflict
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reviews/%s/vote", reviewID), adminToken, map[string]string{"direction": "UP"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reviews/%s/vote", reviewID), adminToken, map[string]string{"direction": "UP"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Removing the vote succeeds once
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reviews/%s/vote", reviewID), adminToken, map[string]string{"direction": "DOWN"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reviews/%s/vote", reviewID), adminToken, map[string]string{"direction": "DOWN"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Report the review, reason Other requires a detail
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reviews/%s/reports", reviewID), adminToken, map[string]any{"reason": "Other"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reviews/%s/reports", reviewID), adminToken, map[string]any{
		"reason": "Other",
		"detail": "review is about a different product",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var report struct {
		Data struct {
			ID     uuid.UUID `json:"id"`
			Reason string    `json:"reason"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "Other: review is about a different product", report.Data.Reason)

	// The moderation queue requires the admin role
	w = env.do(t, http.MethodGet, "/api/v1/admin/reports", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/reports", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// So does the all-reviews feed
	w = env.do(t, http.MethodGet, "/api/v1/admin/reviews", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/reviews", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), reviewID.String())

	// Process the report deleting the review
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/reports/%s/process?delete_review=true", report.Data.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The review is gone
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/reviews/%s", reviewID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// And the summary is back to zero
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%s/rating", productID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 0, summary.Data.Count)
}

func TestAnonymousWritesRejected(t *testing.T) {
	env := setupTestServer(t)
	productID := env.firstProductID(t)

	w := env.do(t, http.MethodPost, "/api/v1/reviews", "", map[string]any{
		"product_id": productID.String(),
		"rating":     4,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/reports", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
