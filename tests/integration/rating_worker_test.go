//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelev/review-system/internal/config"
	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/database"
	"github.com/avelev/review-system/internal/pkg/logger"
	"github.com/avelev/review-system/internal/repository/postgres"
	"github.com/avelev/review-system/internal/usecase/review"
	"github.com/avelev/review-system/internal/worker"
)

func strPtr(s string) *string {
	return &s
}

func TestRatingWorker_EndToEnd(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, database.RunMigrations(db))

	nc, err := nats.Connect(cfg.NATS.URL)
	require.NoError(t, err)
	defer nc.Close()

	calculator := worker.NewCalculator(db, log)
	ratingWorker := worker.NewRatingWorker(calculator, log)

	_, err = nc.Subscribe(review.Subject, func(msg *nats.Msg) {
		_ = ratingWorker.HandleEvent(msg.Data)
	})
	require.NoError(t, err)

	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	ctx := context.Background()

	product := &domain.Product{
		Name:        "Rating Worker Test Product",
		Description: strPtr("Integration test product"),
		Price:       99.99,
	}
	require.NoError(t, productRepo.Create(ctx, product))

	defer func() {
		_, _ = db.ExecContext(ctx, "DELETE FROM reviews WHERE product_id = $1", product.ID)
		_, _ = db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", product.ID)
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = ratingWorker.Shutdown(shutdownCtx)
	}()

	// One review per user, average should land at 4.4
	ratings := []int{5, 4, 5, 3, 5}

	for i, rating := range ratings {
		user := &domain.User{
			Username:    fmt.Sprintf("rating-worker-user-%d-%s", i, uuid.New()),
			DisplayName: "Rating Worker User",
			Roles:       []string{domain.RoleUser},
		}
		require.NoError(t, userRepo.Create(ctx, user))
		defer func(id uuid.UUID) {
			_, _ = db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
		}(user.ID)

		r := &domain.Review{
			ProductID: product.ID,
			UserID:    user.ID,
			Rating:    rating,
			Comment:   "Integration test review",
		}
		require.NoError(t, reviewRepo.Create(ctx, r))

		event := review.Event{
			EventType: review.EventCreated,
			Timestamp: time.Now(),
			ProductID: product.ID,
			ReviewID:  r.ID,
		}
		data, err := json.Marshal(event)
		require.NoError(t, err)
		require.NoError(t, nc.Publish(review.Subject, data))
	}

	// Debounce window plus processing headroom
	time.Sleep(3 * time.Second)

	rating, err := calculator.GetCurrentRating(ctx, product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.4, rating, 1e-9)
}
