package review

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/blob"
	"github.com/avelev/review-system/internal/pkg/logger"
	"github.com/avelev/review-system/internal/pkg/validator"
)

// Subject is the NATS subject review lifecycle events are published on.
const Subject = "reviews.events"

// Event types published on Subject.
const (
	EventCreated = "review.created"
	EventDeleted = "review.deleted"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ReviewCache defines the cache-aside operations the service needs
type ReviewCache interface {
	GetRatingSummary(ctx context.Context, productID uuid.UUID) (*domain.RatingSummary, error)
	SetRatingSummary(ctx context.Context, productID uuid.UUID, summary *domain.RatingSummary) error
	GetReviewsList(ctx context.Context, productID uuid.UUID, sort domain.SortOrder, limit, offset int) ([]*domain.Review, error)
	SetReviewsList(ctx context.Context, productID uuid.UUID, sort domain.SortOrder, limit, offset int, reviews []*domain.Review) error
	InvalidateProduct(ctx context.Context, productID uuid.UUID) error
}

// Event is the review lifecycle event consumed by the rating worker.
type Event struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	ProductID uuid.UUID `json:"product_id"`
	ReviewID  uuid.UUID `json:"review_id"`
}

// Service handles the review store, the vote ledger and the rating aggregates.
type Service struct {
	reviews   domain.ReviewRepository
	votes     domain.VoteRepository
	cache     ReviewCache
	publisher EventPublisher
	blobs     blob.Store
	logger    *logger.Logger
}

// NewService creates a new review service
func NewService(
	reviews domain.ReviewRepository,
	votes domain.VoteRepository,
	cache ReviewCache,
	publisher EventPublisher,
	blobs blob.Store,
	log *logger.Logger,
) *Service {
	return &Service{
		reviews:   reviews,
		votes:     votes,
		cache:     cache,
		publisher: publisher,
		blobs:     blobs,
		logger:    log,
	}
}

// Submit validates and stores a new review for the calling user. All
// validation happens before any write; the repository's unique constraint
// settles duplicate submissions.
func (s *Service) Submit(ctx context.Context, caller domain.Identity, productID uuid.UUID, rating int, comment string, imagePath *string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	if err := validator.ValidateComment(comment); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    caller.ID,
		Rating:    rating,
		Comment:   comment,
		ImagePath: imagePath,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.Error("Failed to create review", err)
		return nil, err
	}

	if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %s: %v", productID, err)
	}

	s.publishEvent(EventCreated, productID, review.ID)

	s.logger.WithFields(map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
		"user_id":    caller.ID,
		"rating":     rating,
	}).Info("Review submitted")

	return review, nil
}

// GetByID retrieves a review by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if err != domain.ErrNotFound {
			s.logger.Error("Failed to get review", err)
		}
		return nil, err
	}

	return review, nil
}

// ListByProduct retrieves one page of reviews in the requested order, with
// the total count for pagination. Pages are cached per (sort, limit, offset).
func (s *Service) ListByProduct(ctx context.Context, productID uuid.UUID, sort domain.SortOrder, limit, offset int) ([]*domain.Review, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := s.cache.GetReviewsList(ctx, productID, sort, limit, offset)
	if err == nil {
		total, err := s.reviews.CountByProductID(ctx, productID)
		if err != nil {
			s.logger.Error("Failed to count reviews", err)
			return nil, 0, err
		}
		return reviews, total, nil
	}

	reviews, err = s.reviews.GetByProductID(ctx, productID, sort, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list reviews", err)
		return nil, 0, err
	}

	total, err := s.reviews.CountByProductID(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to count reviews", err)
		return nil, 0, err
	}

	if err := s.cache.SetReviewsList(ctx, productID, sort, limit, offset, reviews); err != nil {
		s.logger.Warnf("Failed to cache reviews for product %s: %v", productID, err)
	}

	return reviews, total, nil
}

// ListAll returns one page of all reviews newest-first with the total count,
// joined with product and author for the moderation dashboard. The feed is
// uncached so moderators always see fresh state.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*domain.ModeratedReview, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := s.reviews.ListAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list reviews", err)
		return nil, 0, err
	}

	total, err := s.reviews.CountAll(ctx)
	if err != nil {
		s.logger.Error("Failed to count reviews", err)
		return nil, 0, err
	}

	return reviews, total, nil
}

// Vote applies a helpful-vote action for the calling user. The ledger keeps
// at most one vote per (user, review) and the counter in step with the rows.
func (s *Service) Vote(ctx context.Context, caller domain.Identity, reviewID uuid.UUID, direction domain.VoteDirection) error {
	if !direction.Valid() {
		return domain.ErrInvalidInput
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	switch direction {
	case domain.VoteUp:
		err = s.votes.Cast(ctx, caller.ID, reviewID)
	case domain.VoteDown:
		err = s.votes.Remove(ctx, caller.ID, reviewID)
	}
	if err != nil {
		return err
	}

	// Helpful ordering of cached pages is stale now
	if err := s.cache.InvalidateProduct(ctx, review.ProductID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %s: %v", review.ProductID, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"review_id": reviewID,
		"user_id":   caller.ID,
		"direction": direction,
	}).Info("Vote recorded")

	return nil
}

// RatingSummary returns the mean rating rounded half-up to one decimal place
// together with the review count. Zero reviews yield a 0.0 mean.
func (s *Service) RatingSummary(ctx context.Context, productID uuid.UUID) (*domain.RatingSummary, error) {
	summary, err := s.cache.GetRatingSummary(ctx, productID)
	if err == nil {
		return summary, nil
	}

	avg, err := s.reviews.AverageByProductID(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to compute average rating", err)
		return nil, err
	}

	count, err := s.reviews.CountByProductID(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to count reviews", err)
		return nil, err
	}

	summary = &domain.RatingSummary{
		Average: roundHalfUp(avg),
		Count:   count,
	}

	if err := s.cache.SetRatingSummary(ctx, productID, summary); err != nil {
		s.logger.Warnf("Failed to cache rating for product %s: %v", productID, err)
	}

	return summary, nil
}

// AverageRating returns the rounded mean rating for a product.
func (s *Service) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	summary, err := s.RatingSummary(ctx, productID)
	if err != nil {
		return 0, err
	}
	return summary.Average, nil
}

// ReviewCount returns the number of reviews for a product.
func (s *Service) ReviewCount(ctx context.Context, productID uuid.UUID) (int, error) {
	summary, err := s.RatingSummary(ctx, productID)
	if err != nil {
		return 0, err
	}
	return summary.Count, nil
}

// Delete removes a review with all its votes and reports, releases the image
// blob and announces the deletion. Invoked only through moderation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}

	imagePath, err := s.reviews.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete review", err)
		return err
	}

	s.releaseImage(ctx, imagePath)

	if err := s.cache.InvalidateProduct(ctx, review.ProductID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %s: %v", review.ProductID, err)
	}

	s.publishEvent(EventDeleted, review.ProductID, id)

	s.logger.WithFields(map[string]interface{}{
		"review_id":  id,
		"product_id": review.ProductID,
	}).Info("Review deleted")

	return nil
}

// ReleaseImage removes a review image blob after the owning row is gone.
// Best effort: the row deletion already committed, a leaked file only costs disk.
func (s *Service) releaseImage(ctx context.Context, imagePath *string) {
	if imagePath == nil || *imagePath == "" {
		return
	}
	if err := s.blobs.Delete(ctx, *imagePath); err != nil {
		s.logger.Warnf("Failed to delete review image %s: %v", *imagePath, err)
	}
}

// AnnounceDeleted publishes the deletion event and clears caches for a review
// that was removed by the report queue's atomic process-and-delete.
func (s *Service) AnnounceDeleted(ctx context.Context, productID, reviewID uuid.UUID, imagePath *string) {
	s.releaseImage(ctx, imagePath)

	if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %s: %v", productID, err)
	}

	s.publishEvent(EventDeleted, productID, reviewID)
}

// roundHalfUp rounds to one decimal place, halves away from zero.
func roundHalfUp(v float64) float64 {
	return math.Round(v*10) / 10
}

// publishEvent publishes a review event (non-blocking)
func (s *Service) publishEvent(eventType string, productID, reviewID uuid.UUID) {
	event := Event{
		EventType: eventType,
		Timestamp: time.Now(),
		ProductID: productID,
		ReviewID:  reviewID,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for review %s", reviewID)
		return
	}

	// Publish in background to avoid blocking the request
	go func() {
		if err := s.publisher.Publish(context.Background(), Subject, data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for review %s", reviewID)
		}
	}()
}
