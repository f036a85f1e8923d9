package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SortOrder is the closed set of review list orderings. Every ordering uses
// the review id as a stable tiebreak so repeated queries are deterministic.
type SortOrder string

const (
	SortNewest  SortOrder = "newest"  // created_at desc
	SortHighest SortOrder = "highest" // rating desc
	SortLowest  SortOrder = "lowest"  // rating asc
	SortHelpful SortOrder = "helpful" // helpful_votes desc
)

// ParseSortOrder maps a query string value to a SortOrder, defaulting to newest.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortHighest, SortLowest, SortHelpful:
		return SortOrder(s)
	default:
		return SortNewest
	}
}

// Review represents a product review. A user may hold at most one review per
// product; HelpfulVotes is a denormalized counter maintained by the vote ledger.
type Review struct {
	ID               uuid.UUID `json:"id" db:"id"`
	ProductID        uuid.UUID `json:"product_id" db:"product_id" validate:"required"`
	UserID           uuid.UUID `json:"user_id" db:"user_id" validate:"required"`
	Rating           int       `json:"rating" db:"rating" validate:"required,min=1,max=5"`
	Comment          string    `json:"comment" db:"comment" validate:"max=5000,nourl"`
	ImagePath        *string   `json:"image_path,omitempty" db:"image_path"`
	VerifiedPurchase bool      `json:"verified_purchase" db:"verified_purchase"`
	HelpfulVotes     int       `json:"helpful_votes" db:"helpful_votes"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ModeratedReview is a review joined with its product and author, as listed
// on the moderation dashboard.
type ModeratedReview struct {
	Review
	ProductName string `json:"product_name" db:"product_name"`
	AuthorName  string `json:"author_name" db:"author_name"`
}

// RatingSummary holds the read-only aggregates for a product.
type RatingSummary struct {
	Average float64 `json:"average_rating"`
	Count   int     `json:"review_count"`
}

// ReviewRepository defines data access for the review store.
type ReviewRepository interface {
	// Create inserts a new review. Returns ErrDuplicateReview if the author
	// already has a review for the product, ErrNotFound if the product is absent.
	Create(ctx context.Context, review *Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// GetByProductID retrieves one page of reviews for a product in the given order
	GetByProductID(ctx context.Context, productID uuid.UUID, sort SortOrder, limit, offset int) ([]*Review, error)

	// CountByProductID returns the number of reviews for a product
	CountByProductID(ctx context.Context, productID uuid.UUID) (int, error)

	// ListAll returns one page of all reviews newest-first, joined with
	// product and author for the moderation dashboard
	ListAll(ctx context.Context, limit, offset int) ([]*ModeratedReview, error)

	// CountAll returns the total number of reviews
	CountAll(ctx context.Context) (int, error)

	// AverageByProductID returns the unrounded mean rating, 0 when no reviews exist
	AverageByProductID(ctx context.Context, productID uuid.UUID) (float64, error)

	// Delete removes a review together with all votes and reports that
	// reference it, in one transaction. Returns the stored image path, if any,
	// so the caller can release the blob, and ErrNotFound if the review is absent.
	Delete(ctx context.Context, id uuid.UUID) (imagePath *string, err error)
}
