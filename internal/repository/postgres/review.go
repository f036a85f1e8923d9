package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/avelev/review-system/internal/domain"
)

// reviewDuplicateConstraint guards the one-review-per-(user, product) rule.
const reviewDuplicateConstraint = "reviews_user_id_product_id_key"

// ReviewRepository implements domain.ReviewRepository for PostgreSQL
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review with verified_purchase=true and a zero counter.
// The unique constraint on (user_id, product_id) is the duplicate signal, so
// two concurrent submissions by the same user yield exactly one success.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	// Return domain.ErrNotFound instead of a cryptic foreign key violation
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`
	err := r.db.GetContext(ctx, &exists, checkQuery, review.ProductID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment, image_path, verified_purchase, helpful_votes)
		VALUES ($1, $2, $3, $4, $5, TRUE, 0)
		RETURNING id, verified_purchase, helpful_votes, created_at
	`

	err = r.db.QueryRowxContext(
		ctx,
		query,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.ImagePath,
	).Scan(
		&review.ID,
		&review.VerifiedPurchase,
		&review.HelpfulVotes,
		&review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, reviewDuplicateConstraint) {
			return domain.ErrDuplicateReview
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, image_path, verified_purchase, helpful_votes, created_at
		FROM reviews
		WHERE id = $1
	`

	var review domain.Review
	err := r.db.GetContext(ctx, &review, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &review, nil
}

// orderClause maps the closed sort enumeration to explicit orderings. The id
// tiebreak keeps repeated queries deterministic.
func orderClause(sort domain.SortOrder) string {
	switch sort {
	case domain.SortHighest:
		return "rating DESC, id"
	case domain.SortLowest:
		return "rating ASC, id"
	case domain.SortHelpful:
		return "helpful_votes DESC, id"
	default:
		return "created_at DESC, id"
	}
}

// GetByProductID retrieves one page of reviews for a product
func (r *ReviewRepository) GetByProductID(ctx context.Context, productID uuid.UUID, sort domain.SortOrder, limit, offset int) ([]*domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT id, product_id, user_id, rating, comment, image_path, verified_purchase, helpful_votes, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY %s
		LIMIT $2 OFFSET $3
	`, orderClause(sort))

	var reviews []*domain.Review
	err := r.db.SelectContext(ctx, &reviews, query, productID, limit, offset)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// CountByProductID returns the total number of reviews for a product
func (r *ReviewRepository) CountByProductID(ctx context.Context, productID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE product_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, productID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ListAll returns one page of all reviews newest-first, joined with the
// product and the author for the moderation dashboard.
func (r *ReviewRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.ModeratedReview, error) {
	query := `
		SELECT rev.id, rev.product_id, rev.user_id, rev.rating, rev.comment, rev.image_path,
		       rev.verified_purchase, rev.helpful_votes, rev.created_at,
		       p.name AS product_name,
		       u.username AS author_name
		FROM reviews rev
		JOIN products p ON p.id = rev.product_id
		JOIN users u ON u.id = rev.user_id
		ORDER BY rev.created_at DESC, rev.id
		LIMIT $1 OFFSET $2
	`

	var reviews []*domain.ModeratedReview
	err := r.db.SelectContext(ctx, &reviews, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// CountAll returns the total number of reviews
func (r *ReviewRepository) CountAll(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM reviews`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// AverageByProductID returns the unrounded mean rating, 0 when no reviews exist
func (r *ReviewRepository) AverageByProductID(ctx context.Context, productID uuid.UUID) (float64, error) {
	query := `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = $1`

	var avg float64
	err := r.db.GetContext(ctx, &avg, query, productID)
	if err != nil {
		return 0, err
	}

	return avg, nil
}

// Delete removes the review and every vote and report referencing it in one
// transaction, so no orphan rows can survive a concurrent observer.
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) (*string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	imagePath, err := deleteReviewTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return imagePath, nil
}

// deleteReviewTx performs the cascading delete inside an existing transaction.
// Shared with the report queue so process-and-delete stays a single atomic unit.
func deleteReviewTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*string, error) {
	// Locking the review first serializes against racing votes and reports
	var imagePath *string
	err := tx.GetContext(ctx, &imagePath, `SELECT image_path FROM reviews WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM review_votes WHERE review_id = $1`, id); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM review_reports WHERE review_id = $1`, id); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return nil, err
	}

	return imagePath, nil
}
