package worker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/avelev/review-system/internal/pkg/logger"
)

// Calculator recomputes the denormalized catalog rating for a product.
// Full recalculation from the reviews table keeps it self-correcting.
type Calculator struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// NewCalculator creates a new rating calculator
func NewCalculator(db *sqlx.DB, logger *logger.Logger) *Calculator {
	return &Calculator{
		db:     db,
		logger: logger,
	}
}

// CalculateAndUpdate recalculates the average rating for a product and
// writes it to the products row. ROUND on numeric rounds half-up, matching
// the synchronous aggregator.
func (c *Calculator) CalculateAndUpdate(ctx context.Context, productID uuid.UUID) error {
	query := `
		UPDATE products
		SET
			average_rating = COALESCE(
				(SELECT ROUND(AVG(rating)::numeric, 1)
				 FROM reviews
				 WHERE product_id = $1),
				0
			),
			updated_at = $2,
			version = version + 1
		WHERE id = $1
	`

	result, err := c.db.ExecContext(ctx, query, productID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Product removed from the catalog is not an error, just log
	if rowsAffected == 0 {
		c.logger.WithFields(map[string]interface{}{
			"product_id": productID.String(),
		}).Info("Product not found, skipping rating update")
		return nil
	}

	c.logger.WithFields(map[string]interface{}{
		"product_id": productID.String(),
	}).Info("Updated product rating")

	return nil
}

// GetCurrentRating retrieves the stored average rating (used in tests)
func (c *Calculator) GetCurrentRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	var rating sql.NullFloat64
	query := `SELECT average_rating FROM products WHERE id = $1`

	err := c.db.GetContext(ctx, &rating, query, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to get current rating: %w", err)
	}

	if !rating.Valid {
		return 0, nil
	}

	return rating.Float64, nil
}
