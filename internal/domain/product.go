package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is the catalog entity reviews attach to. Catalog management is
// owned by another system; this service reads products and the rating worker
// maintains AverageRating as a denormalized display value.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Price         float64   `json:"price" db:"price" validate:"gte=0"`
	ImagePath     *string   `json:"image_path,omitempty" db:"image_path"`
	AverageRating float64   `json:"average_rating" db:"average_rating"`
	Version       int       `json:"version" db:"version"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ProductRepository defines read access to the catalog plus the single write
// used by the bootstrap seeding routine.
type ProductRepository interface {
	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// List retrieves a paginated list of products
	List(ctx context.Context, limit, offset int) ([]*Product, error)

	// Count returns the total number of products
	Count(ctx context.Context) (int, error)

	// Create inserts a product. Used only by bootstrap seeding.
	Create(ctx context.Context, product *Product) error
}
