package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role names carried in JWT claims and on user rows.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the authenticated caller, extracted from the request token by
// the auth middleware and threaded explicitly through every operation.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

// HasRole reports whether the identity carries the given role.
func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// User is the stored identity projection. Authentication and passwords live
// in an external system; this row only backs display names and seeding.
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Username    string    `json:"username" db:"username" validate:"required,min=1,max=100"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Roles       []string  `json:"roles" db:"roles"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserRepository defines the identity projection store.
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create inserts a user. Used only by bootstrap seeding.
	Create(ctx context.Context, user *User) error
}
