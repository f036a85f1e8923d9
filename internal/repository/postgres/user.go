package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/avelev/review-system/internal/domain"
)

// userRow mirrors the users table; roles need pq.StringArray to scan.
type userRow struct {
	ID          uuid.UUID      `db:"id"`
	Username    string         `db:"username"`
	DisplayName string         `db:"display_name"`
	Roles       pq.StringArray `db:"roles"`
	CreatedAt   sql.NullTime   `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:          r.ID,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Roles:       []string(r.Roles),
		CreatedAt:   r.CreatedAt.Time,
	}
}

// UserRepository implements domain.UserRepository for PostgreSQL
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, username, display_name, roles, created_at FROM users WHERE id = $1`

	var row userRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return row.toDomain(), nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, display_name, roles, created_at FROM users WHERE username = $1`

	var row userRow
	err := r.db.GetContext(ctx, &row, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return row.toDomain(), nil
}

// Create inserts a user. Only the bootstrap seeding routine calls this.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, display_name, roles)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	var createdAt sql.NullTime
	err := r.db.QueryRowxContext(
		ctx,
		query,
		user.Username,
		user.DisplayName,
		pq.StringArray(user.Roles),
	).Scan(&user.ID, &createdAt)
	if err != nil {
		return err
	}
	user.CreatedAt = createdAt.Time

	return nil
}
