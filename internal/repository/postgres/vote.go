package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/avelev/review-system/internal/domain"
)

// voteDuplicateConstraint guards the one-vote-per-(user, review) rule.
const voteDuplicateConstraint = "review_votes_user_id_review_id_key"

// VoteRepository implements domain.VoteRepository for PostgreSQL
type VoteRepository struct {
	db *sqlx.DB
}

// NewVoteRepository creates a new PostgreSQL vote repository
func NewVoteRepository(db *sqlx.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Cast inserts the vote row and increments the review counter in one
// transaction. The unique constraint decides races between identical votes;
// a foreign-key violation means the review vanished mid-flight.
func (r *VoteRepository) Cast(ctx context.Context, userID, reviewID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertQuery := `INSERT INTO review_votes (user_id, review_id) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, insertQuery, userID, reviewID); err != nil {
		if isUniqueViolation(err, voteDuplicateConstraint) {
			return domain.ErrAlreadyVoted
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	updateQuery := `UPDATE reviews SET helpful_votes = helpful_votes + 1 WHERE id = $1`
	result, err := tx.ExecContext(ctx, updateQuery, reviewID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

// Remove deletes the vote row and decrements the review counter, floored at
// zero, in one transaction. Zero deleted rows means there was no vote.
func (r *VoteRepository) Remove(ctx context.Context, userID, reviewID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `DELETE FROM review_votes WHERE user_id = $1 AND review_id = $2`
	result, err := tx.ExecContext(ctx, deleteQuery, userID, reviewID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNoVoteToRemove
	}

	updateQuery := `UPDATE reviews SET helpful_votes = GREATEST(helpful_votes - 1, 0) WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateQuery, reviewID); err != nil {
		return err
	}

	return tx.Commit()
}
