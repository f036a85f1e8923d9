package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VoteDirection is the closed set of vote actions.
type VoteDirection string

const (
	VoteUp   VoteDirection = "UP"
	VoteDown VoteDirection = "DOWN"
)

// Valid reports whether the direction is one of the known actions.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// Vote records a single user's helpful-vote on a review. The row's existence
// is the sole source of truth for "has this user up-voted this review"; the
// (user, review) pair is unique.
type Vote struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ReviewID  uuid.UUID `json:"review_id" db:"review_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// VoteRepository defines the helpful-vote ledger. Both operations mutate the
// vote row and the review's helpful_votes counter in one transaction, so the
// counter never drifts from the true count of vote rows.
type VoteRepository interface {
	// Cast inserts a vote and increments the review counter. Returns
	// ErrAlreadyVoted if the vote exists, ErrNotFound if the review is absent.
	Cast(ctx context.Context, userID, reviewID uuid.UUID) error

	// Remove deletes a vote and decrements the review counter, floored at zero.
	// Returns ErrNoVoteToRemove if no such vote exists.
	Remove(ctx context.Context, userID, reviewID uuid.UUID) error
}
