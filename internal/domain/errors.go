package domain

import "errors"

// Sentinel errors returned by repositories and services. Handlers match them
// with errors.Is to pick the HTTP status.
var (
	// ErrNotFound is returned when a review, report, product or user is absent
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateReview is returned when a user already reviewed the product
	ErrDuplicateReview = errors.New("user has already reviewed this product")

	// ErrDuplicateReport is returned when a reporter already reported the review
	ErrDuplicateReport = errors.New("user has already reported this review")

	// ErrAlreadyVoted is returned on an UP vote when the vote already exists
	ErrAlreadyVoted = errors.New("user has already voted on this review")

	// ErrNoVoteToRemove is returned on a DOWN vote when no vote exists
	ErrNoVoteToRemove = errors.New("no vote to remove for this review")

	// ErrInvalidRating is returned when a rating is outside 1..5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidComment is returned when a comment is too long or contains a URL
	ErrInvalidComment = errors.New("comment is too long or contains a link")

	// ErrMissingDetail is returned when reason is "Other" and no detail was given
	ErrMissingDetail = errors.New("report detail is required for reason Other")

	// ErrInvalidDetail is returned when a report detail is too long or contains a URL
	ErrInvalidDetail = errors.New("report detail is too long or contains a link")

	// ErrUnauthenticated is returned when no valid caller identity is present
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnauthorized is returned when the caller lacks the required role
	ErrUnauthorized = errors.New("insufficient permissions")

	// ErrStorageFailure is returned when the blob store collaborator fails
	ErrStorageFailure = errors.New("blob storage failure")

	// ErrInvalidInput is returned for malformed input outside the taxonomy above
	ErrInvalidInput = errors.New("invalid input")
)
