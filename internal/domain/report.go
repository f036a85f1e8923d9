package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReasonOther is the report reason that requires a free-text detail. The
// stored reason for such reports becomes "Other: <detail>".
const ReasonOther = "Other"

// Report is a user-filed flag against a review, queued for moderation.
// Processed is monotonic: once true it never transitions back.
type Report struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ReviewID   uuid.UUID `json:"review_id" db:"review_id"`
	ReporterID uuid.UUID `json:"reporter_id" db:"reporter_id"`
	Reason     string    `json:"reason" db:"reason"`
	Detail     *string   `json:"detail,omitempty" db:"detail"`
	Processed  bool      `json:"processed" db:"is_processed"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PendingReport is a report joined with its review, the review's product and
// the reporter's identity, as shown on the moderation dashboard.
type PendingReport struct {
	Report
	ReviewRating  int       `json:"review_rating" db:"review_rating"`
	ReviewComment string    `json:"review_comment" db:"review_comment"`
	ProductID     uuid.UUID `json:"product_id" db:"product_id"`
	ProductName   string    `json:"product_name" db:"product_name"`
	ReporterName  string    `json:"reporter_name" db:"reporter_name"`
}

// ProcessResult describes the outcome of processing a report, carrying what
// the caller needs for cache invalidation, events and blob cleanup.
type ProcessResult struct {
	ReportID      uuid.UUID
	ReviewID      uuid.UUID
	ProductID     uuid.UUID
	ReviewDeleted bool
	ImagePath     *string
}

// ReportRepository defines the report queue.
type ReportRepository interface {
	// Create inserts a report. Returns ErrNotFound if the review is absent and
	// ErrDuplicateReport if the reporter already reported this review.
	Create(ctx context.Context, report *Report) error

	// GetByID retrieves a report by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)

	// ListPending returns unprocessed reports newest-first, joined for display
	ListPending(ctx context.Context) ([]*PendingReport, error)

	// Process marks a report processed and, when deleteReview is set, deletes
	// the reported review with its votes and reports in the same transaction.
	// Re-processing an already processed report is a no-op that succeeds.
	Process(ctx context.Context, id uuid.UUID, deleteReview bool) (*ProcessResult, error)
}
