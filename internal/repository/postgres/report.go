package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/avelev/review-system/internal/domain"
)

// reportDuplicateConstraint guards the one-report-per-(reporter, review) rule.
const reportDuplicateConstraint = "review_reports_reporter_id_review_id_key"

// ReportRepository implements domain.ReportRepository for PostgreSQL
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report with processed=false. The reviewed row must exist;
// duplicates are decided by the unique constraint.
func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`
	err := r.db.GetContext(ctx, &exists, checkQuery, report.ReviewID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	query := `
		INSERT INTO review_reports (review_id, reporter_id, reason, detail, is_processed)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, is_processed, created_at
	`

	err = r.db.QueryRowxContext(
		ctx,
		query,
		report.ReviewID,
		report.ReporterID,
		report.Reason,
		report.Detail,
	).Scan(
		&report.ID,
		&report.Processed,
		&report.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, reportDuplicateConstraint) {
			return domain.ErrDuplicateReport
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	query := `
		SELECT id, review_id, reporter_id, reason, detail, is_processed, created_at
		FROM review_reports
		WHERE id = $1
	`

	var report domain.Report
	err := r.db.GetContext(ctx, &report, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &report, nil
}

// ListPending returns unprocessed reports newest-first, joined with the
// reported review, its product and the reporter for the moderation dashboard.
func (r *ReportRepository) ListPending(ctx context.Context) ([]*domain.PendingReport, error) {
	query := `
		SELECT rr.id, rr.review_id, rr.reporter_id, rr.reason, rr.detail, rr.is_processed, rr.created_at,
		       rev.rating AS review_rating,
		       rev.comment AS review_comment,
		       p.id AS product_id,
		       p.name AS product_name,
		       u.username AS reporter_name
		FROM review_reports rr
		JOIN reviews rev ON rev.id = rr.review_id
		JOIN products p ON p.id = rev.product_id
		JOIN users u ON u.id = rr.reporter_id
		WHERE rr.is_processed = FALSE
		ORDER BY rr.created_at DESC, rr.id
	`

	var reports []*domain.PendingReport
	err := r.db.SelectContext(ctx, &reports, query)
	if err != nil {
		return nil, err
	}

	return reports, nil
}

// Process marks the report processed and, when requested, deletes the
// reported review with its votes and sibling reports in the same transaction.
// If the deletion fails nothing is committed, so a report is never left
// processed against a half-deleted review.
func (r *ReportRepository) Process(ctx context.Context, id uuid.UUID, deleteReview bool) (*domain.ProcessResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Marking an already processed report again is allowed and changes nothing
	var row struct {
		ReviewID  uuid.UUID `db:"review_id"`
		ProductID uuid.UUID `db:"product_id"`
	}
	markQuery := `
		UPDATE review_reports rr
		SET is_processed = TRUE
		FROM reviews rev
		WHERE rr.id = $1 AND rev.id = rr.review_id
		RETURNING rr.review_id, rev.product_id
	`
	err = tx.GetContext(ctx, &row, markQuery, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	result := &domain.ProcessResult{
		ReportID:  id,
		ReviewID:  row.ReviewID,
		ProductID: row.ProductID,
	}

	if deleteReview {
		imagePath, err := deleteReviewTx(ctx, tx, row.ReviewID)
		if err != nil {
			return nil, err
		}
		result.ReviewDeleted = true
		result.ImagePath = imagePath
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}
