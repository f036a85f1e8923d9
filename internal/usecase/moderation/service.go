package moderation

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/logger"
	"github.com/avelev/review-system/internal/pkg/validator"
)

// ReviewStore is what moderation needs from the review service:
// existence checks, rejection deletes and post-delete announcements.
type ReviewStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AnnounceDeleted(ctx context.Context, productID, reviewID uuid.UUID, imagePath *string)
}

// Service handles the report queue and the moderation workflow.
type Service struct {
	reports domain.ReportRepository
	reviews ReviewStore
	logger  *logger.Logger
}

// NewService creates a new moderation service
func NewService(reports domain.ReportRepository, reviews ReviewStore, log *logger.Logger) *Service {
	return &Service{
		reports: reports,
		reviews: reviews,
		logger:  log,
	}
}

// SubmitReport files an abuse report against a review. The review must
// exist before anything else is checked; for reason "Other" a non-blank
// detail is then required and validated, and the stored reason becomes
// "Other: <detail>". The unique constraint on (reporter, review) stays the
// arbiter for concurrent duplicates.
func (s *Service) SubmitReport(ctx context.Context, caller domain.Identity, reviewID uuid.UUID, reason string, detail *string) (*domain.Report, error) {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}

	trimmed := ""
	if detail != nil {
		trimmed = strings.TrimSpace(*detail)
	}

	finalReason := reason
	if strings.EqualFold(reason, domain.ReasonOther) {
		if trimmed == "" {
			return nil, domain.ErrMissingDetail
		}
		if err := validator.ValidateReportDetail(trimmed); err != nil {
			return nil, err
		}
		finalReason = domain.ReasonOther + ": " + trimmed
	}

	var storedDetail *string
	if trimmed != "" {
		storedDetail = &trimmed
	}

	report := &domain.Report{
		ReviewID:   reviewID,
		ReporterID: caller.ID,
		Reason:     finalReason,
		Detail:     storedDetail,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		if err != domain.ErrNotFound && err != domain.ErrDuplicateReport {
			s.logger.Error("Failed to create report", err)
		}
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"report_id":   report.ID,
		"review_id":   reviewID,
		"reporter_id": caller.ID,
		"reason":      finalReason,
	}).Info("Report submitted")

	return report, nil
}

// ListPendingReports returns the moderation queue, newest first, joined with
// review, product and reporter for display.
func (s *Service) ListPendingReports(ctx context.Context) ([]*domain.PendingReport, error) {
	reports, err := s.reports.ListPending(ctx)
	if err != nil {
		s.logger.Error("Failed to list pending reports", err)
		return nil, err
	}

	return reports, nil
}

// ProcessReport marks a report processed and optionally deletes the reported
// review. Mark and delete commit together; if the delete fails the mark is
// rolled back too.
func (s *Service) ProcessReport(ctx context.Context, reportID uuid.UUID, deleteReview bool) (*domain.ProcessResult, error) {
	result, err := s.reports.Process(ctx, reportID, deleteReview)
	if err != nil {
		if err != domain.ErrNotFound {
			s.logger.Error("Failed to process report", err)
		}
		return nil, err
	}

	if result.ReviewDeleted {
		s.reviews.AnnounceDeleted(ctx, result.ProductID, result.ReviewID, result.ImagePath)
	}

	s.logger.WithFields(map[string]interface{}{
		"report_id":      reportID,
		"review_id":      result.ReviewID,
		"review_deleted": result.ReviewDeleted,
	}).Info("Report processed")

	return result, nil
}

// ModerateReview approves or rejects a review. Approval is deliberately a
// no-op beyond an existence check: reviews are public the moment they are
// submitted. Rejection deletes the review with its votes and reports.
func (s *Service) ModerateReview(ctx context.Context, reviewID uuid.UUID, approve bool) error {
	if approve {
		_, err := s.reviews.GetByID(ctx, reviewID)
		return err
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"review_id": reviewID,
	}).Info("Review rejected and deleted")

	return nil
}
