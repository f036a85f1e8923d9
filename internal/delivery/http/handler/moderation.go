package handler

import (
	"errors"
	"net/http"

	"github.com/avelev/review-system/internal/delivery/http/middleware"
	"github.com/avelev/review-system/internal/delivery/http/request"
	"github.com/avelev/review-system/internal/delivery/http/response"
	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/logger"
	"github.com/avelev/review-system/internal/usecase/moderation"
)

// ModerationHandler handles HTTP requests for reports and moderation actions
type ModerationHandler struct {
	service *moderation.Service
	logger  *logger.Logger
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(service *moderation.Service, log *logger.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		logger:  log,
	}
}

// CreateReportRequest represents the request body for reporting a review
type CreateReportRequest struct {
	Reason string  `json:"reason" validate:"required"`
	Detail *string `json:"detail,omitempty" validate:"omitempty,max=500"`
}

// ModerateRequest represents the request body for a direct moderation decision
type ModerateRequest struct {
	Approve bool `json:"approve"`
}

// CreateReport handles POST /api/v1/reviews/:id/reports
// @Summary Report a review
// @Description Flag a review for moderator attention. The reason "Other" requires an explanatory detail. A user may report each review once.
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Param report body CreateReportRequest true "Report details"
// @Success 201 {object} map[string]interface{} "Report created"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 409 {object} map[string]string "Already reported"
// @Failure 422 {object} map[string]string "Missing or invalid detail"
// @Router /reviews/{id}/reports [post]
func (h *ModerationHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	reviewID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req CreateReportRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.service.SubmitReport(r.Context(), caller, reviewID, req.Reason, req.Detail)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, report)
}

// ListPending handles GET /api/v1/admin/reports
// @Summary List pending reports
// @Description Unprocessed reports, newest first, joined with the reported review and product.
// @Tags Moderation
// @Produce json
// @Success 200 {object} map[string]interface{} "Pending reports"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 403 {object} map[string]string "Admin role required"
// @Security BearerAuth
// @Router /admin/reports [get]
func (h *ModerationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListPendingReports(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, reports)
}

// ProcessReport handles POST /api/v1/admin/reports/:id/process
// @Summary Process a report
// @Description Mark a report processed. With delete_review=true the reported review and its votes and reports are removed in the same transaction.
// @Tags Moderation
// @Produce json
// @Param id path string true "Report ID (UUID)"
// @Param delete_review query bool false "Also delete the reported review" default(false)
// @Success 200 {object} map[string]interface{} "Process result"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Report not found or already processed"
// @Security BearerAuth
// @Router /admin/reports/{id}/process [post]
func (h *ModerationHandler) ProcessReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	deleteReview := request.GetBoolQuery(r, "delete_review")

	result, err := h.service.ProcessReport(r.Context(), reportID, deleteReview)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, result)
}

// Moderate handles POST /api/v1/admin/reviews/:id/moderate
// @Summary Moderate a review directly
// @Description Approve keeps the review as is; rejecting deletes it along with its votes and reports.
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Param decision body ModerateRequest true "Moderation decision"
// @Success 204 "Decision applied"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Review not found"
// @Security BearerAuth
// @Router /admin/reviews/{id}/moderate [post]
func (h *ModerationHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	reviewID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req ModerateRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ModerateReview(r.Context(), reviewID, req.Approve); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps service errors to HTTP responses
func (h *ModerationHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Review or report not found")
	case errors.Is(err, domain.ErrDuplicateReport):
		response.Error(w, http.StatusConflict, "You have already reported this review")
	case errors.Is(err, domain.ErrMissingDetail):
		response.Error(w, http.StatusUnprocessableEntity, "Reason \"Other\" requires a detail")
	case errors.Is(err, domain.ErrInvalidDetail):
		response.Error(w, http.StatusUnprocessableEntity, "Detail is too long or contains a link")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in moderation handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
