package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/avelev/review-system/internal/delivery/http/middleware"
	"github.com/avelev/review-system/internal/delivery/http/request"
	"github.com/avelev/review-system/internal/delivery/http/response"
	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/blob"
	"github.com/avelev/review-system/internal/pkg/logger"
	"github.com/avelev/review-system/internal/usecase/review"
)

// maxImageSize limits review image uploads to 5MB.
const maxImageSize = 5 << 20

// ReviewHandler handles HTTP requests for reviews and votes
type ReviewHandler struct {
	service *review.Service
	blobs   blob.Store
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, blobs blob.Store, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		blobs:   blobs,
		logger:  log,
	}
}

// CreateReviewRequest represents the request body for submitting a review
type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=5000"`
}

// VoteRequest represents the request body for a helpful-vote action
type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=UP DOWN"`
}

// Create handles POST /api/v1/reviews
// @Summary Submit a review
// @Description Submit a review for a product. Accepts JSON, or multipart/form-data with an optional image. A user may review each product once.
// @Tags Reviews
// @Accept json
// @Accept mpfd
// @Produce json
// @Param review body CreateReviewRequest true "Review details"
// @Success 201 {object} map[string]interface{} "Review created"
// @Failure 400 {object} map[string]string "Invalid rating or comment"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Already reviewed"
// @Failure 502 {object} map[string]string "Image storage failure"
// @Router /reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var (
		productID uuid.UUID
		rating    int
		comment   string
		imagePath *string
		err       error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		productID, rating, comment, imagePath, err = h.parseMultipart(r)
		if err != nil {
			h.handleError(w, err)
			return
		}
	} else {
		var req CreateReviewRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		productID, err = uuid.Parse(req.ProductID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid product ID")
			return
		}
		rating = req.Rating
		comment = req.Comment
	}

	created, err := h.service.Submit(r.Context(), caller, productID, rating, comment, imagePath)
	if err != nil {
		// The review was rejected after the image was stored; don't leak the blob
		if imagePath != nil {
			if delErr := h.blobs.Delete(r.Context(), *imagePath); delErr != nil {
				h.logger.Warnf("Failed to clean up image %s: %v", *imagePath, delErr)
			}
		}
		h.handleError(w, err)
		return
	}

	response.Created(w, created)
}

// parseMultipart extracts the review fields and stores the optional image.
func (h *ReviewHandler) parseMultipart(r *http.Request) (uuid.UUID, int, string, *string, error) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return uuid.Nil, 0, "", nil, domain.ErrInvalidInput
	}

	productID, err := uuid.Parse(r.FormValue("product_id"))
	if err != nil {
		return uuid.Nil, 0, "", nil, domain.ErrInvalidInput
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		return uuid.Nil, 0, "", nil, domain.ErrInvalidRating
	}

	comment := r.FormValue("comment")

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return productID, rating, comment, nil, nil
	}
	if err != nil {
		return uuid.Nil, 0, "", nil, domain.ErrInvalidInput
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		return uuid.Nil, 0, "", nil, domain.ErrStorageFailure
	}

	ref, err := h.blobs.Store(r.Context(), data, header.Filename)
	if err != nil {
		return uuid.Nil, 0, "", nil, err
	}

	return productID, rating, comment, &ref, nil
}

// GetByID handles GET /api/v1/reviews/:id
// @Summary Get a review
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Success 200 {object} map[string]interface{} "Review"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	rev, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, rev)
}

// GetByProductID handles GET /api/v1/products/:id/reviews
// @Summary List reviews for a product
// @Description Paginated reviews in one of the orderings newest, highest, lowest, helpful. Results are cached.
// @Tags Reviews
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param sort query string false "Sort order" Enums(newest, highest, lowest, helpful) default(newest)
// @Param limit query int false "Page size (max 100)" default(20)
// @Param offset query int false "Items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated reviews"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) GetByProductID(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	sort := request.GetSortOrder(r)
	limit, offset := request.GetPaginationParams(r)

	reviews, total, err := h.service.ListByProduct(r.Context(), productID, sort, limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, reviews, total, limit, offset)
}

// ListAll handles GET /api/v1/admin/reviews
// @Summary List all reviews
// @Description Paginated feed of every review, newest first, joined with product and author. Admin only.
// @Tags Moderation
// @Produce json
// @Param limit query int false "Page size (max 100)" default(20)
// @Param offset query int false "Items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated reviews"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 403 {object} map[string]string "Admin role required"
// @Security BearerAuth
// @Router /admin/reviews [get]
func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	reviews, total, err := h.service.ListAll(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, reviews, total, limit, offset)
}

// Vote handles POST /api/v1/reviews/:id/vote
// @Summary Vote a review helpful
// @Description UP records a helpful-vote, DOWN removes a previous one. At most one vote per user and review.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Param vote body VoteRequest true "Vote direction"
// @Success 204 "Vote applied"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 409 {object} map[string]string "Already voted, or no vote to remove"
// @Router /reviews/{id}/vote [post]
func (h *ReviewHandler) Vote(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req VoteRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Vote(r.Context(), caller, id, domain.VoteDirection(req.Direction)); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps service errors to HTTP responses
func (h *ReviewHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Review or product not found")
	case errors.Is(err, domain.ErrDuplicateReview):
		response.Error(w, http.StatusConflict, "You have already reviewed this product")
	case errors.Is(err, domain.ErrAlreadyVoted):
		response.Error(w, http.StatusConflict, "You have already marked this review as helpful")
	case errors.Is(err, domain.ErrNoVoteToRemove):
		response.Error(w, http.StatusConflict, "No vote to remove")
	case errors.Is(err, domain.ErrInvalidRating):
		response.Error(w, http.StatusBadRequest, "Rating must be between 1 and 5")
	case errors.Is(err, domain.ErrInvalidComment):
		response.Error(w, http.StatusBadRequest, "Comment is too long or contains a link")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrStorageFailure):
		response.Error(w, http.StatusBadGateway, "Image storage failed")
	default:
		h.logger.Error("Internal error in review handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
