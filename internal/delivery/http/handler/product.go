package handler

import (
	"errors"
	"net/http"

	"github.com/avelev/review-system/internal/delivery/http/request"
	"github.com/avelev/review-system/internal/delivery/http/response"
	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/logger"
	"github.com/avelev/review-system/internal/usecase/product"
	"github.com/avelev/review-system/internal/usecase/review"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	products *product.Service
	reviews  *review.Service
	logger   *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.Service, reviews *review.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		reviews:  reviews,
		logger:   log,
	}
}

// List handles GET /api/v1/products
// @Summary List products
// @Tags Products
// @Produce json
// @Param limit query int false "Page size (max 100)" default(20)
// @Param offset query int false "Items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated products"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	products, total, err := h.products.List(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, products, total, limit, offset)
}

// GetByID handles GET /api/v1/products/:id
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Product"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	prod, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, prod)
}

// GetRating handles GET /api/v1/products/:id/rating
// @Summary Get a product's rating summary
// @Description Live average rating (rounded to one decimal) and review count. Results are cached.
// @Tags Products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Rating summary"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Router /products/{id}/rating [get]
func (h *ProductHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	summary, err := h.reviews.RatingSummary(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, summary)
}

// handleError maps service errors to HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
