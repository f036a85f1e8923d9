package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/avelev/review-system/internal/config"
	"github.com/avelev/review-system/internal/delivery/http/handler"
	"github.com/avelev/review-system/internal/delivery/http/middleware"
	"github.com/avelev/review-system/internal/delivery/http/response"
	"github.com/avelev/review-system/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler    *handler.ProductHandler
	reviewHandler     *handler.ReviewHandler
	moderationHandler *handler.ModerationHandler
	logger            *logger.Logger
	cfg               *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	moderationHandler *handler.ModerationHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler:    productHandler,
		reviewHandler:     reviewHandler,
		moderationHandler: moderationHandler,
		logger:            log,
		cfg:               cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Uploaded review images are served straight from local storage.
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(rt.cfg.Uploads.Dir)))
	r.Get("/uploads/*", uploads.ServeHTTP)

	authenticate := middleware.Authenticate(rt.cfg.Auth.JWTSecret, rt.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.productHandler.List)
			r.Get("/{id}", rt.productHandler.GetByID)
			r.Get("/{id}/rating", rt.productHandler.GetRating)
			r.Get("/{id}/reviews", rt.reviewHandler.GetByProductID)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/{id}", rt.reviewHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", rt.reviewHandler.Create)
				r.Post("/{id}/vote", rt.reviewHandler.Vote)
				r.Post("/{id}/reports", rt.moderationHandler.CreateReport)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole("admin"))

			r.Get("/reports", rt.moderationHandler.ListPending)
			r.Post("/reports/{id}/process", rt.moderationHandler.ProcessReport)
			r.Get("/reviews", rt.reviewHandler.ListAll)
			r.Post("/reviews/{id}/moderate", rt.moderationHandler.Moderate)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
