package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelev/review-system/internal/bootstrap"
	"github.com/avelev/review-system/internal/config"
	"github.com/avelev/review-system/internal/delivery/events"
	httpDelivery "github.com/avelev/review-system/internal/delivery/http"
	"github.com/avelev/review-system/internal/delivery/http/handler"
	"github.com/avelev/review-system/internal/pkg/blob"
	"github.com/avelev/review-system/internal/pkg/cache"
	"github.com/avelev/review-system/internal/pkg/database"
	"github.com/avelev/review-system/internal/pkg/logger"
	cacheRepo "github.com/avelev/review-system/internal/repository/cache"
	"github.com/avelev/review-system/internal/repository/postgres"
	"github.com/avelev/review-system/internal/usecase/moderation"
	"github.com/avelev/review-system/internal/usecase/product"
	"github.com/avelev/review-system/internal/usecase/review"

	_ "github.com/avelev/review-system/docs"
)

// @title Review System API
// @version 1.0
// @description Product review lifecycle service with helpful votes, report-driven moderation, and cached rating aggregates.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/avelev/review-system
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name Products
// @tag.description Product catalog and rating endpoints

// @tag.name Reviews
// @tag.description Review submission, listing and voting endpoints

// @tag.name Moderation
// @tag.description Report queue and moderation endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Review System API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	appLogger.Info("Running migrations...")
	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	blobStore, err := blob.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		appLogger.Fatal("Failed to initialize upload storage", err)
	}

	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.ProductRatingTTL,
		cfg.Cache.ReviewsListTTL,
	)

	if cfg.Seed {
		seeder := bootstrap.NewSeeder(userRepo, productRepo, appLogger)
		if err := seeder.Seed(context.Background()); err != nil {
			appLogger.Fatal("Failed to seed database", err)
		}
	}

	productService := product.NewService(productRepo, appLogger)
	reviewService := review.NewService(reviewRepo, voteRepo, redisCache, publisher, blobStore, appLogger)
	moderationService := moderation.NewService(reportRepo, reviewService, appLogger)

	productHandler := handler.NewProductHandler(productService, reviewService, appLogger)
	reviewHandler := handler.NewReviewHandler(reviewService, blobStore, appLogger)
	moderationHandler := handler.NewModerationHandler(moderationService, appLogger)

	router := httpDelivery.NewRouter(productHandler, reviewHandler, moderationHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
