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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/infinito/platform/docs"
	authmw "github.com/infinito/platform/internal/auth/middleware"
	"github.com/infinito/platform/internal/auth/service"
	"github.com/infinito/platform/internal/config"
	"github.com/infinito/platform/internal/database"
	"github.com/infinito/platform/internal/events"
	"github.com/infinito/platform/internal/handlers"
	"github.com/infinito/platform/internal/logger"
	loggerMiddleware "github.com/infinito/platform/internal/logger/middleware"
	sharedMiddleware "github.com/infinito/platform/internal/middlewares"
	"github.com/infinito/platform/internal/models"
	"github.com/infinito/platform/internal/repositories"
	"github.com/infinito/platform/internal/services"
	"github.com/infinito/platform/internal/validation"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Infinito Platform API
// @version 1.0
// @description Student learning platform and admin back office

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Infinito API")

	// Connect to database
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := database.MigrateUp(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis for change notifications
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Change notifications are best effort, so a missing Redis only disables them
	publisher, err := events.ConnectPublisher(ctx, rdb, logger.Logger)
	hub := events.NewHub(logger.Logger)
	if err != nil {
		logger.Logger.Warn("Redis unavailable, change notifications disabled", zap.Error(err))
	} else {
		sub := rdb.Subscribe(ctx, events.Channel)
		defer sub.Close()
		go hub.Listen(ctx, sub.Channel())
	}

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize repositories
	profileRepo := repositories.NewProfileRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	supportRepo := repositories.NewSupportRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	changelogRepo := repositories.NewChangelogRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	feedRepo := repositories.NewFeedRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)

	// Initialize services
	supportHours := services.SupportHours{Start: cfg.Support.HoursStart, End: cfg.Support.HoursEnd, Location: cfg.Support.Location}
	authService := services.NewAuthService(profileRepo, tokenGenerator, logger.Logger)
	profileService := services.NewProfileService(profileRepo, logger.Logger)
	courseService := services.NewCourseService(courseRepo, logger.Logger)
	supportService := services.NewSupportService(supportRepo, publisher, supportHours, logger.Logger)
	offerService := services.NewOfferService(offerRepo, publisher, logger.Logger)
	changelogService := services.NewChangelogService(changelogRepo, publisher, logger.Logger)
	vslService := services.NewVSLService(settingsRepo, publisher, logger.Logger)
	feedService := services.NewFeedService(feedRepo, logger.Logger)
	dashboardService := services.NewDashboardService(dashboardRepo, courseRepo, supportRepo, cfg.Support.Location, logger.Logger)

	// Initialize handlers
	validator := validation.New()
	authHandler := handlers.NewAuthHandler(authService, cfg.JWT.AccessTokenExpiry, validator, logger.Logger)
	profileHandler := handlers.NewProfileHandler(profileService, validator, logger.Logger)
	courseHandler := handlers.NewCourseHandler(courseService, validator, logger.Logger)
	supportHandler := handlers.NewSupportHandler(supportService, validator, logger.Logger)
	offerHandler := handlers.NewOfferHandler(offerService, validator, logger.Logger)
	changelogHandler := handlers.NewChangelogHandler(changelogService, validator, logger.Logger)
	vslHandler := handlers.NewVSLHandler(vslService, validator, logger.Logger)
	feedHandler := handlers.NewFeedHandler(feedService, validator, logger.Logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, logger.Logger)
	navigationHandler := handlers.NewNavigationHandler(logger.Logger)
	eventsHandler := handlers.NewEventsHandler(hub, cfg.CORS.AllowedOrigins, logger.Logger)

	// Initialize auth middleware
	authMiddleware := authmw.AuthMiddleware(tokenGenerator)
	adminMiddleware := authmw.RoleMiddleware(models.RoleAdmin)

	studentRoutes := func(r chi.Router) {
		profileHandler.RegisterStudentRoutes(r)
		courseHandler.RegisterStudentRoutes(r)
		supportHandler.RegisterStudentRoutes(r)
		feedHandler.RegisterStudentRoutes(r)
	}

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		authHandler.RegisterRoutes(r)
		offerHandler.RegisterPublicRoutes(r)
		vslHandler.RegisterPublicRoutes(r)
		navigationHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Route("/student", studentRoutes)

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminMiddleware)

				profileHandler.RegisterAdminRoutes(r)
				courseHandler.RegisterAdminRoutes(r)
				supportHandler.RegisterAdminRoutes(r)
				offerHandler.RegisterAdminRoutes(r)
				changelogHandler.RegisterAdminRoutes(r)
				vslHandler.RegisterAdminRoutes(r)
				feedHandler.RegisterAdminRoutes(r)
				dashboardHandler.RegisterAdminRoutes(r)
				eventsHandler.RegisterAdminRoutes(r)

				// Student area as seen by an admin, read-only
				r.Route("/preview/student", func(r chi.Router) {
					r.Use(authmw.ReadOnlyMiddleware)
					studentRoutes(r)
				})
			})
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
