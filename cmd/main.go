package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donation-service/internal/handler"
	"donation-service/internal/job"
	"donation-service/internal/middleware"
	"donation-service/internal/repository"
	"donation-service/internal/service"
	"donation-service/pkg/config"
	"donation-service/pkg/database"
	"donation-service/pkg/jwtutil"
	"donation-service/pkg/logger"
	"donation-service/pkg/validator"
	"donation-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// idle rate limiter buckets are dropped after this long
const limiterMaxIdle = 10 * time.Minute

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting donation service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()
	log.Info("Database connection established")

	prometheus.InitMetrics(cfg)

	stores := repository.NewStores(db)
	tx := repository.NewTransactor(db)
	jwt := jwtutil.NewJWTUtil(&cfg.JWT)

	h := &handler.Handler{
		Applications:  service.NewApplicationService(stores, tx, log),
		Organizations: service.NewOrganizationService(stores, log),
		Projects:      service.NewProjectService(stores, log),
		Donations:     service.NewDonationService(stores, tx, log),
		Favorites:     service.NewFavoriteService(stores, log),
		Users:         service.NewUserService(stores, log),
		Auth:          service.NewAuthService(stores, tx, jwt, log),
		Ping:          database.Ping,
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	h.RegisterRoutes(e, jwt, stores.Memberships, limiter)

	// Background jobs
	scheduler := job.NewScheduler(log)
	if err := scheduler.Register("token_cleanup", cfg.Jobs.TokenCleanupSpec, job.TokenCleanup(h.Auth, log)); err != nil {
		log.Fatal("Failed to schedule token cleanup", zap.Error(err))
	}
	if err := scheduler.Register("limiter_cleanup", "@every 5m", job.LimiterCleanup(limiter, limiterMaxIdle, log)); err != nil {
		log.Fatal("Failed to schedule limiter cleanup", zap.Error(err))
	}
	scheduler.Start()

	// Start server
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	scheduler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
