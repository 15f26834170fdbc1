package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/jamietsang/courtlog/config"
	"github.com/jamietsang/courtlog/db"
	"github.com/jamietsang/courtlog/handlers"
	"github.com/jamietsang/courtlog/middleware"
	"github.com/jamietsang/courtlog/repositories"
	api "github.com/jamietsang/courtlog/routes"
	"github.com/jamietsang/courtlog/services"
	"github.com/jamietsang/courtlog/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.EnsureSchema(context.Background(), dbConn); err != nil {
		logger.Error("failed to ensure database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// CSV import archival is optional: without R2 credentials imports still
	// run, they just skip the archive step.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 credentials not set, import archival disabled")
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	shareRepo := repositories.NewPostgresShareRepository(dbConn)
	logger.Info("repositories initialized")

	txBeginner := services.NewTxBeginner(dbConn)
	authService := services.NewAuthService(userRepo)
	rosterService := services.NewRosterService(playerRepo, teamRepo)
	resultService := services.NewResultService(txBeginner, rosterService, playerRepo, teamRepo, tournamentRepo, matchRepo)
	analyticsService := services.NewAnalyticsService(playerRepo, teamRepo, tournamentRepo, matchRepo)
	sharingService := services.NewSharingService(shareRepo, tournamentRepo, userRepo)
	importService := services.NewImportService(txBeginner, playerRepo, tournamentRepo, matchRepo, rosterService, uploader, logger)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	matchHandler := handlers.NewMatchHandler(resultService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	sharingHandler := handlers.NewSharingHandler(sharingService)
	importHandler := handlers.NewImportHandler(importService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		middleware.NewAuthenticator(cfg.JWTSecretKey),
		cfg.CORSAllowedOrigins,
		api.RateLimitConfig{
			Enabled:           cfg.RateLimitEnabled,
			RequestsPerWindow: cfg.RateLimitRequests,
			Window:            cfg.RateLimitWindow,
		},
		authHandler,
		matchHandler,
		analyticsHandler,
		sharingHandler,
		importHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
