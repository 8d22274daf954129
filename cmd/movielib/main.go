package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/movielib/internal/api"
	"github.com/amaumene/movielib/internal/config"
	"github.com/amaumene/movielib/internal/controllers"
	"github.com/amaumene/movielib/internal/models"
	"github.com/amaumene/movielib/internal/services/omdb"
	"github.com/amaumene/movielib/internal/services/openai"
	"github.com/amaumene/movielib/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting Movielib")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.WithField("file", cfg.DatabaseFile).Info("Database initialized")

	// 4. Initialize external service clients
	omdbClient, err := omdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OMDb client: %w", err)
	}
	logger.Info("OMDb client initialized")

	openaiClient, err := openai.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}
	logger.Info("OpenAI client initialized")

	// 5. Initialize controllers
	ctrl := api.Controllers{
		Auth:      controllers.NewAuthController(db, logger),
		Library:   controllers.NewLibraryController(db, omdbClient, logger),
		Recommend: controllers.NewRecommendController(db, omdbClient, openaiClient, logger),
		Reviews:   controllers.NewReviewController(db, logger),
	}
	logger.Info("Controllers initialized")

	// 6. Initialize HTTP server
	server := api.NewServer(cfg, ctrl, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 7. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Movielib is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Movielib stopped")
	return nil
}
