package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/api/handlers"
	"github.com/amaumene/movielib/internal/api/middleware"
	"github.com/amaumene/movielib/internal/api/session"
	"github.com/amaumene/movielib/internal/config"
	"github.com/amaumene/movielib/internal/controllers"
)

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	sessions *session.Manager
	logger   *logrus.Logger
}

// Controllers bundles the controllers the HTTP surface is built on
type Controllers struct {
	Auth      *controllers.AuthController
	Library   *controllers.LibraryController
	Recommend *controllers.RecommendController
	Reviews   *controllers.ReviewController
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, ctrl Controllers, logger *logrus.Logger) *Server {
	s := &Server{
		sessions: session.NewManager(cfg.SessionSecret),
		logger:   logger,
	}

	router := httprouter.New()
	s.setupRoutes(router, ctrl)

	var handler http.Handler = router
	handler = middleware.RateLimit(handler, 10, 20, logger)
	handler = middleware.Logging(handler, logger)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // recommendation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(router *httprouter.Router, ctrl Controllers) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	authHandler := handlers.NewAuthHandler(ctrl.Auth, s.sessions, s.logger)
	libraryHandler := handlers.NewLibraryHandler(ctrl.Library, s.logger)
	recommendHandler := handlers.NewRecommendHandler(ctrl.Recommend, ctrl.Library, s.logger)
	reviewHandler := handlers.NewReviewHandler(ctrl.Reviews, s.logger)

	owner := func(h httprouter.Handle) httprouter.Handle {
		return middleware.RequireOwner(h, s.sessions, s.logger)
	}
	login := func(h httprouter.Handle) httprouter.Handle {
		return middleware.RequireLogin(h, s.sessions, s.logger)
	}

	router.GET("/health", healthHandler.Check)

	// Accounts
	router.POST("/api/register", authHandler.Register)
	router.POST("/api/login", authHandler.Login)
	router.POST("/api/logout", authHandler.Logout)

	// Random pick for tonight
	router.GET("/api/random_movie", libraryHandler.Random)

	// Per-user library
	router.GET("/api/users/:id/movies", owner(libraryHandler.List))
	router.POST("/api/users/:id/movies", owner(libraryHandler.Add))
	router.GET("/api/users/:id/movies/:movieID", owner(libraryHandler.Get))
	router.POST("/api/users/:id/movies/:movieID", owner(libraryHandler.AddExisting))
	router.PUT("/api/users/:id/movies/:movieID", owner(libraryHandler.Update))
	router.DELETE("/api/users/:id/movies/:movieID", owner(libraryHandler.Delete))

	// Recommendations
	router.GET("/api/users/:id/movies/:movieID/recommendations", owner(recommendHandler.Get))
	router.POST("/api/users/:id/movies/:movieID/recommendations", owner(recommendHandler.Regenerate))

	// Reviews
	router.POST("/api/users/:id/movies/:movieID/reviews", owner(reviewHandler.Add))
	router.GET("/api/movies/:movieID/reviews", login(reviewHandler.List))

	// Catalog administration
	router.DELETE("/api/movies/:movieID", login(libraryHandler.Purge))
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
