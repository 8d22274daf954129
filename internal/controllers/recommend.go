package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/models"
	"github.com/amaumene/movielib/internal/services/omdb"
)

// Recommender generates exactly three external identifiers for a movie title
type Recommender interface {
	Recommend(ctx context.Context, movieTitle string, fresh bool) ([]string, error)
}

// RecommendController produces three recommended movies per source movie,
// caching the generated identifiers on the movie's recommendation slots.
type RecommendController struct {
	db          *models.Database
	metadata    MetadataClient
	recommender Recommender
	logger      *logrus.Logger
}

// NewRecommendController creates a new recommendation controller
func NewRecommendController(db *models.Database, metadata MetadataClient, recommender Recommender, logger *logrus.Logger) *RecommendController {
	return &RecommendController{
		db:          db,
		metadata:    metadata,
		recommender: recommender,
		logger:      logger,
	}
}

// Get returns three recommended movies for the given catalog movie, reusing
// cached slots when all three are populated and generating otherwise.
func (c *RecommendController) Get(ctx context.Context, movieID uint) ([]models.Movie, models.Status, error) {
	movie, err := c.db.GetMovieByID(movieID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.StatusNotFound, nil
		}
		return nil, models.StatusNotFound, err
	}

	return c.produce(ctx, movie, false)
}

// Regenerate discards any cached slots and generates a fresh set of three
// recommendations for the given catalog movie.
func (c *RecommendController) Regenerate(ctx context.Context, movieID uint) ([]models.Movie, models.Status, error) {
	movie, err := c.db.GetMovieByID(movieID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.StatusNotFound, nil
		}
		return nil, models.StatusNotFound, err
	}

	if err := c.clearSlots(movie); err != nil {
		return nil, models.StatusNotFound, err
	}

	return c.produce(ctx, movie, true)
}

// produce fills any empty recommendation slots via the generative API, then
// resolves all three identifiers to catalog movies. All-or-nothing: if any
// identifier fails to resolve, the slots are cleared so the next call starts
// generation from scratch.
func (c *RecommendController) produce(ctx context.Context, movie *models.Movie, fresh bool) ([]models.Movie, models.Status, error) {
	if !movie.HasAllRecommendations() {
		ids, err := c.recommender.Recommend(ctx, movie.Title, fresh)
		if err != nil {
			c.logger.WithError(err).WithField("movie_id", movie.ID).Warn("Recommendation generation failed")
			return nil, models.StatusNotFound, nil
		}

		// Populated slots survive a partial earlier failure; only fill gaps
		if movie.Rec1 == nil {
			movie.Rec1 = &ids[0]
		}
		if movie.Rec2 == nil {
			movie.Rec2 = &ids[1]
		}
		if movie.Rec3 == nil {
			movie.Rec3 = &ids[2]
		}

		if err := c.db.UpdateRecommendations(movie.ID, movie.Rec1, movie.Rec2, movie.Rec3); err != nil {
			return nil, models.StatusNotFound, fmt.Errorf("failed to persist slots: %w", err)
		}
	}

	recommended := make([]models.Movie, 0, 3)
	for _, imdbID := range []*string{movie.Rec1, movie.Rec2, movie.Rec3} {
		resolved, err := c.ensureCatalogByExternalID(ctx, *imdbID)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"movie_id": movie.ID,
				"imdb_id":  *imdbID,
			}).Warn("Recommendation failed to resolve, clearing slots")

			if clearErr := c.clearSlots(movie); clearErr != nil {
				return nil, models.StatusNotFound, clearErr
			}
			return nil, models.StatusNotFound, nil
		}
		recommended = append(recommended, *resolved)
	}

	return recommended, models.StatusOK, nil
}

// ensureCatalogByExternalID resolves an external identifier to a catalog
// movie, fetching and inserting it when absent.
func (c *RecommendController) ensureCatalogByExternalID(ctx context.Context, imdbID string) (*models.Movie, error) {
	movie, err := c.db.GetMovieByIMDBID(imdbID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	info, err := c.metadata.LookupByID(ctx, imdbID)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	movie = movieFromInfo(info)
	if err := c.db.CreateMovie(movie); err != nil {
		return nil, fmt.Errorf("failed to insert resolved movie: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"movie_id": movie.ID,
		"imdb_id":  movie.IMDBId,
	}).Info("Resolved recommendation into catalog")

	return movie, nil
}

// clearSlots empties all three recommendation slots and persists the clear
func (c *RecommendController) clearSlots(movie *models.Movie) error {
	movie.Rec1, movie.Rec2, movie.Rec3 = nil, nil, nil
	if err := c.db.UpdateRecommendations(movie.ID, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	return nil
}
