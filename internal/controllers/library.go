package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/models"
	"github.com/amaumene/movielib/internal/services/omdb"
)

// Ingestion fallbacks for movies coming from the metadata API
const (
	fallbackRating = 7.77
	fallbackNote   = "Please note: rating wasn't available, 7.77 added automatically"
	fallbackPoster = "https://st4.depositphotos.com/14953852/22772/v/450/depositphotos_227725020-stock-illustration-image-available-icon-flat-vector.jpg"
)

// MetadataClient resolves titles and external identifiers against the metadata API
type MetadataClient interface {
	LookupByTitle(ctx context.Context, title string) (*omdb.MovieInfo, error)
	LookupByID(ctx context.Context, imdbID string) (*omdb.MovieInfo, error)
}

// LibraryController handles catalog and per-user library management
type LibraryController struct {
	db       *models.Database
	metadata MetadataClient
	logger   *logrus.Logger
}

// NewLibraryController creates a new library controller
func NewLibraryController(db *models.Database, metadata MetadataClient, logger *logrus.Logger) *LibraryController {
	return &LibraryController{
		db:       db,
		metadata: metadata,
		logger:   logger,
	}
}

// ListLibrary returns the user's movies ordered per the sort mode, with
// per-user overrides applied. userID 0 is the random-pick sentinel and
// returns one random catalog movie, ignoring sort and overrides.
func (c *LibraryController) ListLibrary(ctx context.Context, userID uint, sort int) ([]models.Movie, error) {
	if userID == 0 {
		movie, err := c.db.GetRandomMovie()
		if err != nil {
			return nil, err
		}
		return []models.Movie{*movie}, nil
	}

	return c.db.ListUserMovies(userID, sort)
}

// AddByTitle adds a movie to the user's library by title. Resolution order:
// the user's own library, then the shared catalog, then the metadata API.
func (c *LibraryController) AddByTitle(ctx context.Context, userID uint, title string) (models.Status, error) {
	exists, err := c.db.HasUserMovieTitle(userID, title)
	if err != nil {
		return models.StatusNotFound, fmt.Errorf("library lookup failed: %w", err)
	}
	if exists {
		return models.StatusAlreadyAdded, nil
	}

	// Already in the catalog: just link it
	movie, err := c.db.GetMovieByTitle(title)
	if err == nil {
		if err := c.db.CreateUserMovie(userID, movie.ID); err != nil {
			return models.StatusNotFound, fmt.Errorf("failed to link movie: %w", err)
		}
		c.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"movie_id": movie.ID,
		}).Info("Linked existing catalog movie")
		return models.StatusOK, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.StatusNotFound, fmt.Errorf("catalog lookup failed: %w", err)
	}

	return c.addFromMetadata(ctx, userID, title)
}

// addFromMetadata fetches a movie from the metadata API, inserts it into the
// catalog and links it to the user.
func (c *LibraryController) addFromMetadata(ctx context.Context, userID uint, title string) (models.Status, error) {
	info, err := c.metadata.LookupByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			return models.StatusNotFound, nil
		}
		c.logger.WithError(err).Error("Metadata lookup failed")
		return models.StatusNotFound, nil
	}

	movie := movieFromInfo(info)
	if err := c.db.CreateMovieWithLink(movie, userID); err != nil {
		return models.StatusNotFound, fmt.Errorf("failed to insert movie: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"movie_id": movie.ID,
		"imdb_id":  movie.IMDBId,
	}).Info("Added new catalog movie")

	return models.StatusOK, nil
}

// AddExisting links an already-resolved catalog movie (from a recommendation
// or a random pick) to the user's library. Duplicate detection is per
// (user, movie), backed by the uniqueness constraint on the link table.
func (c *LibraryController) AddExisting(ctx context.Context, userID, movieID uint) (models.Status, error) {
	if _, err := c.db.GetMovieByID(movieID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.StatusNotFound, nil
		}
		return models.StatusNotFound, err
	}

	exists, err := c.db.HasUserMovie(userID, movieID)
	if err != nil {
		return models.StatusNotFound, fmt.Errorf("library lookup failed: %w", err)
	}
	if exists {
		return models.StatusAlreadyAdded, nil
	}

	if err := c.db.CreateUserMovie(userID, movieID); err != nil {
		return models.StatusNotFound, fmt.Errorf("failed to link movie: %w", err)
	}
	return models.StatusOK, nil
}

// GetMovie fetches one movie with the user's overrides applied
func (c *LibraryController) GetMovie(userID, movieID uint) (*models.Movie, error) {
	return c.db.GetUserMovie(userID, movieID)
}

// GetMovieByID fetches catalog-level movie info without per-user context
func (c *LibraryController) GetMovieByID(movieID uint) (*models.Movie, error) {
	return c.db.GetMovieByID(movieID)
}

// UpdateEntry overwrites the personal rating and notes on a library entry.
// The rating string must already be validated by the caller. Empty notes
// clear the override.
func (c *LibraryController) UpdateEntry(userID, movieID uint, rating float64, notes string) (models.Status, error) {
	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	if err := c.db.UpdateUserMovie(userID, movieID, &rating, notesPtr); err != nil {
		return models.StatusNotFound, fmt.Errorf("failed to update entry: %w", err)
	}
	return models.StatusOK, nil
}

// Remove deletes the user's library link. The catalog row is never touched.
func (c *LibraryController) Remove(userID, movieID uint) (bool, error) {
	return c.db.DeleteUserMovie(userID, movieID)
}

// Purge hard-deletes a catalog movie. The caller must guarantee no library
// link still references it.
func (c *LibraryController) Purge(movieID uint) (bool, error) {
	return c.db.DeleteMovie(movieID)
}

// movieFromInfo maps a metadata API record to a catalog movie. A rating that
// does not parse gets the fixed sentinel plus a disclaimer note, and the
// "N/A" poster sentinel is rewritten to a placeholder image.
func movieFromInfo(info *omdb.MovieInfo) *models.Movie {
	movie := &models.Movie{
		Title:    info.Title,
		Director: info.Director,
		Year:     info.Year,
		Img:      info.Poster,
		IMDBId:   info.IMDBID,
		Plot:     info.Plot,
	}

	rating, err := strconv.ParseFloat(info.Rating, 64)
	if err != nil {
		note := fallbackNote
		movie.Rating = fallbackRating
		movie.Notes = &note
	} else {
		movie.Rating = rating
	}

	if movie.Img == "N/A" {
		movie.Img = fallbackPoster
	}

	return movie
}
