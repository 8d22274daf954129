package controllers

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/models"
)

// ReviewController handles append-only review storage
type ReviewController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewReviewController creates a new review controller
func NewReviewController(db *models.Database, logger *logrus.Logger) *ReviewController {
	return &ReviewController{
		db:     db,
		logger: logger,
	}
}

// Add stores a new review. A zero date defaults to the submission day.
func (c *ReviewController) Add(userID, movieID uint, title, text string, rating float64, date time.Time) (models.Status, error) {
	if date.IsZero() {
		date = time.Now().Truncate(24 * time.Hour)
	}

	review := &models.Review{
		UserID:       userID,
		MovieID:      movieID,
		ReviewTitle:  title,
		ReviewText:   text,
		ReviewRating: rating,
		ReviewDate:   date,
	}
	if err := c.db.CreateReview(review); err != nil {
		return models.StatusNotFound, fmt.Errorf("failed to store review: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"movie_id": movieID,
	}).Info("Review added")

	return models.StatusOK, nil
}

// List returns all reviews for a movie joined with the authoring username,
// newest first.
func (c *ReviewController) List(movieID uint) ([]models.ReviewWithAuthor, error) {
	return c.db.ListReviews(movieID)
}
