package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/controllers"
)

// ReviewHandler handles posting and listing reviews
type ReviewHandler struct {
	reviews *controllers.ReviewController
	logger  *logrus.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *controllers.ReviewController, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

type addReviewRequest struct {
	Title  string  `json:"review_title"`
	Text   string  `json:"review_text"`
	Rating float64 `json:"review_rating"`
}

// Add stores a new review dated today
func (h *ReviewHandler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := pathID(ps, "id")
	movieID := pathID(ps, "movieID")

	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	status, err := h.reviews.Add(userID, movieID, req.Title, req.Text, req.Rating, time.Time{})
	if err != nil {
		h.logger.WithError(err).Error("Failed to add review")
	}
	writeStatus(w, status)
}

// List returns all reviews for a movie, newest first
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	movieID := pathID(ps, "movieID")

	reviews, err := h.reviews.List(movieID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reviews")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
