package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/controllers"
	"github.com/amaumene/movielib/internal/models"
)

// RecommendHandler handles the recommendation panel endpoints
type RecommendHandler struct {
	recommend *controllers.RecommendController
	library   *controllers.LibraryController
	logger    *logrus.Logger
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(recommend *controllers.RecommendController, library *controllers.LibraryController, logger *logrus.Logger) *RecommendHandler {
	return &RecommendHandler{
		recommend: recommend,
		library:   library,
		logger:    logger,
	}
}

// recommendResponse pairs the source movie with its three recommendations
type recommendResponse struct {
	CurrentMovie *models.Movie  `json:"current_movie"`
	Movies       []models.Movie `json:"movies"`
}

// Get returns cached-or-generated recommendations for a movie
func (h *RecommendHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.respond(w, r, ps, false)
}

// Regenerate discards cached recommendations and generates a fresh set
func (h *RecommendHandler) Regenerate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.respond(w, r, ps, true)
}

func (h *RecommendHandler) respond(w http.ResponseWriter, r *http.Request, ps httprouter.Params, fresh bool) {
	movieID := pathID(ps, "movieID")

	var (
		movies []models.Movie
		status models.Status
		err    error
	)
	if fresh {
		movies, status, err = h.recommend.Regenerate(r.Context(), movieID)
	} else {
		movies, status, err = h.recommend.Get(r.Context(), movieID)
	}
	if err != nil {
		h.logger.WithError(err).Error("Recommendation workflow failed")
	}
	if status != models.StatusOK {
		writeError(w, http.StatusNotFound, "Movie not found. Please try again")
		return
	}

	current, err := h.library.GetMovieByID(movieID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load source movie")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		CurrentMovie: current,
		Movies:       movies,
	})
}
