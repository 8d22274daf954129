package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/controllers"
	"github.com/amaumene/movielib/internal/models"
)

// LibraryHandler handles catalog and per-user library endpoints
type LibraryHandler struct {
	library *controllers.LibraryController
	logger  *logrus.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library *controllers.LibraryController, logger *logrus.Logger) *LibraryHandler {
	return &LibraryHandler{
		library: library,
		logger:  logger,
	}
}

type addMovieRequest struct {
	Title string `json:"title"`
}

type updateMovieRequest struct {
	Rating string `json:"rating"`
	Notes  string `json:"notes"`
}

// Random returns one random catalog movie, the "random pick for tonight"
func (h *LibraryHandler) Random(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	movies, err := h.library.ListLibrary(r.Context(), 0, models.SortInsertion)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found. Please try again")
			return
		}
		h.logger.WithError(err).Error("Failed to pick random movie")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}
	writeJSON(w, http.StatusOK, movies[0])
}

// List returns the user's library ordered per the sort query parameter.
// Insertion order is reversed so the most recently added movie comes first.
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := pathID(ps, "id")

	sort, err := strconv.Atoi(r.URL.Query().Get("sort"))
	if err != nil {
		sort = models.SortInsertion
	}

	movies, err := h.library.ListLibrary(r.Context(), userID, sort)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list library")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}

	if sort == models.SortInsertion {
		for i, j := 0, len(movies)-1; i < j; i, j = i+1, j-1 {
			movies[i], movies[j] = movies[j], movies[i]
		}
	}

	writeJSON(w, http.StatusOK, movies)
}

// Add adds a movie to the user's library by title
func (h *LibraryHandler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := pathID(ps, "id")

	var req addMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	status, err := h.library.AddByTitle(r.Context(), userID, req.Title)
	if err != nil {
		h.logger.WithError(err).Error("Failed to add movie")
	}
	writeStatus(w, status)
}

// AddExisting links an already-resolved catalog movie to the user's library
func (h *LibraryHandler) AddExisting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := pathID(ps, "id")
	movieID := pathID(ps, "movieID")

	status, err := h.library.AddExisting(r.Context(), userID, movieID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to add existing movie")
	}
	writeStatus(w, status)
}

// Get returns one movie with the user's overrides applied
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := pathID(ps, "id")
	movieID := pathID(ps, "movieID")

	movie, err := h.library.GetMovie(userID, movieID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found. Please try again")
			return
		}
		h.logger.WithError(err).Error("Failed to get movie")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// Update overwrites the personal rating and notes on a library entry. The
// rating must parse as a number; the store does not re-validate it.
func (h *LibraryHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := pathID(ps, "id")
	movieID := pathID(ps, "movieID")

	var req updateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	rating, err := strconv.ParseFloat(req.Rating, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Rating must be a number")
		return
	}

	status, err := h.library.UpdateEntry(userID, movieID, rating, req.Notes)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update entry")
	}
	writeStatus(w, status)
}

// Delete removes a movie from the user's library, leaving the catalog row
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := pathID(ps, "id")
	movieID := pathID(ps, "movieID")

	deleted, err := h.library.Remove(userID, movieID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete entry")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Movie not found. Please try again")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}

// Purge hard-deletes a catalog movie
func (h *LibraryHandler) Purge(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	movieID := pathID(ps, "movieID")

	deleted, err := h.library.Purge(movieID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to purge movie")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Movie not found. Please try again")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}

// pathID parses a numeric path parameter, returning 0 when absent or invalid
func pathID(ps httprouter.Params, name string) uint {
	id, err := strconv.ParseUint(ps.ByName(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
