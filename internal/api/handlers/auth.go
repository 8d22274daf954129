package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/api/session"
	"github.com/amaumene/movielib/internal/controllers"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	auth     *controllers.AuthController
	sessions *session.Manager
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *controllers.AuthController, sessions *session.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register creates an account and signs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	user, err := h.auth.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, controllers.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, controllers.ErrEmailExists):
			writeError(w, http.StatusConflict, "Email already exists. Please try a different email")
		default:
			h.logger.WithError(err).Error("Registration failed")
			writeError(w, http.StatusInternalServerError, "Please try again")
		}
		return
	}

	if err := h.sessions.SignIn(w, r, user.ID); err != nil {
		h.logger.WithError(err).Error("Failed to create session")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

// Login verifies credentials and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	user, err := h.auth.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, controllers.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Wrong email or password")
			return
		}
		h.logger.WithError(err).Error("Login failed")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}

	if err := h.sessions.SignIn(w, r, user.ID); err != nil {
		h.logger.WithError(err).Error("Failed to create session")
		writeError(w, http.StatusInternalServerError, "Please try again")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

// Logout expires the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.sessions.SignOut(w, r); err != nil {
		h.logger.WithError(err).Error("Failed to expire session")
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}
