package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/movielib/internal/models"
)

// statusResponse is the envelope returned by mutation endpoints
type statusResponse struct {
	Status string `json:"Status"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, reason string) {
	writeJSON(w, code, statusResponse{Status: "Error. " + reason})
}

// writeStatus maps a store status to the JSON envelope and HTTP code
func writeStatus(w http.ResponseWriter, status models.Status) {
	switch status {
	case models.StatusOK:
		writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
	case models.StatusAlreadyAdded:
		writeJSON(w, http.StatusConflict, statusResponse{Status: "Error. Movie already in the library"})
	default:
		writeJSON(w, http.StatusNotFound, statusResponse{Status: "Error. Movie not found. Please try again"})
	}
}
