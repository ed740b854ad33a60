package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/geodesk/spatial-api/internal/geo"
	"github.com/geodesk/spatial-api/internal/models"
)

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondDetail writes an error response in the {"detail": ...} wire shape.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// respondServiceError maps service-layer sentinel errors onto status codes:
// unknown id is 404, malformed geometry is 422, anything else is a 500.
func respondServiceError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondDetail(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, geo.ErrInvalidGeometry):
		respondDetail(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().Err(err).Str("resource", resource).Msg("Service call failed")
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
