package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/geodesk/spatial-api/internal/services"
)

// PolygonHandler handles HTTP requests for spatial polygons.
type PolygonHandler struct {
	service services.PolygonServiceProvider
}

// NewPolygonHandler creates a new PolygonHandler.
func NewPolygonHandler(service services.PolygonServiceProvider) *PolygonHandler {
	return &PolygonHandler{service: service}
}

// PolygonPayload defines the structure for create and update requests.
type PolygonPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Area        json.RawMessage `json:"area"`
}

// Create handles the request to create a new polygon.
func (h *PolygonHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePolygonPayload(w, r)
	if !ok {
		return
	}

	polygon, err := h.service.Create(r.Context(), payload.Name, payload.Description, payload.Area)
	if err != nil {
		respondServiceError(w, err, "Polygon")
		return
	}
	respondJSON(w, http.StatusCreated, polygon)
}

// List handles the request to get a page of polygons.
func (h *PolygonHandler) List(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	polygons, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		respondServiceError(w, err, "Polygon")
		return
	}
	respondJSON(w, http.StatusOK, polygons)
}

// Get handles the request to get a single polygon by its ID.
func (h *PolygonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	polygon, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Polygon")
		return
	}
	respondJSON(w, http.StatusOK, polygon)
}

// Update handles the request to update an existing polygon.
func (h *PolygonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	payload, ok := decodePolygonPayload(w, r)
	if !ok {
		return
	}

	polygon, err := h.service.Update(r.Context(), id, payload.Name, payload.Description, payload.Area)
	if err != nil {
		respondServiceError(w, err, "Polygon")
		return
	}
	respondJSON(w, http.StatusOK, polygon)
}

// Delete handles the request to delete a polygon.
func (h *PolygonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "Polygon")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodePolygonPayload(w http.ResponseWriter, r *http.Request) (PolygonPayload, bool) {
	var payload PolygonPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return payload, false
	}
	if payload.Name == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "name is required")
		return payload, false
	}
	if len(payload.Area) == 0 {
		respondDetail(w, http.StatusUnprocessableEntity, "area is required")
		return payload, false
	}
	return payload, true
}
