package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/geodesk/spatial-api/internal/services"
)

// PointHandler handles HTTP requests for spatial points.
type PointHandler struct {
	service services.PointServiceProvider
}

// NewPointHandler creates a new PointHandler.
func NewPointHandler(service services.PointServiceProvider) *PointHandler {
	return &PointHandler{service: service}
}

// PointPayload defines the structure for create and update requests.
type PointPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Location    json.RawMessage `json:"location"`
}

// Create handles the request to create a new point.
func (h *PointHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePointPayload(w, r)
	if !ok {
		return
	}

	point, err := h.service.Create(r.Context(), payload.Name, payload.Description, payload.Location)
	if err != nil {
		respondServiceError(w, err, "Point")
		return
	}
	respondJSON(w, http.StatusCreated, point)
}

// List handles the request to get a page of points.
func (h *PointHandler) List(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	points, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		respondServiceError(w, err, "Point")
		return
	}
	respondJSON(w, http.StatusOK, points)
}

// Get handles the request to get a single point by its ID.
func (h *PointHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	point, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Point")
		return
	}
	respondJSON(w, http.StatusOK, point)
}

// Update handles the request to update an existing point.
func (h *PointHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	payload, ok := decodePointPayload(w, r)
	if !ok {
		return
	}

	point, err := h.service.Update(r.Context(), id, payload.Name, payload.Description, payload.Location)
	if err != nil {
		respondServiceError(w, err, "Point")
		return
	}
	respondJSON(w, http.StatusOK, point)
}

// Delete handles the request to delete a point.
func (h *PointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "Point")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodePointPayload(w http.ResponseWriter, r *http.Request) (PointPayload, bool) {
	var payload PointPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return payload, false
	}
	if payload.Name == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "name is required")
		return payload, false
	}
	if len(payload.Location) == 0 {
		respondDetail(w, http.StatusUnprocessableEntity, "location is required")
		return payload, false
	}
	return payload, true
}

// pathID parses the {id} route parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
