package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/geodesk/spatial-api/internal/services"
)

// QueryHandler handles the spatial predicate endpoints.
type QueryHandler struct {
	points   services.PointServiceProvider
	polygons services.PolygonServiceProvider
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(points services.PointServiceProvider, polygons services.PolygonServiceProvider) *QueryHandler {
	return &QueryHandler{points: points, polygons: polygons}
}

// WithinPolygonPayload carries the query polygon.
type WithinPolygonPayload struct {
	Polygon json.RawMessage `json:"polygon"`
}

// ContainingPointPayload carries the query point.
type ContainingPointPayload struct {
	Point json.RawMessage `json:"point"`
}

// NearbyPayload carries the query point and search radius in meters.
type NearbyPayload struct {
	Point  json.RawMessage `json:"point"`
	Radius float64         `json:"radius"`
}

// PointsWithinPolygon returns all points inside the posted polygon.
func (h *QueryHandler) PointsWithinPolygon(w http.ResponseWriter, r *http.Request) {
	var payload WithinPolygonPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	points, err := h.points.WithinPolygon(r.Context(), payload.Polygon)
	if err != nil {
		respondServiceError(w, err, "Point")
		return
	}
	respondJSON(w, http.StatusOK, points)
}

// PolygonsContainingPoint returns all polygons containing the posted point.
func (h *QueryHandler) PolygonsContainingPoint(w http.ResponseWriter, r *http.Request) {
	var payload ContainingPointPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	polygons, err := h.polygons.ContainingPoint(r.Context(), payload.Point)
	if err != nil {
		respondServiceError(w, err, "Polygon")
		return
	}
	respondJSON(w, http.StatusOK, polygons)
}

// PointsNearby returns all points within the posted geodesic radius.
func (h *QueryHandler) PointsNearby(w http.ResponseWriter, r *http.Request) {
	var payload NearbyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Radius < 0 {
		respondDetail(w, http.StatusUnprocessableEntity, "radius must be non-negative")
		return
	}

	points, err := h.points.Nearby(r.Context(), payload.Point, payload.Radius)
	if err != nil {
		respondServiceError(w, err, "Point")
		return
	}
	respondJSON(w, http.StatusOK, points)
}
