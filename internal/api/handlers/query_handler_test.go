package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodesk/spatial-api/internal/services/servicestest"
)

func newQueryFixture(t *testing.T) (*QueryHandler, *servicestest.FakePointService, *servicestest.FakePolygonService) {
	t.Helper()
	points := servicestest.NewFakePointService()
	polygons := servicestest.NewFakePolygonService()

	pointHandler := NewPointHandler(points)
	rec := httptest.NewRecorder()
	pointHandler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/points", strings.NewReader(validPointBody)))
	require.Equal(t, http.StatusCreated, rec.Code)

	return NewQueryHandler(points, polygons), points, polygons
}

func TestPointsWithinPolygon(t *testing.T) {
	t.Parallel()

	handler, _, _ := newQueryFixture(t)
	rec := httptest.NewRecorder()
	handler.PointsWithinPolygon(rec, httptest.NewRequest(http.MethodPost, "/api/v1/points/within-polygon",
		strings.NewReader(`{"polygon":{"type":"Polygon","coordinates":[[[77.0,38.9],[77.1,38.9],[77.1,39.0],[77.0,39.0],[77.0,38.9]]]}}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeListBody(t, rec), 1)
}

func TestPointsWithinPolygon_InvalidGeometry(t *testing.T) {
	t.Parallel()

	handler, _, _ := newQueryFixture(t)
	rec := httptest.NewRecorder()
	handler.PointsWithinPolygon(rec, httptest.NewRequest(http.MethodPost, "/api/v1/points/within-polygon",
		strings.NewReader(`{"polygon":{"type":"Point","coordinates":[1,2]}}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPolygonsContainingPoint(t *testing.T) {
	t.Parallel()

	handler, _, polygons := newQueryFixture(t)
	_, err := polygons.Create(context.Background(), "zone", "",
		[]byte(`{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,4],[0,0]]]}`))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.PolygonsContainingPoint(rec, httptest.NewRequest(http.MethodPost, "/api/v1/polygons/containing-point",
		strings.NewReader(`{"point":{"type":"Point","coordinates":[1,1]}}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeListBody(t, rec), 1)
}

func TestPointsNearby(t *testing.T) {
	t.Parallel()

	handler, _, _ := newQueryFixture(t)
	rec := httptest.NewRecorder()
	handler.PointsNearby(rec, httptest.NewRequest(http.MethodPost, "/api/v1/points/nearby",
		strings.NewReader(`{"point":{"type":"Point","coordinates":[77.05,38.95]},"radius":10000}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeListBody(t, rec), 1)
}

func TestPointsNearby_NegativeRadius(t *testing.T) {
	t.Parallel()

	handler, _, _ := newQueryFixture(t)
	rec := httptest.NewRecorder()
	handler.PointsNearby(rec, httptest.NewRequest(http.MethodPost, "/api/v1/points/nearby",
		strings.NewReader(`{"point":{"type":"Point","coordinates":[1,2]},"radius":-5}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
