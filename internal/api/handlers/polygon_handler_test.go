package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodesk/spatial-api/internal/services/servicestest"
)

const validPolygonBody = `{"name":"API Test Polygon","description":"test","area":{"type":"Polygon","coordinates":[[[77.0,38.9],[77.1,38.9],[77.1,39.0],[77.0,39.0],[77.0,38.9]]]}}`

func TestPolygonLifecycle(t *testing.T) {
	t.Parallel()

	handler := NewPolygonHandler(servicestest.NewFakePolygonService())

	// create
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/polygons", strings.NewReader(validPolygonBody)))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, "API Test Polygon", created["name"])
	area := created["area"].(map[string]interface{})
	assert.Equal(t, "Polygon", area["type"])
	assert.Len(t, area["coordinates"].([]interface{}), 1)

	// get returns identical fields
	rec = httptest.NewRecorder()
	handler.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/polygons/1", nil), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeBody(t, rec))

	// update
	rec = httptest.NewRecorder()
	handler.Update(rec, withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/polygons/1",
		strings.NewReader(`{"name":"Renamed","description":"","area":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}}`)), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)

	// get reflects new fields
	rec = httptest.NewRecorder()
	handler.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/polygons/1", nil), "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decodeBody(t, rec)["name"])

	// delete
	rec = httptest.NewRecorder()
	handler.Delete(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/polygons/1", nil), "id", "1"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// subsequent get is a 404
	rec = httptest.NewRecorder()
	handler.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/polygons/1", nil), "id", "1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPolygonCreate_InvalidGeometry(t *testing.T) {
	t.Parallel()

	handler := NewPolygonHandler(servicestest.NewFakePolygonService())
	cases := map[string]string{
		"wrong type":    `{"name":"x","area":{"type":"Point","coordinates":[1,2]}}`,
		"unclosed ring": `{"name":"x","area":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1]]]}}`,
		"short ring":    `{"name":"x","area":{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]}}`,
		"no rings":      `{"name":"x","area":{"type":"Polygon","coordinates":[]}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/polygons", strings.NewReader(body)))
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestPolygonCreate_MissingName(t *testing.T) {
	t.Parallel()

	handler := NewPolygonHandler(servicestest.NewFakePolygonService())
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/polygons",
		strings.NewReader(`{"area":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPolygonUpdateDelete_NotFound(t *testing.T) {
	t.Parallel()

	handler := NewPolygonHandler(servicestest.NewFakePolygonService())

	rec := httptest.NewRecorder()
	handler.Update(rec, withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/polygons/99",
		strings.NewReader(validPolygonBody)), "id", "99"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.Delete(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/polygons/99", nil), "id", "99"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPolygonGet_InvalidID(t *testing.T) {
	t.Parallel()

	handler := NewPolygonHandler(servicestest.NewFakePolygonService())
	rec := httptest.NewRecorder()
	handler.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/polygons/abc", nil), "id", "abc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPolygonList(t *testing.T) {
	t.Parallel()

	polygons := servicestest.NewFakePolygonService()
	handler := NewPolygonHandler(polygons)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/polygons", strings.NewReader(validPolygonBody)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/polygons?skip=0&limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeListBody(t, rec), 3)
}
