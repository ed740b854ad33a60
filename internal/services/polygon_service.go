package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"

	"github.com/geodesk/spatial-api/internal/geo"
	"github.com/geodesk/spatial-api/internal/models"
)

// PolygonServiceProvider defines the interface for polygon services.
type PolygonServiceProvider interface {
	Create(ctx context.Context, name, description string, area json.RawMessage) (models.Polygon, error)
	GetByID(ctx context.Context, id int64) (models.Polygon, error)
	List(ctx context.Context, offset, limit int) ([]models.Polygon, error)
	Update(ctx context.Context, id int64, name, description string, area json.RawMessage) (models.Polygon, error)
	Delete(ctx context.Context, id int64) error
	ContainingPoint(ctx context.Context, point json.RawMessage) ([]models.Polygon, error)
}

// PolygonService persists spatial polygons and answers the containment query
// via the database's geometry operators.
type PolygonService struct {
	db *sql.DB
}

// NewPolygonService creates a new PolygonService.
func NewPolygonService(db *sql.DB) *PolygonService {
	return &PolygonService{db: db}
}

// Create validates the GeoJSON area and inserts a new polygon.
func (s *PolygonService) Create(ctx context.Context, name, description string, area json.RawMessage) (models.Polygon, error) {
	poly, err := geo.DecodePolygon(area)
	if err != nil {
		return models.Polygon{}, err
	}
	encoded, err := geo.Encode(poly)
	if err != nil {
		return models.Polygon{}, err
	}

	polygon := models.Polygon{Name: name, Description: description, Area: encoded}
	err = s.db.QueryRowContext(ctx,
		"INSERT INTO polygons (name, description, area) VALUES ($1, $2, ST_GeomFromEWKB($3)) RETURNING id",
		name, description, ewkb.Value(poly, geo.SRID),
	).Scan(&polygon.ID)
	if err != nil {
		return models.Polygon{}, err
	}
	return polygon, nil
}

// GetByID retrieves a single polygon.
func (s *PolygonService) GetByID(ctx context.Context, id int64) (models.Polygon, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(description, ''), ST_AsEWKB(area) FROM polygons WHERE id = $1", id)
	polygon, err := scanPolygon(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Polygon{}, models.ErrNotFound
		}
		return models.Polygon{}, err
	}
	return polygon, nil
}

// List returns a page of polygons ordered by id.
func (s *PolygonService) List(ctx context.Context, offset, limit int) ([]models.Polygon, error) {
	offset, limit = clampPage(offset, limit)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(description, ''), ST_AsEWKB(area) FROM polygons ORDER BY id OFFSET $1 LIMIT $2",
		offset, limit)
	if err != nil {
		return nil, err
	}
	return collectPolygons(rows)
}

// Update replaces a polygon's fields; a missing id reports ErrNotFound.
func (s *PolygonService) Update(ctx context.Context, id int64, name, description string, area json.RawMessage) (models.Polygon, error) {
	poly, err := geo.DecodePolygon(area)
	if err != nil {
		return models.Polygon{}, err
	}
	encoded, err := geo.Encode(poly)
	if err != nil {
		return models.Polygon{}, err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE polygons SET name = $1, description = $2, area = ST_GeomFromEWKB($3) WHERE id = $4",
		name, description, ewkb.Value(poly, geo.SRID), id)
	if err != nil {
		return models.Polygon{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Polygon{}, err
	}
	if affected == 0 {
		return models.Polygon{}, models.ErrNotFound
	}
	return models.Polygon{ID: id, Name: name, Description: description, Area: encoded}, nil
}

// Delete removes a polygon; a missing id reports ErrNotFound.
func (s *PolygonService) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM polygons WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ContainingPoint returns every polygon whose area contains the given GeoJSON
// point.
func (s *PolygonService) ContainingPoint(ctx context.Context, point json.RawMessage) ([]models.Polygon, error) {
	pt, err := geo.DecodePoint(point)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(description, ''), ST_AsEWKB(area) FROM polygons WHERE ST_Contains(area, ST_GeomFromEWKB($1)) ORDER BY id",
		ewkb.Value(pt, geo.SRID))
	if err != nil {
		return nil, err
	}
	return collectPolygons(rows)
}

func scanPolygon(row rowScanner) (models.Polygon, error) {
	var polygon models.Polygon
	var area orb.Polygon
	if err := row.Scan(&polygon.ID, &polygon.Name, &polygon.Description, ewkb.Scanner(&area)); err != nil {
		return models.Polygon{}, err
	}
	encoded, err := geo.Encode(area)
	if err != nil {
		return models.Polygon{}, err
	}
	polygon.Area = encoded
	return polygon, nil
}

func collectPolygons(rows *sql.Rows) ([]models.Polygon, error) {
	defer rows.Close()
	polygons := []models.Polygon{}
	for rows.Next() {
		polygon, err := scanPolygon(rows)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, polygon)
	}
	return polygons, rows.Err()
}
