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

// PointServiceProvider defines the interface for point services.
type PointServiceProvider interface {
	Create(ctx context.Context, name, description string, location json.RawMessage) (models.Point, error)
	GetByID(ctx context.Context, id int64) (models.Point, error)
	List(ctx context.Context, offset, limit int) ([]models.Point, error)
	Update(ctx context.Context, id int64, name, description string, location json.RawMessage) (models.Point, error)
	Delete(ctx context.Context, id int64) error
	WithinPolygon(ctx context.Context, polygon json.RawMessage) ([]models.Point, error)
	Nearby(ctx context.Context, point json.RawMessage, radiusMeters float64) ([]models.Point, error)
}

// PointService persists spatial points and answers the point-side predicate
// queries via the database's geometry operators.
type PointService struct {
	db *sql.DB
}

// NewPointService creates a new PointService.
func NewPointService(db *sql.DB) *PointService {
	return &PointService{db: db}
}

// Create validates the GeoJSON location and inserts a new point. The geometry
// is decoded before any write is attempted.
func (s *PointService) Create(ctx context.Context, name, description string, location json.RawMessage) (models.Point, error) {
	loc, err := geo.DecodePoint(location)
	if err != nil {
		return models.Point{}, err
	}
	encoded, err := geo.Encode(loc)
	if err != nil {
		return models.Point{}, err
	}

	point := models.Point{Name: name, Description: description, Location: encoded}
	err = s.db.QueryRowContext(ctx,
		"INSERT INTO points (name, description, location) VALUES ($1, $2, ST_GeomFromEWKB($3)) RETURNING id",
		name, description, ewkb.Value(loc, geo.SRID),
	).Scan(&point.ID)
	if err != nil {
		return models.Point{}, err
	}
	return point, nil
}

// GetByID retrieves a single point.
func (s *PointService) GetByID(ctx context.Context, id int64) (models.Point, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(description, ''), ST_AsEWKB(location) FROM points WHERE id = $1", id)
	point, err := scanPoint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Point{}, models.ErrNotFound
		}
		return models.Point{}, err
	}
	return point, nil
}

// List returns a page of points ordered by id.
func (s *PointService) List(ctx context.Context, offset, limit int) ([]models.Point, error) {
	offset, limit = clampPage(offset, limit)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(description, ''), ST_AsEWKB(location) FROM points ORDER BY id OFFSET $1 LIMIT $2",
		offset, limit)
	if err != nil {
		return nil, err
	}
	return collectPoints(rows)
}

// Update replaces a point's fields. The geometry is validated before the
// statement runs; a missing id reports ErrNotFound.
func (s *PointService) Update(ctx context.Context, id int64, name, description string, location json.RawMessage) (models.Point, error) {
	loc, err := geo.DecodePoint(location)
	if err != nil {
		return models.Point{}, err
	}
	encoded, err := geo.Encode(loc)
	if err != nil {
		return models.Point{}, err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE points SET name = $1, description = $2, location = ST_GeomFromEWKB($3) WHERE id = $4",
		name, description, ewkb.Value(loc, geo.SRID), id)
	if err != nil {
		return models.Point{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Point{}, err
	}
	if affected == 0 {
		return models.Point{}, models.ErrNotFound
	}
	return models.Point{ID: id, Name: name, Description: description, Location: encoded}, nil
}

// Delete removes a point; a missing id reports ErrNotFound.
func (s *PointService) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM points WHERE id = $1", id)
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

// WithinPolygon returns every point whose location lies within the given
// GeoJSON polygon.
func (s *PointService) WithinPolygon(ctx context.Context, polygon json.RawMessage) ([]models.Point, error) {
	poly, err := geo.DecodePolygon(polygon)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(description, ''), ST_AsEWKB(location) FROM points WHERE ST_Within(location, ST_GeomFromEWKB($1)) ORDER BY id",
		ewkb.Value(poly, geo.SRID))
	if err != nil {
		return nil, err
	}
	return collectPoints(rows)
}

// Nearby returns every point within radiusMeters of the given GeoJSON point.
// Both operands are cast to geography so the radius is geodesic meters, not
// planar degrees.
func (s *PointService) Nearby(ctx context.Context, point json.RawMessage, radiusMeters float64) ([]models.Point, error) {
	pt, err := geo.DecodePoint(point)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(description, ''), ST_AsEWKB(location) FROM points WHERE ST_DWithin(location::geography, ST_GeomFromEWKB($1)::geography, $2) ORDER BY id",
		ewkb.Value(pt, geo.SRID), radiusMeters)
	if err != nil {
		return nil, err
	}
	return collectPoints(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoint(row rowScanner) (models.Point, error) {
	var point models.Point
	var loc orb.Point
	if err := row.Scan(&point.ID, &point.Name, &point.Description, ewkb.Scanner(&loc)); err != nil {
		return models.Point{}, err
	}
	encoded, err := geo.Encode(loc)
	if err != nil {
		return models.Point{}, err
	}
	point.Location = encoded
	return point, nil
}

func collectPoints(rows *sql.Rows) ([]models.Point, error) {
	defer rows.Close()
	points := []models.Point{}
	for rows.Next() {
		point, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}
