// Package geo converts between wire-level GeoJSON and the orb geometry values
// the repository stores. Coordinates are [longitude, latitude] in WGS84; no
// reprojection is supported.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SRID is the coordinate reference system of every stored geometry.
const SRID = 4326

// ErrInvalidGeometry is wrapped by every decode failure: wrong geometry type,
// non-array coordinates, or a ring/point structure the geometry model rejects.
var ErrInvalidGeometry = errors.New("invalid geometry")

// DecodePoint parses a GeoJSON object that must be a Point.
func DecodePoint(raw json.RawMessage) (orb.Point, error) {
	g, err := decode(raw, "Point")
	if err != nil {
		return orb.Point{}, err
	}
	return g.(orb.Point), nil
}

// DecodePolygon parses a GeoJSON object that must be a Polygon with at least
// one closed ring of four or more positions.
func DecodePolygon(raw json.RawMessage) (orb.Polygon, error) {
	g, err := decode(raw, "Polygon")
	if err != nil {
		return nil, err
	}
	poly := g.(orb.Polygon)
	if len(poly) == 0 {
		return nil, fmt.Errorf("%w: polygon has no rings", ErrInvalidGeometry)
	}
	for _, ring := range poly {
		if len(ring) < 4 {
			return nil, fmt.Errorf("%w: polygon ring needs at least 4 positions", ErrInvalidGeometry)
		}
		if !ring.Closed() {
			return nil, fmt.Errorf("%w: polygon ring is not closed", ErrInvalidGeometry)
		}
	}
	return poly, nil
}

// Encode renders a geometry back to its GeoJSON object form. Coordinates come
// out as plain nested arrays, so encoding a decoded value reproduces the
// accepted input shape.
func Encode(g orb.Geometry) (json.RawMessage, error) {
	return json.Marshal(geojson.NewGeometry(g))
}

func decode(raw json.RawMessage, want string) (orb.Geometry, error) {
	var g geojson.Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	if g.Type != want {
		return nil, fmt.Errorf("%w: expected %s, got %q", ErrInvalidGeometry, want, g.Type)
	}
	if err := validateArity(raw, want); err != nil {
		return nil, err
	}
	geom := g.Geometry()
	if geom == nil {
		return nil, fmt.Errorf("%w: missing coordinates", ErrInvalidGeometry)
	}
	return geom, nil
}

// validateArity re-reads the raw coordinates structure. The geometry model
// fills positions into fixed-size arrays, which accepts too few or too many
// coordinates without complaint, so each position is checked here against
// exactly [longitude, latitude].
func validateArity(raw json.RawMessage, want string) error {
	var env struct {
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Coordinates) == 0 {
		return fmt.Errorf("%w: missing coordinates", ErrInvalidGeometry)
	}
	if want == "Point" {
		return validatePosition(env.Coordinates)
	}
	var rings [][]json.RawMessage
	if err := json.Unmarshal(env.Coordinates, &rings); err != nil {
		return fmt.Errorf("%w: coordinates are not an array of rings", ErrInvalidGeometry)
	}
	for _, ring := range rings {
		for _, pos := range ring {
			if err := validatePosition(pos); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatePosition(raw json.RawMessage) error {
	var pos []json.Number
	if err := json.Unmarshal(raw, &pos); err != nil {
		return fmt.Errorf("%w: position is not a numeric array", ErrInvalidGeometry)
	}
	if len(pos) != 2 {
		return fmt.Errorf("%w: position has %d coordinates, want 2", ErrInvalidGeometry, len(pos))
	}
	return nil
}
