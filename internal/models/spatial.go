package models

import "encoding/json"

// Point represents a named point of interest. Location is a GeoJSON Point
// object ([longitude, latitude], WGS84).
type Point struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Location    json.RawMessage `json:"location"`
}

// Polygon represents a named region. Area is a GeoJSON Polygon object, WGS84.
type Polygon struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Area        json.RawMessage `json:"area"`
}
