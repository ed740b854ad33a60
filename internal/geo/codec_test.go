package geo

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePoint(t *testing.T) {
	t.Parallel()

	pt, err := DecodePoint(json.RawMessage(`{"type":"Point","coordinates":[77.0365,38.8977]}`))
	require.NoError(t, err)
	assert.Equal(t, orb.Point{77.0365, 38.8977}, pt)
}

func TestDecodePoint_WrongType(t *testing.T) {
	t.Parallel()

	_, err := DecodePoint(json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestDecodePoint_MalformedCoordinates(t *testing.T) {
	t.Parallel()

	for name, raw := range map[string]string{
		"object coordinates": `{"type":"Point","coordinates":{"x":1}}`,
		"missing coordinates": `{"type":"Point"}`,
		"not json":            `not json`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePoint(json.RawMessage(raw))
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestDecodePoint_WrongArity(t *testing.T) {
	t.Parallel()

	for name, raw := range map[string]string{
		"empty position":   `{"type":"Point","coordinates":[]}`,
		"single value":     `{"type":"Point","coordinates":[77]}`,
		"extra dimension":  `{"type":"Point","coordinates":[77.0365,38.8977,120]}`,
		"string values":    `{"type":"Point","coordinates":["77","38.9"]}`,
		"null coordinates": `{"type":"Point","coordinates":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePoint(json.RawMessage(raw))
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestDecodePolygon(t *testing.T) {
	t.Parallel()

	poly, err := DecodePolygon(json.RawMessage(
		`{"type":"Polygon","coordinates":[[[77.0,38.9],[77.1,38.9],[77.1,39.0],[77.0,39.0],[77.0,38.9]]]}`))
	require.NoError(t, err)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)
}

func TestDecodePolygon_UnclosedRing(t *testing.T) {
	t.Parallel()

	_, err := DecodePolygon(json.RawMessage(
		`{"type":"Polygon","coordinates":[[[77.0,38.9],[77.1,38.9],[77.1,39.0],[77.0,39.0]]]}`))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestDecodePolygon_ShortRing(t *testing.T) {
	t.Parallel()

	_, err := DecodePolygon(json.RawMessage(
		`{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]}`))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestDecodePolygon_WrongArity(t *testing.T) {
	t.Parallel()

	for name, raw := range map[string]string{
		"3d position":    `{"type":"Polygon","coordinates":[[[77,38.9,1],[77.1,38.9,1],[77.1,39,1],[77,38.9,1]]]}`,
		"short position": `{"type":"Polygon","coordinates":[[[77],[77.1],[77.1],[77]]]}`,
		"flat ring":      `{"type":"Polygon","coordinates":[[77,38.9,77.1,39]]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePolygon(json.RawMessage(raw))
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestDecodePolygon_NoRings(t *testing.T) {
	t.Parallel()

	_, err := DecodePolygon(json.RawMessage(`{"type":"Polygon","coordinates":[]}`))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

// Encoding a decoded geometry must reproduce the accepted input shape:
// coordinates as nested numeric arrays.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []string{
		`{"type":"Point","coordinates":[77.0365,38.8977]}`,
		`{"type":"Polygon","coordinates":[[[77,38.9],[77.1,38.9],[77.1,39],[77,39],[77,38.9]]]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,4],[0,0]],[[1,1],[2,1],[2,2],[1,2],[1,1]]]}`,
	}
	for _, raw := range cases {
		var want interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &want))

		var encoded json.RawMessage
		if want.(map[string]interface{})["type"] == "Point" {
			pt, err := DecodePoint(json.RawMessage(raw))
			require.NoError(t, err)
			encoded, err = Encode(pt)
			require.NoError(t, err)
		} else {
			poly, err := DecodePolygon(json.RawMessage(raw))
			require.NoError(t, err)
			encoded, err = Encode(poly)
			require.NoError(t, err)
		}

		var got interface{}
		require.NoError(t, json.Unmarshal(encoded, &got))
		assert.Equal(t, want, got, "round trip changed %s", raw)
	}
}
