package domain

import (
	"math"

	"github.com/golang/geo/s2"
)

// Earth's mean radius, used for great-circle math.
const earthRadiusMeters = 6371000.0

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lng, lat] for external API compatibility
// (ORS and GeoJSON order longitude first).
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

// Valid reports whether the coordinates are finite and within
// lat [-90,90], lng [-180,180].
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// HaversineMeters returns the great-circle distance to other, in meters.
func (c Coordinates) HaversineMeters(other Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(c.Lat, c.Lng)
	p2 := s2.LatLngFromDegrees(other.Lat, other.Lng)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

// NormalizeCoordinates converts heterogeneous location encodings into
// canonical coordinates. Accepted shapes (typically produced by decoding
// JSON into any):
//
//   - [lat, lng] pair of numbers
//   - {"lat": .., "lng": ..}
//   - {"latitude": .., "longitude": ..}
//   - GeoJSON-style {"coordinates": [lng, lat]}
//
// It never panics; anything that cannot be resolved to valid coordinates
// yields nil and the caller must exclude that entity from routing.
func NormalizeCoordinates(raw any) *Coordinates {
	switch v := raw.(type) {
	case nil:
		return nil
	case Coordinates:
		return validated(v.Lat, v.Lng)
	case *Coordinates:
		if v == nil {
			return nil
		}
		return validated(v.Lat, v.Lng)
	case [2]float64:
		return validated(v[0], v[1])
	case []float64:
		if len(v) != 2 {
			return nil
		}
		return validated(v[0], v[1])
	case []any:
		if len(v) != 2 {
			return nil
		}
		lat, ok1 := asFloat(v[0])
		lng, ok2 := asFloat(v[1])
		if !ok1 || !ok2 {
			return nil
		}
		return validated(lat, lng)
	case map[string]any:
		if lat, ok1 := asFloat(v["lat"]); ok1 {
			if lng, ok2 := asFloat(v["lng"]); ok2 {
				return validated(lat, lng)
			}
		}
		if lat, ok1 := asFloat(v["latitude"]); ok1 {
			if lng, ok2 := asFloat(v["longitude"]); ok2 {
				return validated(lat, lng)
			}
		}
		// GeoJSON geometry carries [lng, lat].
		if coords, ok := v["coordinates"].([]any); ok && len(coords) == 2 {
			lng, ok1 := asFloat(coords[0])
			lat, ok2 := asFloat(coords[1])
			if ok1 && ok2 {
				return validated(lat, lng)
			}
		}
		return nil
	default:
		return nil
	}
}

func validated(lat, lng float64) *Coordinates {
	c := Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return nil
	}
	return &c
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
