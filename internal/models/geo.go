package models

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

var (
	ErrInvalidLocation        = errors.New("invalid location data")
	ErrInvalidCoordinateValue = errors.New("invalid coordinate values")
)

// GeoPoint is a GeoJSON Point as stored in 2dsphere-indexed fields.
// Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a Point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lng returns the longitude component.
func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) < 1 {
		return 0
	}
	return p.Coordinates[0]
}

// Lat returns the latitude component.
func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// ParseGeoPoint parses a pickup location that arrives either as a structured
// GeoJSON object or as that object serialized into a JSON string (the booking
// form posts it stringified). Missing or malformed shapes yield
// ErrInvalidLocation; coordinate elements that cannot be read as finite
// numbers yield ErrInvalidCoordinateValue.
func ParseGeoPoint(raw json.RawMessage) (GeoPoint, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return GeoPoint{}, ErrInvalidLocation
	}

	// Unwrap a string-encoded payload first.
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		raw = json.RawMessage(nested)
	}

	var loc struct {
		Type        string            `json:"type"`
		Coordinates []json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &loc); err != nil {
		return GeoPoint{}, ErrInvalidLocation
	}
	return parseCoordinatePair(loc.Coordinates)
}

// ParseCoordinates validates a bare [longitude, latitude] array, used by the
// ambulance location update payload.
func ParseCoordinates(raw []json.RawMessage) (GeoPoint, error) {
	return parseCoordinatePair(raw)
}

func parseCoordinatePair(coords []json.RawMessage) (GeoPoint, error) {
	if len(coords) != 2 {
		return GeoPoint{}, ErrInvalidLocation
	}
	lng, err := parseCoordinate(coords[0])
	if err != nil {
		return GeoPoint{}, err
	}
	lat, err := parseCoordinate(coords[1])
	if err != nil {
		return GeoPoint{}, err
	}
	return NewGeoPoint(lng, lat), nil
}

// parseCoordinate accepts JSON numbers and numeric strings ("77.59"), matching
// the lenient parseFloat handling of the booking form clients.
func parseCoordinate(raw json.RawMessage) (float64, error) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if math.IsNaN(num) || math.IsInf(num, 0) {
			return 0, ErrInvalidCoordinateValue
		}
		return num, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, ErrInvalidCoordinateValue
	}
	num, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, ErrInvalidCoordinateValue
	}
	return num, nil
}

const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(a, b GeoPoint) float64 {
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLng := (b.Lng() - a.Lng()) * math.Pi / 180
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return earthRadiusMeters * c
}
