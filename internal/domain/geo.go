package domain

import (
	"context"
	"fmt"
	"strings"
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates are within the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// ParseCoordinates parses a latitude/longitude pair and checks the ranges.
func ParseCoordinates(lat, lng Degrees) (Coordinates, error) {
	la, err := lat.Float()
	if err != nil {
		return Coordinates{}, fmt.Errorf("latitude: %w", err)
	}
	lo, err := lng.Float()
	if err != nil {
		return Coordinates{}, fmt.Errorf("longitude: %w", err)
	}
	c := Coordinates{Latitude: la, Longitude: lo}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("coordinates (%g, %g) out of range: %w", la, lo, ErrInvalidInput)
	}
	return c, nil
}

// Placemark is one reverse-geocoding result.
type Placemark struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// FormatAddress renders a placemark as "street, city, region, country". Missing parts
// stay empty so the separators are always present.
func FormatAddress(p Placemark) string {
	return strings.Join([]string{p.Street, p.City, p.Region, p.Country}, ", ")
}

// Geocoder resolves coordinates to placemarks, best match first.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c Coordinates) ([]Placemark, error)
}

// ProximityGate decides whether a user is close enough to an event to submit a photo.
type ProximityGate interface {
	// Check returns the distance in meters and whether it is within the allowed radius.
	Check(user, event Coordinates) (distance float64, ok bool)
	Radius() float64
}
