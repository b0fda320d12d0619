package services

import (
	"math"

	"riconnect/internal/domain"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
	EarthRadiusMeters = 6371e3
	// DefaultProximityRadius is how close, in meters, a user must be to submit a photo.
	DefaultProximityRadius = 100.0
)

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b domain.Coordinates) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	dPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	dLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	h = math.Min(1, h)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

type proximityGate struct {
	radius float64
}

// NewProximityGate returns a gate admitting users within radius meters (inclusive).
// A non-positive radius uses DefaultProximityRadius.
func NewProximityGate(radius float64) domain.ProximityGate {
	if radius <= 0 {
		radius = DefaultProximityRadius
	}
	return &proximityGate{radius: radius}
}

func (g *proximityGate) Check(user, event domain.Coordinates) (float64, bool) {
	d := Distance(user, event)
	return d, d <= g.radius
}

func (g *proximityGate) Radius() float64 { return g.radius }
