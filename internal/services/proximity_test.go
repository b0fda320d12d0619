package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"riconnect/internal/domain"
)

func TestDistance(t *testing.T) {
	origin := domain.Coordinates{}
	assert.InDelta(t, 0, Distance(origin, origin), 1e-9)
	assert.InDelta(t, 1112, Distance(origin, domain.Coordinates{Longitude: 0.01}), 1)
	// Rijeka Korzo to Trsat, roughly 1.5 km.
	korzo := domain.Coordinates{Latitude: 45.3271, Longitude: 14.4422}
	trsat := domain.Coordinates{Latitude: 45.3325, Longitude: 14.4593}
	assert.InDelta(t, 1460, Distance(korzo, trsat), 60)
	assert.InDelta(t, Distance(korzo, trsat), Distance(trsat, korzo), 1e-6)
}

func TestProximityGate(t *testing.T) {
	gate := NewProximityGate(100)
	event := domain.Coordinates{Latitude: 45.3271, Longitude: 14.4422}

	d, ok := gate.Check(event, event)
	assert.True(t, ok)
	assert.Zero(t, d)

	_, ok = gate.Check(domain.Coordinates{}, domain.Coordinates{Longitude: 0.01})
	assert.False(t, ok)

	// About 55 m north.
	d, ok = gate.Check(domain.Coordinates{Latitude: 45.3276, Longitude: 14.4422}, event)
	assert.True(t, ok)
	assert.InDelta(t, 55.6, d, 1)

	assert.Equal(t, 100.0, gate.Radius())
	assert.Equal(t, DefaultProximityRadius, NewProximityGate(0).Radius())
}
