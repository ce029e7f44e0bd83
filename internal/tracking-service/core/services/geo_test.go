package services

import (
	"testing"

	"bus-track/internal/tracking-service/core/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Zero(t, HaversineMeters(8.4657, -13.2317, 8.4657, -13.2317))
	})

	t.Run("short hop near Freetown is about half a kilometer", func(t *testing.T) {
		d := HaversineMeters(8.4657, -13.2317, 8.4700, -13.2300)
		assert.InDelta(t, 513, d, 25)
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		d := HaversineMeters(0, 0, 1, 0)
		assert.InDelta(t, 111195, d, 200)
	})
}

func TestInsideGeofence(t *testing.T) {
	terminal := model.GeofenceArea{
		GeofenceID:      "gf-1",
		Name:            "Freetown Terminal",
		CenterLatitude:  8.4657,
		CenterLongitude: -13.2317,
		RadiusMeters:    5000,
		IsActive:        true,
	}

	t.Run("nearby point is inside", func(t *testing.T) {
		assert.True(t, InsideGeofence(terminal, 8.4700, -13.2300))
	})

	t.Run("center is inside", func(t *testing.T) {
		assert.True(t, InsideGeofence(terminal, 8.4657, -13.2317))
	})

	t.Run("point 50km north is outside", func(t *testing.T) {
		assert.False(t, InsideGeofence(terminal, 8.9157, -13.2317))
	})
}
