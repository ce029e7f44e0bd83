package services

import (
	"math"

	"bus-track/internal/tracking-service/core/domain/model"
)

const earthRadiusMeters = 6371000

// HaversineMeters returns the great-circle distance between two points in
// meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// InsideGeofence checks whether the coordinates fall inside the circular area.
func InsideGeofence(area model.GeofenceArea, lat, lon float64) bool {
	dist := HaversineMeters(area.CenterLatitude, area.CenterLongitude, lat, lon)
	return dist <= area.RadiusMeters
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
