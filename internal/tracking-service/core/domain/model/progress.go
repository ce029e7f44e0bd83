package model

import "time"

// Route progress statuses
const (
	ProgressNotStarted = "not_started"
	ProgressInTransit  = "in_transit"
	ProgressDelayed    = "delayed"
	ProgressArrived    = "arrived"
	ProgressCancelled  = "cancelled"
)

// RouteProgress tracks one vehicle's current journey along a route. The
// external routing collaborator supplies distance-covered updates.
type RouteProgress struct {
	ProgressID         string
	VehicleID          string
	RouteID            string
	JourneyStartTime   time.Time
	EstimatedArrival   *time.Time
	ActualArrival      *time.Time
	DistanceCoveredKm  float64
	TotalDistanceKm    float64
	ProgressPercentage float64
	Status             string
	DelayMinutes       int
	DelayReason        string
	UpdatedAt          time.Time
}

// CalculateProgress recomputes the percentage, clamped to [0,100]. A route
// with zero total distance reports zero progress.
func (rp *RouteProgress) CalculateProgress() float64 {
	if rp.TotalDistanceKm > 0 {
		pct := (rp.DistanceCoveredKm / rp.TotalDistanceKm) * 100
		if pct > 100 {
			pct = 100
		}
		rp.ProgressPercentage = pct
	} else {
		rp.ProgressPercentage = 0
	}
	return rp.ProgressPercentage
}
