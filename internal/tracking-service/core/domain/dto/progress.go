package dto

import "time"

type RecordProgressRequest struct {
	RouteID           string     `json:"route_id"`
	DistanceCoveredKm float64    `json:"distance_covered_km"`
	TotalDistanceKm   float64    `json:"total_distance_km"`
	EstimatedArrival  *time.Time `json:"estimated_arrival,omitempty"`
	DelayMinutes      int        `json:"delay_minutes,omitempty"`
	DelayReason       string     `json:"delay_reason,omitempty"`
	Status            string     `json:"status,omitempty"`
}

type ProgressView struct {
	VehicleID          string     `json:"vehicle_id"`
	RouteID            string     `json:"route_id"`
	JourneyStartTime   time.Time  `json:"journey_start_time"`
	EstimatedArrival   *time.Time `json:"estimated_arrival,omitempty"`
	ActualArrival      *time.Time `json:"actual_arrival,omitempty"`
	DistanceCoveredKm  float64    `json:"distance_covered_km"`
	TotalDistanceKm    float64    `json:"total_distance_km"`
	ProgressPercentage float64    `json:"progress_percentage"`
	Status             string     `json:"status"`
	DelayMinutes       int        `json:"delay_minutes"`
	DelayReason        string     `json:"delay_reason,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
