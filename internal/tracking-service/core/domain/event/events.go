package event

import "time"

// Payloads published on the tracking_topic exchange. Routing keys:
//
//	location.updated.<vehicle_id>
//	alert.speed.<severity>
//	alert.emergency.<priority>
//	geofence.entered / geofence.exited
type LocationUpdated struct {
	RecordID  string    `json:"record_id"`
	VehicleID string    `json:"vehicle_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	SpeedKmh  float64   `json:"speed_kmh"`
	IsMoving  bool      `json:"is_moving"`
	Timestamp time.Time `json:"timestamp"`
}

type SpeedAlertRaised struct {
	AlertID          string    `json:"alert_id"`
	VehicleID        string    `json:"vehicle_id"`
	DriverID         string    `json:"driver_id"`
	AlertType        string    `json:"alert_type"`
	Severity         string    `json:"severity"`
	RecordedSpeedKmh float64   `json:"recorded_speed_kmh"`
	SpeedLimitKmh    float64   `json:"speed_limit_kmh"`
	CreatedAt        time.Time `json:"created_at"`
}

type EmergencyRaised struct {
	AlertID     string    `json:"alert_id"`
	VehicleID   string    `json:"vehicle_id"`
	DriverID    string    `json:"driver_id"`
	AlertType   string    `json:"alert_type"`
	Priority    string    `json:"priority"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type GeofenceTransition struct {
	VehicleID    string    `json:"vehicle_id"`
	GeofenceID   string    `json:"geofence_id"`
	GeofenceName string    `json:"geofence_name"`
	Entered      bool      `json:"entered"`
	Timestamp    time.Time `json:"timestamp"`
}
