package dto

import "time"

// SubmitLocationRequest is the wire shape shared by both ingestion entry
// points (trusted device and authenticated driver).
type SubmitLocationRequest struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	SpeedKmh       float64  `json:"speed_kmh"`
	HeadingDegrees *float64 `json:"heading_degrees,omitempty"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
	AltitudeMeters *float64 `json:"altitude_meters,omitempty"`
	DeviceID       string   `json:"device_id,omitempty"`
	BatteryLevel   *int     `json:"battery_level,omitempty"`
	IsAtTerminal   bool     `json:"is_at_terminal,omitempty"`
	TerminalName   string   `json:"terminal_name,omitempty"`
}

type SubmitLocationResponse struct {
	RecordID      string    `json:"record_id"`
	VehicleNumber string    `json:"vehicle_number"`
	Timestamp     time.Time `json:"timestamp"`
}

// PositionsFilter narrows the fleet view.
type PositionsFilter struct {
	ActiveOnly    bool
	RouteID       string
	VehicleNumber string
}

// VehicleSnapshot is the decorated latest position for one vehicle.
type VehicleSnapshot struct {
	VehicleID     string    `json:"vehicle_id"`
	VehicleNumber string    `json:"vehicle_number"`
	VehicleName   string    `json:"vehicle_name"`
	RouteID       string    `json:"route_id,omitempty"`
	RouteName     string    `json:"route_name,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	SpeedKmh      float64   `json:"speed_kmh"`
	HeadingDeg    float64   `json:"heading_degrees"`
	Timestamp     time.Time `json:"timestamp"`
	IsMoving      bool      `json:"is_moving"`
	IsOnline      bool      `json:"is_online"`
	MinutesAgo    int       `json:"minutes_ago"`
}

type PositionsResponse struct {
	Buses       []VehicleSnapshot `json:"buses"`
	TotalBuses  int               `json:"total_buses"`
	OnlineBuses int               `json:"online_buses"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type HistoryEntry struct {
	RecordID   string    `json:"record_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	SpeedKmh   float64   `json:"speed_kmh"`
	HeadingDeg *float64  `json:"heading_degrees,omitempty"`
	IsMoving   bool      `json:"is_moving"`
	Timestamp  time.Time `json:"timestamp"`
}

type FleetSummary struct {
	TotalVehicles        int `json:"total_vehicles"`
	OnlineVehicles       int `json:"online_vehicles"`
	MovingVehicles       int `json:"moving_vehicles"`
	OutstandingSpeed     int `json:"outstanding_speed_alerts"`
	OutstandingEmergency int `json:"outstanding_emergency_alerts"`
}
