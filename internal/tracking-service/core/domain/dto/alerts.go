package dto

import "time"

type RaiseEmergencyRequest struct {
	DriverID    string `json:"driver_id"`
	AlertType   string `json:"alert_type"`
	Priority    string `json:"priority,omitempty"`
	Description string `json:"description"`
}

type RaiseEmergencyResponse struct {
	AlertID   string    `json:"alert_id"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type AcknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledged_by"`
}

type ResolveRequest struct {
	ResolvedBy           string `json:"resolved_by"`
	Notes                string `json:"notes,omitempty"`
	AuthoritiesContacted bool   `json:"authorities_contacted,omitempty"`
}

type SpeedAlertView struct {
	AlertID          string     `json:"alert_id"`
	VehicleID        string     `json:"vehicle_id"`
	DriverID         string     `json:"driver_id"`
	AlertType        string     `json:"alert_type"`
	Severity         string     `json:"severity"`
	RecordedSpeedKmh float64    `json:"recorded_speed_kmh"`
	SpeedLimitKmh    float64    `json:"speed_limit_kmh"`
	LocationRecordID string     `json:"location_record_id"`
	Message          string     `json:"message"`
	IsAcknowledged   bool       `json:"is_acknowledged"`
	AcknowledgedBy   *string    `json:"acknowledged_by,omitempty"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type EmergencyAlertView struct {
	AlertID              string     `json:"alert_id"`
	VehicleID            string     `json:"vehicle_id"`
	DriverID             string     `json:"driver_id"`
	AlertType            string     `json:"alert_type"`
	Priority             string     `json:"priority"`
	LocationRecordID     string     `json:"location_record_id"`
	Description          string     `json:"description"`
	IsResolved           bool       `json:"is_resolved"`
	ResolvedBy           *string    `json:"resolved_by,omitempty"`
	ResolvedAt           *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes      string     `json:"resolution_notes,omitempty"`
	AuthoritiesContacted bool       `json:"authorities_contacted"`
	ResponseTimeMinutes  *int       `json:"response_time_minutes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}
