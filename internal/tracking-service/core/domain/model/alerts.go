package model

import "time"

// Speed alert types
const (
	SpeedAlertOverspeed         = "overspeed"
	SpeedAlertReckless          = "reckless"
	SpeedAlertSuddenBrake       = "sudden_brake"
	SpeedAlertRapidAcceleration = "rapid_acceleration"
	SpeedAlertIdleTooLong       = "idle_too_long"
)

// Severities, escalating with the margin over the limit
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Emergency alert types
const (
	EmergencyPanic     = "panic"
	EmergencyBreakdown = "breakdown"
	EmergencyAccident  = "accident"
	EmergencyMedical   = "medical"
	EmergencySecurity  = "security"
	EmergencyFire      = "fire"
)

// SpeedAlert is raised by the alert engine when a record crosses a speed rule.
// It always references the record that triggered it. Acknowledgement is a
// one-shot transition.
type SpeedAlert struct {
	AlertID          string
	VehicleID        string
	DriverID         string
	AlertType        string
	Severity         string
	RecordedSpeedKmh float64
	SpeedLimitKmh    float64
	LocationRecordID string
	Message          string

	IsAcknowledged bool
	AcknowledgedBy *string
	AcknowledgedAt *time.Time

	CreatedAt time.Time
}

// EmergencyAlert is raised explicitly, never derived from thresholds.
// Resolution is a one-shot transition; the response time is computed exactly
// once, at that transition.
type EmergencyAlert struct {
	AlertID          string
	VehicleID        string
	DriverID         string
	AlertType        string
	Priority         string
	LocationRecordID string
	Description      string

	IsResolved           bool
	ResolvedBy           *string
	ResolvedAt           *time.Time
	ResolutionNotes      string
	AuthoritiesContacted bool
	ResponseTimeMinutes  *int

	CreatedAt time.Time
}

func ValidEmergencyType(t string) bool {
	switch t {
	case EmergencyPanic, EmergencyBreakdown, EmergencyAccident,
		EmergencyMedical, EmergencySecurity, EmergencyFire:
		return true
	}
	return false
}
