package model

import "time"

// Vehicle is owned by fleet management. The tracking core reads it and keeps
// the cached last-known-position columns current.
type Vehicle struct {
	VehicleID     string
	VehicleNumber string
	VehicleName   string
	Capacity      int
	IsActive      bool
	RouteID       *string
	RouteName     *string

	CurrentLatitude    *float64
	CurrentLongitude   *float64
	LastLocationUpdate *time.Time
}

// Driver has at most one assigned vehicle at a time. Current location and
// speed are always derived through the assigned vehicle's latest record.
type Driver struct {
	DriverID          string
	FullName          string
	LicenseNumber     string
	PhoneNumber       string
	IsActive          bool
	AssignedVehicleID *string
}

// Device is a registered GPS unit. The key hash is a bcrypt digest of the
// device's submit key.
type Device struct {
	DeviceID  string
	VehicleID string
	KeyHash   string
	IsActive  bool
}
