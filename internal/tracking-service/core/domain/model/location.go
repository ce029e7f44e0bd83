package model

import "time"

// LocationRecord is one immutable GPS fix for a vehicle. Records are only ever
// inserted; the vehicle's cached position is a projection of the newest one.
type LocationRecord struct {
	RecordID       string
	VehicleID      string
	Latitude       float64
	Longitude      float64
	AltitudeMeters *float64
	SpeedKmh       float64
	HeadingDegrees *float64
	AccuracyMeters *float64

	IsMoving     bool
	IsAtTerminal bool
	TerminalName string

	DeviceID     string
	BatteryLevel *int
	Timestamp    time.Time
}
