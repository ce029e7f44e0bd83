package model

// GeofenceArea is a circular monitored region. Containment is a haversine
// distance check against the center; entry/exit detection needs the previous
// containment state per vehicle, kept in GeofenceState.
type GeofenceArea struct {
	GeofenceID      string
	Name            string
	Description     string
	CenterLatitude  float64
	CenterLongitude float64
	RadiusMeters    float64
	AreaType        string
	IsActive        bool
	AlertOnEntry    bool
	AlertOnExit     bool
	SpeedLimitKmh   *float64
}

// Geofence area types
const (
	AreaTerminal     = "terminal"
	AreaSchoolZone   = "school_zone"
	AreaHospitalZone = "hospital_zone"
	AreaResidential  = "residential"
	AreaHighway      = "highway"
	AreaMaintenance  = "maintenance"
)

// GeofenceState is the last observed containment of a vehicle in one area.
// A single snapshot cannot distinguish entry from "still inside".
type GeofenceState struct {
	VehicleID  string
	GeofenceID string
	Inside     bool
}
