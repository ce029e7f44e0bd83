package driven

import (
	"context"
	"time"

	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/model"
)

// ILocationRepo owns the append-only history and its latest-position
// projection on the vehicle row.
type ILocationRepo interface {
	// InsertWithProjection writes the record and updates the vehicle's cached
	// position in one transaction scoped to the vehicle. The last committed
	// transaction wins under concurrent writers.
	InsertWithProjection(ctx context.Context, rec model.LocationRecord) (time.Time, error)
	LatestByVehicle(ctx context.Context, vehicleID string) (*model.LocationRecord, error)
	HistoryByVehicle(ctx context.Context, vehicleID string, limit int) ([]model.LocationRecord, error)
}

type IVehicleRepo interface {
	ByID(ctx context.Context, vehicleID string) (model.Vehicle, error)
	List(ctx context.Context, filter dto.PositionsFilter) ([]model.Vehicle, error)
}

type IDriverRepo interface {
	ByID(ctx context.Context, driverID string) (model.Driver, error)
	ByAssignedVehicle(ctx context.Context, vehicleID string) (*model.Driver, error)
}

type IDeviceRepo interface {
	ByID(ctx context.Context, deviceID string) (model.Device, error)
}

type IAlertRepo interface {
	// InsertSpeedAlert is idempotent per (location_record_id, alert_type);
	// it reports whether a new row was actually created.
	InsertSpeedAlert(ctx context.Context, a model.SpeedAlert) (bool, error)
	InsertEmergencyAlert(ctx context.Context, a model.EmergencyAlert) error

	SpeedAlertByID(ctx context.Context, alertID string) (model.SpeedAlert, error)
	EmergencyAlertByID(ctx context.Context, alertID string) (model.EmergencyAlert, error)

	AcknowledgeSpeedAlert(ctx context.Context, alertID, actor string, at time.Time) error
	ResolveEmergencyAlert(ctx context.Context, alertID, actor, notes string, authoritiesContacted bool, at time.Time, responseMinutes int) error

	ListSpeedAlerts(ctx context.Context, outstandingOnly bool) ([]model.SpeedAlert, error)
	ListEmergencyAlerts(ctx context.Context, outstandingOnly bool) ([]model.EmergencyAlert, error)
	CountOutstanding(ctx context.Context) (speed int, emergency int, err error)
}

type IGeofenceRepo interface {
	ActiveAreas(ctx context.Context) ([]model.GeofenceArea, error)
	// ContainmentState returns the stored state, nil when the pair has never
	// been seen.
	ContainmentState(ctx context.Context, vehicleID, geofenceID string) (*model.GeofenceState, error)
	SetContainmentState(ctx context.Context, st model.GeofenceState) error
}

type IProgressRepo interface {
	Upsert(ctx context.Context, p model.RouteProgress) error
	ByVehicle(ctx context.Context, vehicleID string) (*model.RouteProgress, error)
}
