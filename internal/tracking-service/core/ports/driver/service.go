package driver

import (
	"context"

	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/model"
)

// ITrackingService is the ingestion gateway. Both entry variants converge on
// the same acceptance logic once a vehicle id is resolved.
type ITrackingService interface {
	SubmitByVehicle(ctx context.Context, vehicleID, deviceKey string, req dto.SubmitLocationRequest) (dto.SubmitLocationResponse, error)
	SubmitByDriver(ctx context.Context, driverID string, req dto.SubmitLocationRequest) (dto.SubmitLocationResponse, error)
}

type IAlertService interface {
	Evaluate(ctx context.Context, rec model.LocationRecord) error
	RaiseEmergency(ctx context.Context, vehicleID string, req dto.RaiseEmergencyRequest) (dto.RaiseEmergencyResponse, error)
	AcknowledgeSpeedAlert(ctx context.Context, alertID, actor string) (dto.SpeedAlertView, error)
	ResolveEmergencyAlert(ctx context.Context, alertID string, req dto.ResolveRequest) (dto.EmergencyAlertView, error)
	SpeedAlerts(ctx context.Context, outstandingOnly bool) ([]dto.SpeedAlertView, error)
	EmergencyAlerts(ctx context.Context, outstandingOnly bool) ([]dto.EmergencyAlertView, error)
}

type IQueryService interface {
	LatestPositions(ctx context.Context, filter dto.PositionsFilter) (dto.PositionsResponse, error)
	History(ctx context.Context, vehicleID string, limit int) ([]dto.HistoryEntry, error)
	FleetSummary(ctx context.Context) (dto.FleetSummary, error)
}

type IProgressService interface {
	RecordProgress(ctx context.Context, vehicleID string, req dto.RecordProgressRequest) (dto.ProgressView, error)
	GetProgress(ctx context.Context, vehicleID string) (dto.ProgressView, error)
}
