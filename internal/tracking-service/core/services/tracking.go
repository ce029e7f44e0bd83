package services

import (
	"context"
	"encoding/json"
	"fmt"

	"bus-track/internal/config"
	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/event"
	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"
	"bus-track/internal/tracking-service/core/ports/driven"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const trackingExchangeName = "tracking_topic"

// TrackingService is the ingestion gateway. It validates reports, persists
// them through the location store and hands accepted records to the alert
// engine. Broker, feed and cache writes are best-effort side channels; a
// failure there never fails an accepted report.
type TrackingService struct {
	cfg      *config.Trackingconfig
	log      mylogger.Logger
	status   *StatusDeriver
	alerts   *AlertService
	vehicles driven.IVehicleRepo
	drivers  driven.IDriverRepo
	devices  driven.IDeviceRepo
	records  driven.ILocationRepo
	broker   driven.ITrackingBroker
	feed     driven.IFeed
	cache    driven.ISnapshotCache
}

func NewTrackingService(
	cfg *config.Trackingconfig,
	log mylogger.Logger,
	status *StatusDeriver,
	alerts *AlertService,
	vehicles driven.IVehicleRepo,
	drivers driven.IDriverRepo,
	devices driven.IDeviceRepo,
	records driven.ILocationRepo,
	broker driven.ITrackingBroker,
	feed driven.IFeed,
	cache driven.ISnapshotCache,
) *TrackingService {
	return &TrackingService{
		cfg:      cfg,
		log:      log,
		status:   status,
		alerts:   alerts,
		vehicles: vehicles,
		drivers:  drivers,
		devices:  devices,
		records:  records,
		broker:   broker,
		feed:     feed,
		cache:    cache,
	}
}

// SubmitByVehicle is the trusted-device entry point. When the report carries a
// device id the device must be registered to the submitted vehicle and its key
// must match the registry's bcrypt hash; reports without a device id are
// treated as trusted integration calls.
func (ts *TrackingService) SubmitByVehicle(ctx context.Context, vehicleID, deviceKey string, req dto.SubmitLocationRequest) (dto.SubmitLocationResponse, error) {
	if err := validateReport(req); err != nil {
		return dto.SubmitLocationResponse{}, err
	}

	vehicle, err := ts.vehicles.ByID(ctx, vehicleID)
	if err != nil {
		return dto.SubmitLocationResponse{}, err
	}
	if !vehicle.IsActive {
		return dto.SubmitLocationResponse{}, myerrors.ErrVehicleInactive
	}

	if req.DeviceID != "" {
		device, err := ts.devices.ByID(ctx, req.DeviceID)
		if err != nil {
			return dto.SubmitLocationResponse{}, err
		}
		// A device may only report for the vehicle it is registered to.
		if device.VehicleID != vehicle.VehicleID {
			return dto.SubmitLocationResponse{}, myerrors.ErrBadDeviceKey
		}
		if bcrypt.CompareHashAndPassword([]byte(device.KeyHash), []byte(deviceKey)) != nil {
			return dto.SubmitLocationResponse{}, myerrors.ErrBadDeviceKey
		}
	}

	return ts.accept(ctx, vehicle, req)
}

// SubmitByDriver resolves the authenticated driver's assigned vehicle and
// converges on the same acceptance logic.
func (ts *TrackingService) SubmitByDriver(ctx context.Context, driverID string, req dto.SubmitLocationRequest) (dto.SubmitLocationResponse, error) {
	if err := validateReport(req); err != nil {
		return dto.SubmitLocationResponse{}, err
	}

	drv, err := ts.drivers.ByID(ctx, driverID)
	if err != nil {
		return dto.SubmitLocationResponse{}, err
	}
	if !drv.IsActive {
		return dto.SubmitLocationResponse{}, myerrors.ErrDriverInactive
	}
	if drv.AssignedVehicleID == nil {
		return dto.SubmitLocationResponse{}, myerrors.ErrNoVehicleAssigned
	}

	vehicle, err := ts.vehicles.ByID(ctx, *drv.AssignedVehicleID)
	if err != nil {
		return dto.SubmitLocationResponse{}, err
	}
	if !vehicle.IsActive {
		return dto.SubmitLocationResponse{}, myerrors.ErrVehicleInactive
	}

	return ts.accept(ctx, vehicle, req)
}

// accept persists the record, then runs the post-commit side effects. The
// history insert and the cached-position update commit together; everything
// after the commit is at-least-once and self-healing.
func (ts *TrackingService) accept(ctx context.Context, vehicle model.Vehicle, req dto.SubmitLocationRequest) (dto.SubmitLocationResponse, error) {
	rec := model.LocationRecord{
		RecordID:       uuid.NewString(),
		VehicleID:      vehicle.VehicleID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AltitudeMeters: req.AltitudeMeters,
		SpeedKmh:       req.SpeedKmh,
		HeadingDegrees: req.HeadingDegrees,
		AccuracyMeters: req.AccuracyMeters,
		IsMoving:       ts.status.IsMoving(req.SpeedKmh),
		IsAtTerminal:   req.IsAtTerminal,
		TerminalName:   req.TerminalName,
		DeviceID:       req.DeviceID,
		BatteryLevel:   req.BatteryLevel,
	}

	if rec.AccuracyMeters != nil && *rec.AccuracyMeters > ts.cfg.MaxAccuracyMeters {
		ts.log.Action("submit_location").Warn("implausible accuracy discarded",
			"vehicle_id", vehicle.VehicleID, "accuracy_meters", *rec.AccuracyMeters)
		rec.AccuracyMeters = nil
	}

	ts.log.Action("submit_location").Debug("accepting report",
		"vehicle_id", vehicle.VehicleID, "speed_kmh", rec.SpeedKmh)

	storedAt, err := ts.records.InsertWithProjection(ctx, rec)
	if err != nil {
		return dto.SubmitLocationResponse{}, fmt.Errorf("persist location: %w", err)
	}
	rec.Timestamp = storedAt

	if err := ts.alerts.Evaluate(ctx, rec); err != nil {
		// The record stands; evaluation is idempotent per record and can be
		// replayed.
		ts.log.Action("submit_location").Error("alert evaluation failed", err,
			"record_id", rec.RecordID)
	}

	ts.publishAndBroadcast(ctx, vehicle, rec)

	if err := ts.cache.Invalidate(ctx, vehicle.VehicleID); err != nil {
		ts.log.Action("submit_location").Warn("snapshot cache invalidation failed",
			"vehicle_id", vehicle.VehicleID)
	}

	return dto.SubmitLocationResponse{
		RecordID:      rec.RecordID,
		VehicleNumber: vehicle.VehicleNumber,
		Timestamp:     storedAt,
	}, nil
}

func (ts *TrackingService) publishAndBroadcast(ctx context.Context, vehicle model.Vehicle, rec model.LocationRecord) {
	ev := event.LocationUpdated{
		RecordID:  rec.RecordID,
		VehicleID: rec.VehicleID,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		SpeedKmh:  rec.SpeedKmh,
		IsMoving:  rec.IsMoving,
		Timestamp: rec.Timestamp,
	}
	routingKey := fmt.Sprintf("location.updated.%s", rec.VehicleID)
	if err := ts.broker.PublishJSON(ctx, trackingExchangeName, routingKey, ev); err != nil {
		ts.log.Action("publish_location").Error("failed to publish location event", err,
			"record_id", rec.RecordID)
	}

	snap := dto.VehicleSnapshot{
		VehicleID:     vehicle.VehicleID,
		VehicleNumber: vehicle.VehicleNumber,
		VehicleName:   vehicle.VehicleName,
		Latitude:      rec.Latitude,
		Longitude:     rec.Longitude,
		SpeedKmh:      rec.SpeedKmh,
		Timestamp:     rec.Timestamp,
		IsMoving:      rec.IsMoving,
		IsOnline:      true,
	}
	if rec.HeadingDegrees != nil {
		snap.HeadingDeg = *rec.HeadingDegrees
	}
	if vehicle.RouteID != nil {
		snap.RouteID = *vehicle.RouteID
	}
	if vehicle.RouteName != nil {
		snap.RouteName = *vehicle.RouteName
	}
	if body, err := json.Marshal(snap); err == nil {
		ts.feed.Broadcast(body)
	}
}

func validateReport(req dto.SubmitLocationRequest) error {
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return myerrors.ErrInvalidCoordinate
	}
	if req.SpeedKmh < 0 {
		return myerrors.ErrInvalidSpeed
	}
	if req.HeadingDegrees != nil && (*req.HeadingDegrees < 0 || *req.HeadingDegrees > 360) {
		return myerrors.ErrMalformedRequest
	}
	return nil
}
