package services

import (
	"context"
	"fmt"
	"time"

	"bus-track/internal/config"
	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/ports/driven"
)

// QueryService answers "where is the fleet now" and alert-listing requests.
// It is strictly read-only: the only writes it performs are snapshot cache
// fills, which are best-effort.
type QueryService struct {
	cfg      *config.Trackingconfig
	log      mylogger.Logger
	status   *StatusDeriver
	vehicles driven.IVehicleRepo
	records  driven.ILocationRepo
	alerts   driven.IAlertRepo
	cache    driven.ISnapshotCache
	now      func() time.Time
}

func NewQueryService(
	cfg *config.Trackingconfig,
	log mylogger.Logger,
	status *StatusDeriver,
	vehicles driven.IVehicleRepo,
	records driven.ILocationRepo,
	alerts driven.IAlertRepo,
	cache driven.ISnapshotCache,
) *QueryService {
	return &QueryService{
		cfg:      cfg,
		log:      log,
		status:   status,
		vehicles: vehicles,
		records:  records,
		alerts:   alerts,
		cache:    cache,
		now:      time.Now,
	}
}

// LatestPositions fans out one latest-record lookup per matching vehicle,
// through the snapshot cache. Vehicles that never reported are omitted.
// Online and minutes-ago are always recomputed against the current clock,
// never trusted from the cache.
func (qs *QueryService) LatestPositions(ctx context.Context, filter dto.PositionsFilter) (dto.PositionsResponse, error) {
	vehicles, err := qs.vehicles.List(ctx, filter)
	if err != nil {
		return dto.PositionsResponse{}, fmt.Errorf("list vehicles: %w", err)
	}

	now := qs.now().UTC()
	snaps := make([]dto.VehicleSnapshot, 0, len(vehicles))
	online := 0
	for _, v := range vehicles {
		snap, err := qs.snapshotFor(ctx, v)
		if err != nil {
			return dto.PositionsResponse{}, err
		}
		if snap == nil {
			continue
		}
		snap.IsOnline = now.Sub(snap.Timestamp) <= qs.cfg.OnlineWindow
		snap.MinutesAgo = int(now.Sub(snap.Timestamp).Minutes())
		snap.IsMoving = qs.status.IsMoving(snap.SpeedKmh)
		if snap.IsOnline {
			online++
		}
		snaps = append(snaps, *snap)
	}

	return dto.PositionsResponse{
		Buses:       snaps,
		TotalBuses:  len(snaps),
		OnlineBuses: online,
		GeneratedAt: now,
	}, nil
}

func (qs *QueryService) snapshotFor(ctx context.Context, v model.Vehicle) (*dto.VehicleSnapshot, error) {
	cached, err := qs.cache.Get(ctx, v.VehicleID)
	if err != nil {
		qs.log.Action("latest_positions").Warn("snapshot cache read failed",
			"vehicle_id", v.VehicleID)
	} else if cached != nil {
		return cached, nil
	}

	latest, err := qs.records.LatestByVehicle(ctx, v.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("latest record for %s: %w", v.VehicleID, err)
	}
	if latest == nil {
		return nil, nil
	}

	snap := dto.VehicleSnapshot{
		VehicleID:     v.VehicleID,
		VehicleNumber: v.VehicleNumber,
		VehicleName:   v.VehicleName,
		Latitude:      latest.Latitude,
		Longitude:     latest.Longitude,
		SpeedKmh:      latest.SpeedKmh,
		Timestamp:     latest.Timestamp,
		IsMoving:      latest.IsMoving,
	}
	if latest.HeadingDegrees != nil {
		snap.HeadingDeg = *latest.HeadingDegrees
	}
	if v.RouteID != nil {
		snap.RouteID = *v.RouteID
	}
	if v.RouteName != nil {
		snap.RouteName = *v.RouteName
	}

	ttl := qs.cfg.OnlineWindow / 10
	if err := qs.cache.Set(ctx, snap, ttl); err != nil {
		qs.log.Action("latest_positions").Warn("snapshot cache fill failed",
			"vehicle_id", v.VehicleID)
	}
	return &snap, nil
}

func (qs *QueryService) History(ctx context.Context, vehicleID string, limit int) ([]dto.HistoryEntry, error) {
	if _, err := qs.vehicles.ByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	records, err := qs.records.HistoryByVehicle(ctx, vehicleID, limit)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", vehicleID, err)
	}
	entries := make([]dto.HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, dto.HistoryEntry{
			RecordID:   rec.RecordID,
			Latitude:   rec.Latitude,
			Longitude:  rec.Longitude,
			SpeedKmh:   rec.SpeedKmh,
			HeadingDeg: rec.HeadingDegrees,
			IsMoving:   rec.IsMoving,
			Timestamp:  rec.Timestamp,
		})
	}
	return entries, nil
}

// FleetSummary backs the operations dashboard.
func (qs *QueryService) FleetSummary(ctx context.Context) (dto.FleetSummary, error) {
	positions, err := qs.LatestPositions(ctx, dto.PositionsFilter{ActiveOnly: true})
	if err != nil {
		return dto.FleetSummary{}, err
	}

	moving := 0
	for _, snap := range positions.Buses {
		if snap.IsMoving {
			moving++
		}
	}

	speed, emergency, err := qs.alerts.CountOutstanding(ctx)
	if err != nil {
		return dto.FleetSummary{}, fmt.Errorf("count outstanding alerts: %w", err)
	}

	return dto.FleetSummary{
		TotalVehicles:        positions.TotalBuses,
		OnlineVehicles:       positions.OnlineBuses,
		MovingVehicles:       moving,
		OutstandingSpeed:     speed,
		OutstandingEmergency: emergency,
	}, nil
}
