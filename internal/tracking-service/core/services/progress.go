package services

import (
	"context"
	"fmt"
	"time"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"
	"bus-track/internal/tracking-service/core/ports/driven"

	"github.com/google/uuid"
)

// ProgressService maintains one journey row per vehicle. The external routing
// collaborator supplies distance-covered updates; this service only derives
// the percentage and status from them.
type ProgressService struct {
	log      mylogger.Logger
	progress driven.IProgressRepo
	vehicles driven.IVehicleRepo
	now      func() time.Time
}

func NewProgressService(log mylogger.Logger, progress driven.IProgressRepo, vehicles driven.IVehicleRepo) *ProgressService {
	return &ProgressService{
		log:      log,
		progress: progress,
		vehicles: vehicles,
		now:      time.Now,
	}
}

func (ps *ProgressService) RecordProgress(ctx context.Context, vehicleID string, req dto.RecordProgressRequest) (dto.ProgressView, error) {
	if _, err := ps.vehicles.ByID(ctx, vehicleID); err != nil {
		return dto.ProgressView{}, err
	}
	if req.Status != "" && !validProgressStatus(req.Status) {
		return dto.ProgressView{}, myerrors.ErrMalformedRequest
	}
	if req.DistanceCoveredKm < 0 || req.TotalDistanceKm < 0 {
		return dto.ProgressView{}, myerrors.ErrMalformedRequest
	}

	now := ps.now().UTC()
	existing, err := ps.progress.ByVehicle(ctx, vehicleID)
	if err != nil {
		return dto.ProgressView{}, fmt.Errorf("load progress: %w", err)
	}

	var p model.RouteProgress
	if existing != nil && existing.RouteID == req.RouteID &&
		existing.Status != model.ProgressArrived && existing.Status != model.ProgressCancelled {
		p = *existing
	} else {
		p = model.RouteProgress{
			ProgressID:       uuid.NewString(),
			VehicleID:        vehicleID,
			RouteID:          req.RouteID,
			JourneyStartTime: now,
			Status:           model.ProgressNotStarted,
		}
	}

	p.DistanceCoveredKm = req.DistanceCoveredKm
	if req.TotalDistanceKm > 0 {
		p.TotalDistanceKm = req.TotalDistanceKm
	}
	if req.EstimatedArrival != nil {
		p.EstimatedArrival = req.EstimatedArrival
	}
	p.DelayMinutes = req.DelayMinutes
	if req.DelayReason != "" {
		p.DelayReason = req.DelayReason
	}
	p.CalculateProgress()

	switch {
	case req.Status != "":
		p.Status = req.Status
	case p.ProgressPercentage >= 100 && p.TotalDistanceKm > 0:
		p.Status = model.ProgressArrived
	case req.DelayMinutes > 0:
		p.Status = model.ProgressDelayed
	case p.DistanceCoveredKm > 0:
		p.Status = model.ProgressInTransit
	}
	if p.Status == model.ProgressArrived && p.ActualArrival == nil {
		p.ActualArrival = &now
	}
	p.UpdatedAt = now

	if err := ps.progress.Upsert(ctx, p); err != nil {
		return dto.ProgressView{}, fmt.Errorf("store progress: %w", err)
	}

	ps.log.Action("record_progress").Debug("progress updated",
		"vehicle_id", vehicleID, "percentage", p.ProgressPercentage, "status", p.Status)

	return progressView(p), nil
}

func (ps *ProgressService) GetProgress(ctx context.Context, vehicleID string) (dto.ProgressView, error) {
	if _, err := ps.vehicles.ByID(ctx, vehicleID); err != nil {
		return dto.ProgressView{}, err
	}
	p, err := ps.progress.ByVehicle(ctx, vehicleID)
	if err != nil {
		return dto.ProgressView{}, fmt.Errorf("load progress: %w", err)
	}
	if p == nil {
		return dto.ProgressView{}, myerrors.ErrNoProgress
	}
	return progressView(*p), nil
}

func validProgressStatus(s string) bool {
	switch s {
	case model.ProgressNotStarted, model.ProgressInTransit, model.ProgressDelayed,
		model.ProgressArrived, model.ProgressCancelled:
		return true
	}
	return false
}

func progressView(p model.RouteProgress) dto.ProgressView {
	return dto.ProgressView{
		VehicleID:          p.VehicleID,
		RouteID:            p.RouteID,
		JourneyStartTime:   p.JourneyStartTime,
		EstimatedArrival:   p.EstimatedArrival,
		ActualArrival:      p.ActualArrival,
		DistanceCoveredKm:  p.DistanceCoveredKm,
		TotalDistanceKm:    p.TotalDistanceKm,
		ProgressPercentage: p.ProgressPercentage,
		Status:             p.Status,
		DelayMinutes:       p.DelayMinutes,
		DelayReason:        p.DelayReason,
		UpdatedAt:          p.UpdatedAt,
	}
}
