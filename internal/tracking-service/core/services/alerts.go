package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bus-track/internal/config"
	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/event"
	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"
	"bus-track/internal/tracking-service/core/ports/driven"

	"github.com/google/uuid"
)

// AlertService evaluates accepted records against speed and geofence rules
// and owns the acknowledge/resolve state machines. Evaluation is idempotent
// per record: the store dedupes on (location_record_id, alert_type).
type AlertService struct {
	cfg       *config.Trackingconfig
	log       mylogger.Logger
	alerts    driven.IAlertRepo
	geofences driven.IGeofenceRepo
	drivers   driven.IDriverRepo
	vehicles  driven.IVehicleRepo
	records   driven.ILocationRepo
	broker    driven.ITrackingBroker
}

func NewAlertService(
	cfg *config.Trackingconfig,
	log mylogger.Logger,
	alerts driven.IAlertRepo,
	geofences driven.IGeofenceRepo,
	drivers driven.IDriverRepo,
	vehicles driven.IVehicleRepo,
	records driven.ILocationRepo,
	broker driven.ITrackingBroker,
) *AlertService {
	return &AlertService{
		cfg:       cfg,
		log:       log,
		alerts:    alerts,
		geofences: geofences,
		drivers:   drivers,
		vehicles:  vehicles,
		records:   records,
		broker:    broker,
	}
}

// Evaluate runs every active rule against one record. Geofence transitions
// are detected first so a geofence speed-limit override applies to the same
// report that crossed the boundary.
func (as *AlertService) Evaluate(ctx context.Context, rec model.LocationRecord) error {
	areas, err := as.geofences.ActiveAreas(ctx)
	if err != nil {
		return fmt.Errorf("load geofences: %w", err)
	}

	containing, err := as.detectTransitions(ctx, rec, areas)
	if err != nil {
		return err
	}

	limit := as.speedLimitFor(containing)
	if rec.SpeedKmh <= limit {
		return nil
	}

	drv, err := as.drivers.ByAssignedVehicle(ctx, rec.VehicleID)
	if err != nil {
		return fmt.Errorf("resolve driver: %w", err)
	}
	if drv == nil {
		as.log.Action("evaluate").Warn("overspeed without assigned driver, alert skipped",
			"vehicle_id", rec.VehicleID, "speed_kmh", rec.SpeedKmh)
		return nil
	}

	severity := as.severityFor(rec.SpeedKmh, limit)
	alert := model.SpeedAlert{
		AlertID:          uuid.NewString(),
		VehicleID:        rec.VehicleID,
		DriverID:         drv.DriverID,
		AlertType:        model.SpeedAlertOverspeed,
		Severity:         severity,
		RecordedSpeedKmh: rec.SpeedKmh,
		SpeedLimitKmh:    limit,
		LocationRecordID: rec.RecordID,
		Message:          fmt.Sprintf("Speed limit exceeded: %.1f km/h (limit: %.1f km/h)", rec.SpeedKmh, limit),
	}

	created, err := as.alerts.InsertSpeedAlert(ctx, alert)
	if err != nil {
		return fmt.Errorf("insert speed alert: %w", err)
	}
	if !created {
		// Re-evaluation of an already-processed record.
		return nil
	}

	ev := event.SpeedAlertRaised{
		AlertID:          alert.AlertID,
		VehicleID:        alert.VehicleID,
		DriverID:         alert.DriverID,
		AlertType:        alert.AlertType,
		Severity:         alert.Severity,
		RecordedSpeedKmh: alert.RecordedSpeedKmh,
		SpeedLimitKmh:    alert.SpeedLimitKmh,
		CreatedAt:        time.Now().UTC(),
	}
	key := fmt.Sprintf("alert.speed.%s", severity)
	if err := as.broker.PublishJSON(ctx, trackingExchangeName, key, ev); err != nil {
		as.log.Action("evaluate").Error("failed to publish speed alert", err,
			"alert_id", alert.AlertID)
	}
	return nil
}

// detectTransitions updates the per-(vehicle, geofence) containment state and
// publishes entry/exit events. The first observation of a pair only seeds the
// state: a single snapshot cannot distinguish entry from "still inside".
// It returns the areas currently containing the record.
func (as *AlertService) detectTransitions(ctx context.Context, rec model.LocationRecord, areas []model.GeofenceArea) ([]model.GeofenceArea, error) {
	var containing []model.GeofenceArea
	for _, area := range areas {
		inside := InsideGeofence(area, rec.Latitude, rec.Longitude)
		if inside {
			containing = append(containing, area)
		}

		prev, err := as.geofences.ContainmentState(ctx, rec.VehicleID, area.GeofenceID)
		if err != nil {
			return nil, fmt.Errorf("containment state: %w", err)
		}
		if prev != nil && prev.Inside == inside {
			continue
		}
		st := model.GeofenceState{VehicleID: rec.VehicleID, GeofenceID: area.GeofenceID, Inside: inside}
		if err := as.geofences.SetContainmentState(ctx, st); err != nil {
			return nil, fmt.Errorf("set containment state: %w", err)
		}
		if prev == nil {
			continue
		}

		if (inside && area.AlertOnEntry) || (!inside && area.AlertOnExit) {
			key := "geofence.exited"
			if inside {
				key = "geofence.entered"
			}
			ev := event.GeofenceTransition{
				VehicleID:    rec.VehicleID,
				GeofenceID:   area.GeofenceID,
				GeofenceName: area.Name,
				Entered:      inside,
				Timestamp:    rec.Timestamp,
			}
			if err := as.broker.PublishJSON(ctx, trackingExchangeName, key, ev); err != nil {
				as.log.Action("evaluate").Error("failed to publish geofence transition", err,
					"geofence_id", area.GeofenceID)
			}
		}
	}
	return containing, nil
}

// speedLimitFor picks the effective limit: the innermost containing geofence
// with an override wins, otherwise the configured default.
func (as *AlertService) speedLimitFor(containing []model.GeofenceArea) float64 {
	withLimit := make([]model.GeofenceArea, 0, len(containing))
	for _, area := range containing {
		if area.SpeedLimitKmh != nil {
			withLimit = append(withLimit, area)
		}
	}
	if len(withLimit) == 0 {
		return as.cfg.DefaultSpeedLimitKmh
	}
	sort.Slice(withLimit, func(i, j int) bool {
		return withLimit[i].RadiusMeters < withLimit[j].RadiusMeters
	})
	return *withLimit[0].SpeedLimitKmh
}

// severityFor bands the margin over the limit deterministically.
func (as *AlertService) severityFor(speed, limit float64) string {
	if limit <= 0 {
		return model.SeverityCritical
	}
	margin := (speed - limit) / limit
	switch {
	case margin < as.cfg.MediumBandFrac:
		return model.SeverityLow
	case margin < as.cfg.HighBandFrac:
		return model.SeverityMedium
	case margin < as.cfg.CriticalBandFrac:
		return model.SeverityHigh
	default:
		return model.SeverityCritical
	}
}

// RaiseEmergency creates an explicit emergency alert anchored to the
// vehicle's latest record.
func (as *AlertService) RaiseEmergency(ctx context.Context, vehicleID string, req dto.RaiseEmergencyRequest) (dto.RaiseEmergencyResponse, error) {
	if !model.ValidEmergencyType(req.AlertType) {
		return dto.RaiseEmergencyResponse{}, myerrors.ErrInvalidAlertType
	}

	if _, err := as.vehicles.ByID(ctx, vehicleID); err != nil {
		return dto.RaiseEmergencyResponse{}, err
	}

	priority := req.Priority
	if priority == "" {
		priority = model.SeverityHigh
	}

	latest, err := as.records.LatestByVehicle(ctx, vehicleID)
	if err != nil {
		return dto.RaiseEmergencyResponse{}, fmt.Errorf("latest record: %w", err)
	}
	locationRecordID := ""
	if latest != nil {
		locationRecordID = latest.RecordID
	}

	alert := model.EmergencyAlert{
		AlertID:          uuid.NewString(),
		VehicleID:        vehicleID,
		DriverID:         req.DriverID,
		AlertType:        req.AlertType,
		Priority:         priority,
		LocationRecordID: locationRecordID,
		Description:      req.Description,
		CreatedAt:        time.Now().UTC(),
	}
	if err := as.alerts.InsertEmergencyAlert(ctx, alert); err != nil {
		return dto.RaiseEmergencyResponse{}, fmt.Errorf("insert emergency alert: %w", err)
	}

	ev := event.EmergencyRaised{
		AlertID:     alert.AlertID,
		VehicleID:   alert.VehicleID,
		DriverID:    alert.DriverID,
		AlertType:   alert.AlertType,
		Priority:    alert.Priority,
		Description: alert.Description,
		CreatedAt:   alert.CreatedAt,
	}
	key := fmt.Sprintf("alert.emergency.%s", priority)
	if err := as.broker.PublishJSON(ctx, trackingExchangeName, key, ev); err != nil {
		as.log.Action("raise_emergency").Error("failed to publish emergency alert", err,
			"alert_id", alert.AlertID)
	}

	return dto.RaiseEmergencyResponse{
		AlertID:   alert.AlertID,
		Priority:  alert.Priority,
		CreatedAt: alert.CreatedAt,
	}, nil
}

// AcknowledgeSpeedAlert is a one-shot transition; re-invocation fails so the
// original acknowledger is never overwritten.
func (as *AlertService) AcknowledgeSpeedAlert(ctx context.Context, alertID, actor string) (dto.SpeedAlertView, error) {
	alert, err := as.alerts.SpeedAlertByID(ctx, alertID)
	if err != nil {
		return dto.SpeedAlertView{}, err
	}
	if alert.IsAcknowledged {
		return dto.SpeedAlertView{}, myerrors.ErrAlreadyAcknowledged
	}

	now := time.Now().UTC()
	if err := as.alerts.AcknowledgeSpeedAlert(ctx, alertID, actor, now); err != nil {
		return dto.SpeedAlertView{}, fmt.Errorf("acknowledge alert: %w", err)
	}
	alert.IsAcknowledged = true
	alert.AcknowledgedBy = &actor
	alert.AcknowledgedAt = &now
	return speedAlertView(alert), nil
}

// ResolveEmergencyAlert closes an emergency; the response time is computed
// exactly once, here.
func (as *AlertService) ResolveEmergencyAlert(ctx context.Context, alertID string, req dto.ResolveRequest) (dto.EmergencyAlertView, error) {
	alert, err := as.alerts.EmergencyAlertByID(ctx, alertID)
	if err != nil {
		return dto.EmergencyAlertView{}, err
	}
	if alert.IsResolved {
		return dto.EmergencyAlertView{}, myerrors.ErrAlreadyResolved
	}

	now := time.Now().UTC()
	responseMinutes := int(now.Sub(alert.CreatedAt).Minutes())
	if err := as.alerts.ResolveEmergencyAlert(ctx, alertID, req.ResolvedBy, req.Notes, req.AuthoritiesContacted, now, responseMinutes); err != nil {
		return dto.EmergencyAlertView{}, fmt.Errorf("resolve alert: %w", err)
	}
	alert.IsResolved = true
	alert.ResolvedBy = &req.ResolvedBy
	alert.ResolvedAt = &now
	alert.ResolutionNotes = req.Notes
	alert.AuthoritiesContacted = req.AuthoritiesContacted
	alert.ResponseTimeMinutes = &responseMinutes
	return emergencyAlertView(alert), nil
}

func (as *AlertService) SpeedAlerts(ctx context.Context, outstandingOnly bool) ([]dto.SpeedAlertView, error) {
	alerts, err := as.alerts.ListSpeedAlerts(ctx, outstandingOnly)
	if err != nil {
		return nil, err
	}
	views := make([]dto.SpeedAlertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, speedAlertView(a))
	}
	return views, nil
}

func (as *AlertService) EmergencyAlerts(ctx context.Context, outstandingOnly bool) ([]dto.EmergencyAlertView, error) {
	alerts, err := as.alerts.ListEmergencyAlerts(ctx, outstandingOnly)
	if err != nil {
		return nil, err
	}
	views := make([]dto.EmergencyAlertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, emergencyAlertView(a))
	}
	return views, nil
}

func speedAlertView(a model.SpeedAlert) dto.SpeedAlertView {
	return dto.SpeedAlertView{
		AlertID:          a.AlertID,
		VehicleID:        a.VehicleID,
		DriverID:         a.DriverID,
		AlertType:        a.AlertType,
		Severity:         a.Severity,
		RecordedSpeedKmh: a.RecordedSpeedKmh,
		SpeedLimitKmh:    a.SpeedLimitKmh,
		LocationRecordID: a.LocationRecordID,
		Message:          a.Message,
		IsAcknowledged:   a.IsAcknowledged,
		AcknowledgedBy:   a.AcknowledgedBy,
		AcknowledgedAt:   a.AcknowledgedAt,
		CreatedAt:        a.CreatedAt,
	}
}

func emergencyAlertView(a model.EmergencyAlert) dto.EmergencyAlertView {
	return dto.EmergencyAlertView{
		AlertID:              a.AlertID,
		VehicleID:            a.VehicleID,
		DriverID:             a.DriverID,
		AlertType:            a.AlertType,
		Priority:             a.Priority,
		LocationRecordID:     a.LocationRecordID,
		Description:          a.Description,
		IsResolved:           a.IsResolved,
		ResolvedBy:           a.ResolvedBy,
		ResolvedAt:           a.ResolvedAt,
		ResolutionNotes:      a.ResolutionNotes,
		AuthoritiesContacted: a.AuthoritiesContacted,
		ResponseTimeMinutes:  a.ResponseTimeMinutes,
		CreatedAt:            a.CreatedAt,
	}
}
