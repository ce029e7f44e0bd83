package db

import (
	"context"
	"errors"
	"time"

	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

type AlertRepository struct {
	db *DataBase
}

func NewAlertRepository(db *DataBase) *AlertRepository {
	return &AlertRepository{db: db}
}

// InsertSpeedAlert dedupes on (location_record_id, alert_type) so that
// re-evaluating a record never duplicates its alert.
func (ar *AlertRepository) InsertSpeedAlert(ctx context.Context, a model.SpeedAlert) (bool, error) {
	q := `
		INSERT INTO speed_alerts(
			alert_id, vehicle_id, driver_id, alert_type, severity,
			recorded_speed_kmh, speed_limit_kmh, location_record_id, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (location_record_id, alert_type) DO NOTHING;
	`
	tag, err := ar.db.Pool().Exec(ctx, q,
		a.AlertID,
		a.VehicleID,
		a.DriverID,
		a.AlertType,
		a.Severity,
		a.RecordedSpeedKmh,
		a.SpeedLimitKmh,
		a.LocationRecordID,
		a.Message,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (ar *AlertRepository) InsertEmergencyAlert(ctx context.Context, a model.EmergencyAlert) error {
	q := `
		INSERT INTO emergency_alerts(
			alert_id, vehicle_id, driver_id, alert_type, priority,
			location_record_id, description)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7);
	`
	_, err := ar.db.Pool().Exec(ctx, q,
		a.AlertID,
		a.VehicleID,
		a.DriverID,
		a.AlertType,
		a.Priority,
		a.LocationRecordID,
		a.Description,
	)
	return err
}

const speedAlertColumns = `
	alert_id, vehicle_id, driver_id, alert_type, severity,
	recorded_speed_kmh, speed_limit_kmh, location_record_id, message,
	is_acknowledged, acknowledged_by, acknowledged_at, created_at`

func (ar *AlertRepository) SpeedAlertByID(ctx context.Context, alertID string) (model.SpeedAlert, error) {
	q := `SELECT ` + speedAlertColumns + ` FROM speed_alerts WHERE alert_id = $1;`
	a, err := scanSpeedAlert(ar.db.Pool().QueryRow(ctx, q, alertID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SpeedAlert{}, myerrors.ErrAlertNotFound
		}
		return model.SpeedAlert{}, err
	}
	return a, nil
}

const emergencyAlertColumns = `
	alert_id, vehicle_id, driver_id, alert_type, priority,
	COALESCE(location_record_id, ''), description, is_resolved, resolved_by,
	resolved_at, resolution_notes, authorities_contacted, response_time_minutes, created_at`

func (ar *AlertRepository) EmergencyAlertByID(ctx context.Context, alertID string) (model.EmergencyAlert, error) {
	q := `SELECT ` + emergencyAlertColumns + ` FROM emergency_alerts WHERE alert_id = $1;`
	a, err := scanEmergencyAlert(ar.db.Pool().QueryRow(ctx, q, alertID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmergencyAlert{}, myerrors.ErrAlertNotFound
		}
		return model.EmergencyAlert{}, err
	}
	return a, nil
}

// AcknowledgeSpeedAlert only flips unacknowledged rows; the service layer
// reports the conflict when nothing matched.
func (ar *AlertRepository) AcknowledgeSpeedAlert(ctx context.Context, alertID, actor string, at time.Time) error {
	q := `
		UPDATE speed_alerts
		SET is_acknowledged = TRUE,
			acknowledged_by = $1,
			acknowledged_at = $2
		WHERE alert_id = $3 AND is_acknowledged = FALSE;
	`
	tag, err := ar.db.Pool().Exec(ctx, q, actor, at, alertID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrAlreadyAcknowledged
	}
	return nil
}

func (ar *AlertRepository) ResolveEmergencyAlert(ctx context.Context, alertID, actor, notes string, authoritiesContacted bool, at time.Time, responseMinutes int) error {
	q := `
		UPDATE emergency_alerts
		SET is_resolved = TRUE,
			resolved_by = $1,
			resolved_at = $2,
			resolution_notes = $3,
			authorities_contacted = $4,
			response_time_minutes = $5
		WHERE alert_id = $6 AND is_resolved = FALSE;
	`
	tag, err := ar.db.Pool().Exec(ctx, q, actor, at, notes, authoritiesContacted, responseMinutes, alertID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrAlreadyResolved
	}
	return nil
}

func (ar *AlertRepository) ListSpeedAlerts(ctx context.Context, outstandingOnly bool) ([]model.SpeedAlert, error) {
	q := `
		SELECT ` + speedAlertColumns + `
		FROM speed_alerts
		WHERE ($1 = FALSE OR is_acknowledged = FALSE)
		ORDER BY created_at DESC;
	`
	rows, err := ar.db.Pool().Query(ctx, q, outstandingOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.SpeedAlert
	for rows.Next() {
		a, err := scanSpeedAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (ar *AlertRepository) ListEmergencyAlerts(ctx context.Context, outstandingOnly bool) ([]model.EmergencyAlert, error) {
	q := `
		SELECT ` + emergencyAlertColumns + `
		FROM emergency_alerts
		WHERE ($1 = FALSE OR is_resolved = FALSE)
		ORDER BY created_at DESC;
	`
	rows, err := ar.db.Pool().Query(ctx, q, outstandingOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.EmergencyAlert
	for rows.Next() {
		a, err := scanEmergencyAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (ar *AlertRepository) CountOutstanding(ctx context.Context) (int, int, error) {
	q := `
		SELECT
			(SELECT COUNT(*) FROM speed_alerts WHERE is_acknowledged = FALSE),
			(SELECT COUNT(*) FROM emergency_alerts WHERE is_resolved = FALSE);
	`
	var speed, emergency int
	if err := ar.db.Pool().QueryRow(ctx, q).Scan(&speed, &emergency); err != nil {
		return 0, 0, err
	}
	return speed, emergency, nil
}

func scanSpeedAlert(row rowScanner) (model.SpeedAlert, error) {
	var a model.SpeedAlert
	err := row.Scan(
		&a.AlertID,
		&a.VehicleID,
		&a.DriverID,
		&a.AlertType,
		&a.Severity,
		&a.RecordedSpeedKmh,
		&a.SpeedLimitKmh,
		&a.LocationRecordID,
		&a.Message,
		&a.IsAcknowledged,
		&a.AcknowledgedBy,
		&a.AcknowledgedAt,
		&a.CreatedAt,
	)
	return a, err
}

func scanEmergencyAlert(row rowScanner) (model.EmergencyAlert, error) {
	var a model.EmergencyAlert
	err := row.Scan(
		&a.AlertID,
		&a.VehicleID,
		&a.DriverID,
		&a.AlertType,
		&a.Priority,
		&a.LocationRecordID,
		&a.Description,
		&a.IsResolved,
		&a.ResolvedBy,
		&a.ResolvedAt,
		&a.ResolutionNotes,
		&a.AuthoritiesContacted,
		&a.ResponseTimeMinutes,
		&a.CreatedAt,
	)
	return a, err
}
