package db

import (
	"context"
	"errors"
	"time"

	"bus-track/internal/tracking-service/core/domain/model"

	"github.com/jackc/pgx/v5"
)

type LocationRepository struct {
	db *DataBase
}

func NewLocationRepository(db *DataBase) *LocationRepository {
	return &LocationRepository{db: db}
}

// InsertWithProjection appends the record and refreshes the vehicle's cached
// position in one transaction. Whichever transaction commits last owns the
// cached position, so it always reflects some committed record.
func (lr *LocationRepository) InsertWithProjection(ctx context.Context, rec model.LocationRecord) (time.Time, error) {
	tx, err := lr.db.Pool().BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Rollback(ctx) // Safe rollback if not committed

	InsertRecordQuery := `
		INSERT INTO location_records(
			record_id, vehicle_id, latitude, longitude, altitude_meters,
			speed_kmh, heading_degrees, accuracy_meters, is_moving,
			is_at_terminal, terminal_name, device_id, battery_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING recorded_at;
	`
	var recordedAt time.Time
	err = tx.QueryRow(ctx, InsertRecordQuery,
		rec.RecordID,
		rec.VehicleID,
		rec.Latitude,
		rec.Longitude,
		rec.AltitudeMeters,
		rec.SpeedKmh,
		rec.HeadingDegrees,
		rec.AccuracyMeters,
		rec.IsMoving,
		rec.IsAtTerminal,
		rec.TerminalName,
		rec.DeviceID,
		rec.BatteryLevel,
	).Scan(&recordedAt)
	if err != nil {
		return time.Time{}, err
	}

	UpdateProjectionQuery := `
		UPDATE vehicles
		SET current_latitude = $1,
			current_longitude = $2,
			last_location_update = $3
		WHERE vehicle_id = $4;
	`
	if _, err := tx.Exec(ctx, UpdateProjectionQuery, rec.Latitude, rec.Longitude, recordedAt, rec.VehicleID); err != nil {
		return time.Time{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return time.Time{}, err
	}
	return recordedAt, nil
}

func (lr *LocationRepository) LatestByVehicle(ctx context.Context, vehicleID string) (*model.LocationRecord, error) {
	q := `
		SELECT record_id, vehicle_id, latitude, longitude, altitude_meters,
			speed_kmh, heading_degrees, accuracy_meters, is_moving,
			is_at_terminal, terminal_name, device_id, battery_level, recorded_at
		FROM location_records
		WHERE vehicle_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1;
	`
	rec, err := scanRecord(lr.db.Pool().QueryRow(ctx, q, vehicleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (lr *LocationRepository) HistoryByVehicle(ctx context.Context, vehicleID string, limit int) ([]model.LocationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `
		SELECT record_id, vehicle_id, latitude, longitude, altitude_meters,
			speed_kmh, heading_degrees, accuracy_meters, is_moving,
			is_at_terminal, terminal_name, device_id, battery_level, recorded_at
		FROM location_records
		WHERE vehicle_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2;
	`
	rows, err := lr.db.Pool().Query(ctx, q, vehicleID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.LocationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.LocationRecord, error) {
	var rec model.LocationRecord
	err := row.Scan(
		&rec.RecordID,
		&rec.VehicleID,
		&rec.Latitude,
		&rec.Longitude,
		&rec.AltitudeMeters,
		&rec.SpeedKmh,
		&rec.HeadingDegrees,
		&rec.AccuracyMeters,
		&rec.IsMoving,
		&rec.IsAtTerminal,
		&rec.TerminalName,
		&rec.DeviceID,
		&rec.BatteryLevel,
		&rec.Timestamp,
	)
	return rec, err
}
